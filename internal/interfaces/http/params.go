package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// pagination lee limit/offset del query string con topes razonables.
func pagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// dateRange lee from/to del query string (RFC 3339 o fecha simple 2006-01-02).
func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = parseQueryTime(c.Query("from")); err != nil {
		return nil, nil, err
	}
	if to, err = parseQueryTime(c.Query("to")); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func parseQueryTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

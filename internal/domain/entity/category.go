package entity

import "time"

// Category categoría de productos de una tienda.
type Category struct {
	ID          string
	StoreID     string
	Name        string
	Description string
	CreatedAt   time.Time
}

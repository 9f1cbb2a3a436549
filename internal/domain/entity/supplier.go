package entity

import "time"

// Supplier proveedor de una tienda.
type Supplier struct {
	ID        string
	StoreID   string
	Name      string
	Contact   string
	Phone     string
	CreatedAt time.Time
}

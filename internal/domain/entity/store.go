package entity

import "time"

// Store una tienda. Toda consulta y mutación del sistema se escopa por
// StoreID explícito; no existe una "tienda actual" ambiental.
type Store struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

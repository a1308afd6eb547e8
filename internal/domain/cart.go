package domain

import "time"

type CartItem struct {
	ID        string
	CartID    string
	UserID    string
	ProductID string
	Quantity  int32
	CreatedAt time.Time
}

// Product is the slice of the catalog this service needs: the price source
// of truth for server-side total computation. The full catalog lives in
// the storefront backend.
type Product struct {
	ID     string
	Name   string
	Price  float64
	Active bool
}

package model

// Price is the backend's display price, tax included.
type Price struct {
	Amount    int
	Currency  string
	Formatted string
}

// Product is a read-only catalog entry sourced from the commerce backend.
// WeightKg is the base sale unit; quantity buttons offer multiples of it.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       Price
	WeightKg    float64
	StockLevel  int
	ImageID     string // empty when the product has no main image
}

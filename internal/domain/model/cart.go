package model

// CartItem is one line item within a cart, fully owned by the backend.
type CartItem struct {
	ID          string
	ProductID   string
	Name        string
	Description string
	Quantity    int
	UnitPrice   string // formatted, per base unit
	LineTotal   string // formatted
}

// Cart holds only what the bot reads back: its id and the running total.
type Cart struct {
	ID    string
	Total Price
}

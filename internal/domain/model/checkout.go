package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// CheckoutRecord is one completed checkout, journaled for operators after
// the customer record was created upstream.
type CheckoutRecord struct {
	ID         string
	ChatID     int64
	CustomerID string
	Email      string
	CartTotal  string
	CreatedAt  time.Time
}

func NewCheckoutRecord(chatID int64, customerID, email, cartTotal string) *CheckoutRecord {
	return &CheckoutRecord{
		ID:         ulid.Make().String(),
		ChatID:     chatID,
		CustomerID: customerID,
		Email:      email,
		CartTotal:  cartTotal,
		CreatedAt:  time.Now().UTC(),
	}
}

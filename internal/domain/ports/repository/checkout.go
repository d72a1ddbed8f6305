package repository

import (
	"context"

	"github.com/delphython/fish-shop/internal/domain/model"
)

// CheckoutRepository is the port for the operator-facing checkout journal.
type CheckoutRepository interface {
	Save(ctx context.Context, rec *model.CheckoutRecord) error
	ListRecent(ctx context.Context, limit int) ([]*model.CheckoutRecord, error)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/delphython/fish-shop/internal/domain/model"
	"github.com/delphython/fish-shop/internal/domain/ports/repository"
)

var _ repository.CheckoutRepository = (*checkoutRepo)(nil)

// checkoutRepo is the append-only checkout journal.
//
// Schema:
//
//	CREATE TABLE IF NOT EXISTS checkouts (
//	  id          TEXT PRIMARY KEY,
//	  chat_id     BIGINT NOT NULL,
//	  customer_id TEXT NOT NULL,
//	  email       TEXT NOT NULL,
//	  cart_total  TEXT NOT NULL,
//	  created_at  TIMESTAMPTZ NOT NULL
//	);
type checkoutRepo struct{ pool *pgxpool.Pool }

func NewCheckoutRepo(pool *pgxpool.Pool) *checkoutRepo {
	return &checkoutRepo{pool: pool}
}

func (r *checkoutRepo) Save(ctx context.Context, rec *model.CheckoutRecord) error {
	const q = `
INSERT INTO checkouts (id, chat_id, customer_id, email, cart_total, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO NOTHING;`
	_, err := r.pool.Exec(ctx, q, rec.ID, rec.ChatID, rec.CustomerID, rec.Email, rec.CartTotal, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert checkout: %w", err)
	}
	return nil
}

func (r *checkoutRepo) ListRecent(ctx context.Context, limit int) ([]*model.CheckoutRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, chat_id, customer_id, email, cart_total, created_at
FROM checkouts ORDER BY created_at DESC LIMIT $1;`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query checkouts: %w", err)
	}
	defer rows.Close()

	var out []*model.CheckoutRecord
	for rows.Next() {
		rec := &model.CheckoutRecord{}
		if err := rows.Scan(&rec.ID, &rec.ChatID, &rec.CustomerID, &rec.Email, &rec.CartTotal, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan checkout: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

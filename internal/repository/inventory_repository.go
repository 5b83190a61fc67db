package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// inventoryRepository implements the InventoryRepository interface using
// PostgreSQL. The ledger is the stock_quantity column on product rows;
// row-level serialisation of the conditional update is what keeps two
// simultaneous checkouts on low stock from both succeeding.
type inventoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewInventoryRepository creates a new PostgreSQL-backed inventory repository.
func NewInventoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) InventoryRepository {
	return &inventoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "inventory").Logger(),
	}
}

// Reserve atomically decrements stock if the product is active and holds
// enough units. The guard lives in the WHERE clause, not in application
// code, so there is no read-then-write window.
func (r *inventoryRepository) Reserve(ctx context.Context, q Querier, productID uuid.UUID, quantity int) error {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = NOW()
		WHERE id = $1 AND is_active AND stock_quantity >= $2
	`

	tag, err := q.Exec(ctx, query, productID, quantity)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product_id", productID.String()).
			Int("quantity", quantity).
			Msg("failed to reserve stock")
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	if tag.RowsAffected() == 1 {
		r.logger.Debug().
			Str("product_id", productID.String()).
			Int("quantity", quantity).
			Msg("stock reserved")
		return nil
	}

	// The conditional update rejected; look at the row to name the reason.
	var isActive bool
	var stock int
	err = q.QueryRow(ctx, `SELECT is_active, stock_quantity FROM products WHERE id = $1`, productID).
		Scan(&isActive, &stock)
	if err != nil {
		if err == pgx.ErrNoRows {
			return model.ErrProductNotFound
		}
		return fmt.Errorf("failed to classify reservation failure: %w", err)
	}

	if !isActive {
		r.logger.Warn().
			Str("product_id", productID.String()).
			Msg("reservation rejected: product inactive")
		return model.NewProductInactiveError(productID)
	}

	r.logger.Warn().
		Str("product_id", productID.String()).
		Int("requested", quantity).
		Int("available", stock).
		Msg("reservation rejected: insufficient stock")
	return model.NewInsufficientStockError(productID)
}

// Release unconditionally restores stock. It never rejects; idempotence is
// the caller's responsibility.
func (r *inventoryRepository) Release(ctx context.Context, q Querier, productID uuid.UUID, quantity int) error {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity + $2, updated_at = NOW()
		WHERE id = $1
	`

	_, err := q.Exec(ctx, query, productID, quantity)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product_id", productID.String()).
			Int("quantity", quantity).
			Msg("failed to release stock")
		return fmt.Errorf("failed to release stock: %w", err)
	}

	r.logger.Debug().
		Str("product_id", productID.String()).
		Int("quantity", quantity).
		Msg("stock released")

	return nil
}

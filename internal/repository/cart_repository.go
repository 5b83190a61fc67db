package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// UpsertItem adds a product to the user's cart or replaces the quantity of
// an existing line.
func (r *cartRepository) UpsertItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query, uuid.New(), userID, productID, quantity)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("failed to upsert cart item")
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return nil
}

// DeleteItem removes a product from the user's cart.
func (r *cartRepository) DeleteItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`

	tag, err := r.pool.Exec(ctx, query, userID, productID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("failed to delete cart item")
		return false, fmt.Errorf("failed to delete cart item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Snapshot joins the user's cart lines against live product rows. The view
// is point-in-time: no lock is held across the read, the coordinator
// re-validates at reservation time.
func (r *cartRepository) Snapshot(ctx context.Context, q Querier, userID uuid.UUID) ([]model.CartLine, error) {
	if q == nil {
		q = r.pool
	}

	query := `
		SELECT c.product_id, p.name, c.quantity, p.unit_price_minor, p.stock_quantity, p.is_active
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at, c.product_id
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("failed to snapshot cart")
		return nil, fmt.Errorf("failed to snapshot cart: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var l model.CartLine
		err := rows.Scan(&l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPriceMinor, &l.StockQuantity, &l.IsActive)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart line")
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart lines")
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

// Clear deletes all of the user's cart lines.
func (r *cartRepository) Clear(ctx context.Context, q Querier, userID uuid.UUID) error {
	if q == nil {
		q = r.pool
	}

	query := `DELETE FROM cart_items WHERE user_id = $1`

	_, err := q.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

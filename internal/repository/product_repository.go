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

// productRepository implements the ProductRepository interface using
// PostgreSQL. It is a read path only: stock mutation belongs to the
// inventory repository.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `id, name, unit_price_minor, stock_quantity, is_active, created_at, updated_at`

// GetAll retrieves active products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	return withReadRetry(ctx, r.logger, "product.GetAll", func() ([]model.Product, error) {
		rows, err := r.pool.Query(ctx, query, limit, offset)
		if err != nil {
			r.logger.Error().Err(err).
				Int("limit", limit).
				Int("offset", offset).
				Msg("failed to query products")
			return nil, fmt.Errorf("failed to query products: %w", err)
		}
		defer rows.Close()

		var products []model.Product
		for rows.Next() {
			var p model.Product
			err := rows.Scan(&p.ID, &p.Name, &p.UnitPriceMinor, &p.StockQuantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
			if err != nil {
				r.logger.Error().Err(err).Msg("failed to scan product row")
				return nil, fmt.Errorf("failed to scan product: %w", err)
			}
			products = append(products, p)
		}

		if err := rows.Err(); err != nil {
			r.logger.Error().Err(err).Msg("error iterating product rows")
			return nil, fmt.Errorf("error iterating products: %w", err)
		}

		return products, nil
	})
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := withReadRetry(ctx, r.logger, "product.GetByID", func() (*model.Product, error) {
		var p model.Product
		err := r.pool.QueryRow(ctx, query, id).
			Scan(&p.ID, &p.Name, &p.UnitPriceMinor, &p.StockQuantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &p, nil
	})
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return product, nil
}

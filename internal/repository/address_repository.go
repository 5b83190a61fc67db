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

// addressRepository implements the AddressRepository interface using
// PostgreSQL. Addresses are owned by an excluded collaborator; this core
// only reads them to attach a reference to an order.
type addressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "address").Logger(),
	}
}

// GetByID retrieves an address by its ID.
func (r *addressRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	query := `
		SELECT id, user_id, line1, line2, city, post_code, country, created_at
		FROM addresses
		WHERE id = $1
	`

	address, err := withReadRetry(ctx, r.logger, "address.GetByID", func() (*model.Address, error) {
		var a model.Address
		err := r.pool.QueryRow(ctx, query, id).
			Scan(&a.ID, &a.UserID, &a.Line1, &a.Line2, &a.City, &a.PostCode, &a.Country, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		return &a, nil
	})
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("address_id", id.String()).Msg("address not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to query address")
		return nil, fmt.Errorf("failed to query address: %w", err)
	}

	return address, nil
}

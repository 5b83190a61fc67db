// Command seed populates a development database with sample products and
// addresses so the API can be exercised locally.
package main

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

const productCount = 25

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	for i := 0; i < productCount; i++ {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, unit_price_minor, stock_quantity, is_active)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(),
			gofakeit.ProductName(),
			int64(gofakeit.Number(100, 50000)),
			gofakeit.Number(0, 100),
			gofakeit.Number(0, 9) > 0, // roughly one in ten inactive
		)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}
	}

	userID := uuid.New()
	_, err = pool.Exec(ctx, `
		INSERT INTO addresses (id, user_id, line1, city, post_code, country)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(),
		userID,
		gofakeit.Street(),
		gofakeit.City(),
		gofakeit.Zip(),
		gofakeit.Country(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}

	logger.Info().
		Int("products", productCount).
		Str("sample_user_id", userID.String()).
		Msg("database seeded")

	return nil
}

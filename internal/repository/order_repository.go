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

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

const orderColumns = `id, user_id, address_id, total_minor, status, payment_status,
		payment_method, gateway_order_ref, gateway_payment_ref, notes, placed_at, updated_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID,
		&o.UserID,
		&o.AddressID,
		&o.TotalMinor,
		&o.Status,
		&o.PaymentStatus,
		&o.PaymentMethod,
		&o.GatewayOrderRef,
		&o.GatewayPaymentRef,
		&o.Notes,
		&o.PlacedAt,
		&o.UpdatedAt,
	)
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, address_id, total_minor, status, payment_status,
			payment_method, gateway_order_ref, gateway_payment_ref, notes, placed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.AddressID,
		order.TotalMinor,
		order.Status,
		order.PaymentStatus,
		order.PaymentMethod,
		order.GatewayOrderRef,
		order.GatewayPaymentRef,
		order.Notes,
		order.PlacedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price_minor)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPriceMinor)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID.String()).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := withReadRetry(ctx, r.logger, "order.GetByID", func() (*model.Order, error) {
		var o model.Order
		if err := scanOrder(r.pool.QueryRow(ctx, query, id), &o); err != nil {
			return nil, err
		}
		return &o, nil
	})
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.GetItems(ctx, r.pool, id)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

// GetByIDForUpdate retrieves an order row-locked within the provided
// transaction. Concurrent transitions on the same order queue behind the
// row lock, so the state check that follows sees the committed status.
func (r *orderRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`

	var o model.Order
	if err := scanOrder(tx.QueryRow(ctx, query, id), &o); err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to lock order row")
		return nil, fmt.Errorf("failed to lock order row: %w", err)
	}

	return &o, nil
}

// GetItems retrieves the items of an order.
func (r *orderRepository) GetItems(ctx context.Context, q Querier, orderID uuid.UUID) ([]model.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price_minor
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPriceMinor)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// GetByGatewayOrderRef retrieves an order by its gateway order reference.
// The reference is unique, making it the natural idempotency key for the
// gateway finalize path.
func (r *orderRepository) GetByGatewayOrderRef(ctx context.Context, ref string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE gateway_order_ref = $1`

	order, err := withReadRetry(ctx, r.logger, "order.GetByGatewayOrderRef", func() (*model.Order, error) {
		var o model.Order
		if err := scanOrder(r.pool.QueryRow(ctx, query, ref), &o); err != nil {
			return nil, err
		}
		return &o, nil
	})
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("gateway_order_ref", ref).Msg("failed to query order by gateway ref")
		return nil, fmt.Errorf("failed to query order by gateway ref: %w", err)
	}

	return order, nil
}

// UpdateStatus sets the status and payment status of an order.
func (r *orderRepository) UpdateStatus(ctx context.Context, q Querier, id uuid.UUID, status model.OrderStatus, paymentStatus model.PaymentStatus) error {
	query := `
		UPDATE orders
		SET status = $2, payment_status = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, status, paymentStatus)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("status", string(status)).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	r.logger.Debug().
		Str("order_id", id.String()).
		Str("status", string(status)).
		Str("payment_status", string(paymentStatus)).
		Msg("order status updated")

	return nil
}

// ListByUser retrieves a user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY placed_at DESC
		LIMIT $2 OFFSET $3
	`

	return withReadRetry(ctx, r.logger, "order.ListByUser", func() ([]model.Order, error) {
		rows, err := r.pool.Query(ctx, query, userID, limit, offset)
		if err != nil {
			r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query orders")
			return nil, fmt.Errorf("failed to query orders: %w", err)
		}
		defer rows.Close()

		var orders []model.Order
		for rows.Next() {
			var o model.Order
			if err := scanOrder(rows, &o); err != nil {
				r.logger.Error().Err(err).Msg("failed to scan order row")
				return nil, fmt.Errorf("failed to scan order: %w", err)
			}
			orders = append(orders, o)
		}

		if err := rows.Err(); err != nil {
			r.logger.Error().Err(err).Msg("error iterating order rows")
			return nil, fmt.Errorf("error iterating orders: %w", err)
		}

		return orders, nil
	})
}

package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx operations shared by a connection pool and
// an open transaction. Repository methods that must run inside the checkout
// transaction take a Querier so the caller decides the transaction scope.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProductRepository defines the read-only catalog access consumed by the core.
type ProductRepository interface {
	// GetAll retrieves active products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

// AddressRepository defines the read-only address access used to attach an
// address reference to an order. Ownership validation belongs to the
// excluded collaborator, not to this core.
type AddressRepository interface {
	// GetByID retrieves an address by its ID. Returns nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error)
}

// InventoryRepository is the authoritative stock ledger. stock_quantity is
// mutated only through this contract; direct read-modify-write from any
// other code path is forbidden.
type InventoryRepository interface {
	// Reserve atomically decrements a product's stock by quantity. The
	// decrement commits only if the product is active and has at least
	// quantity units, as a single conditional update, so concurrent
	// reservations against the same row cannot lose updates. On rejection
	// it returns a domain error identifying the product and reason.
	Reserve(ctx context.Context, q Querier, productID uuid.UUID, quantity int) error

	// Release unconditionally increments a product's stock by quantity.
	// Used for cancellation compensation; it never rejects. The caller is
	// responsible for not releasing the same reservation twice.
	Release(ctx context.Context, q Querier, productID uuid.UUID, quantity int) error
}

// CartRepository owns cart lines: the mutable pre-checkout state consumed
// and deleted atomically at successful checkout.
type CartRepository interface {
	// UpsertItem adds a product to the user's cart or replaces the
	// quantity of an existing line.
	UpsertItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error

	// DeleteItem removes a product from the user's cart. Returns false if
	// no such line existed.
	DeleteItem(ctx context.Context, userID, productID uuid.UUID) (bool, error)

	// Snapshot resolves the user's cart lines against live product rows at
	// a point in time, in insertion order. Inactive products surface in
	// the snapshot with IsActive=false; the caller decides how to fail.
	// A nil Querier reads outside any transaction.
	Snapshot(ctx context.Context, q Querier, userID uuid.UUID) ([]model.CartLine, error)

	// Clear deletes all of the user's cart lines. A nil Querier runs
	// outside any transaction.
	Clear(ctx context.Context, q Querier, userID uuid.UUID) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items. Returns
	// nil order when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// GetByIDForUpdate retrieves an order row-locked within the provided
	// transaction, serialising concurrent status transitions.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	// GetItems retrieves the items of an order.
	GetItems(ctx context.Context, q Querier, orderID uuid.UUID) ([]model.OrderItem, error)

	// GetByGatewayOrderRef retrieves an order by its gateway order
	// reference. Returns nil when not found.
	GetByGatewayOrderRef(ctx context.Context, ref string) (*model.Order, error)

	// UpdateStatus sets the status and payment status of an order.
	UpdateStatus(ctx context.Context, q Querier, id uuid.UUID, status model.OrderStatus, paymentStatus model.PaymentStatus) error

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error)
}

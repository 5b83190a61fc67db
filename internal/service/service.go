package service

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// CheckoutService is the checkout transaction coordinator: it converts a
// mutable cart into an immutable order as one atomic unit across the
// inventory ledger and the order aggregate.
type CheckoutService interface {
	// Checkout places a cash-on-delivery order from the caller's cart.
	// Not idempotent: calling it twice with a refilled cart creates two
	// orders.
	Checkout(ctx context.Context, identity model.Identity, req *model.CheckoutRequest) (*model.CheckoutResponse, error)

	// VerifyAndFinalize materialises an order for a payment already
	// captured by the gateway. The gateway order reference is the
	// idempotency key: a repeat call for an already-materialised order
	// returns the existing order id without side effects.
	VerifyAndFinalize(ctx context.Context, identity model.Identity, req *model.VerifyPaymentRequest) (*model.CheckoutResponse, error)
}

// OrderService defines order reads and status transitions.
type OrderService interface {
	// GetByID retrieves an order with its items. Owner or admin only.
	GetByID(ctx context.Context, identity model.Identity, id uuid.UUID) (*model.OrderResponse, error)

	// ListByUser retrieves a user's orders. Non-admin callers may only
	// list their own.
	ListByUser(ctx context.Context, identity model.Identity, userID uuid.UUID, limit, offset int) ([]model.Order, error)

	// Transition moves an order to a new status, enforcing the legal
	// transition graph and role gating, and compensating stock on
	// cancellation exactly once.
	Transition(ctx context.Context, identity model.Identity, orderID uuid.UUID, newStatus model.OrderStatus) (*model.Order, error)
}

// CartService defines the cart line operations that feed the checkout
// snapshot.
type CartService interface {
	// View resolves the caller's cart into priced lines and a total.
	View(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error)

	// AddItem adds a product to the caller's cart, replacing the quantity
	// of an existing line.
	AddItem(ctx context.Context, userID uuid.UUID, req *model.AddCartItemRequest) error

	// RemoveItem removes a product from the caller's cart.
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
}

// ProductService defines the catalog read surface.
type ProductService interface {
	// GetAll retrieves active products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/notify"
	"storefront/internal/payment"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService. All of snapshot, reservation,
// order creation and cart consumption run inside one database transaction:
// a failure at any step rolls back every reservation granted in the attempt
// and leaves no partial order behind.
type checkoutService struct {
	orderRepo     repository.OrderRepository
	cartRepo      repository.CartRepository
	inventoryRepo repository.InventoryRepository
	addressRepo   repository.AddressRepository
	verifier      payment.Verifier
	notifier      notify.Notifier
	logger        zerolog.Logger
}

// NewCheckoutService creates a new checkout transaction coordinator.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	inventoryRepo repository.InventoryRepository,
	addressRepo repository.AddressRepository,
	verifier payment.Verifier,
	notifier notify.Notifier,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:     orderRepo,
		cartRepo:      cartRepo,
		inventoryRepo: inventoryRepo,
		addressRepo:   addressRepo,
		verifier:      verifier,
		notifier:      notifier,
		logger:        logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout places a cash-on-delivery order from the caller's cart.
// COD orders are paid at delivery: the order is created with
// status=pending, payment_status=pending.
func (s *checkoutService) Checkout(ctx context.Context, identity model.Identity, req *model.CheckoutRequest) (_ *model.CheckoutResponse, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.resolveAddress(ctx, identity, req.AddressID); err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start checkout: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				// The original error stays; the failed rollback is a
				// stock-reconciliation concern for the log only.
				s.logger.Error().Err(rbErr).Msg("failed to rollback checkout transaction")
			}
		}
	}()

	order, items, err := s.placeOrder(ctx, tx, identity, placement{
		addressID:     req.AddressID,
		paymentMethod: model.PaymentMethodCOD,
		status:        model.OrderStatusPending,
		paymentStatus: model.PaymentStatusPending,
		notes:         req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit checkout")
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", identity.UserID.String()).
		Int64("total_minor", order.TotalMinor).
		Int("item_count", len(items)).
		Msg("cod order placed")

	s.notifier.OrderPlaced(ctx, identity.UserID, order.ID)

	return &model.CheckoutResponse{OrderID: order.ID}, nil
}

// VerifyAndFinalize materialises an order for a gateway payment that was
// captured before this call. Verification is pure and fails closed; money
// having already moved, a reservation failure here is escalated as a
// distinct post-payment stock failure rather than a generic error.
func (s *checkoutService) VerifyAndFinalize(ctx context.Context, identity model.Identity, req *model.VerifyPaymentRequest) (_ *model.CheckoutResponse, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Verification comes first: an unverified callback gets nothing, not
	// even the idempotent echo of an order that already exists under the
	// named reference.
	if !s.verifier.Verify(req.GatewayOrderRef, req.GatewayPaymentRef, req.Signature) {
		s.logger.Warn().
			Str("user_id", identity.UserID.String()).
			Str("gateway_order_ref", req.GatewayOrderRef).
			Msg("payment verification failed")
		s.notifier.PaymentFailed(ctx, identity.UserID, req.GatewayOrderRef)
		return nil, model.ErrPaymentVerification
	}

	// The gateway order reference is the idempotency key: a repeat
	// verification for an already-materialised order is a no-op.
	existing, err := s.orderRepo.GetByGatewayOrderRef(ctx, req.GatewayOrderRef)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Info().
			Str("order_id", existing.ID.String()).
			Str("gateway_order_ref", req.GatewayOrderRef).
			Msg("gateway order already finalized, returning existing order")
		return &model.CheckoutResponse{OrderID: existing.ID}, nil
	}

	if err := s.resolveAddress(ctx, identity, req.AddressID); err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start payment finalize: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback finalize transaction")
			}
		}
	}()

	order, items, err := s.placeOrder(ctx, tx, identity, placement{
		addressID:         req.AddressID,
		paymentMethod:     model.PaymentMethodGateway,
		status:            model.OrderStatusConfirmed,
		paymentStatus:     model.PaymentStatusPaid,
		gatewayOrderRef:   &req.GatewayOrderRef,
		gatewayPaymentRef: &req.GatewayPaymentRef,
		expectedTotal:     &req.TotalMinor,
		gatewayPaid:       true,
	})
	if err != nil {
		// A lost race against a concurrent finalize of the same gateway
		// order is a success: return the order that won.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "orders_gateway_order_ref_key" {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback finalize transaction")
			}
			if winner, lookupErr := s.orderRepo.GetByGatewayOrderRef(ctx, req.GatewayOrderRef); lookupErr == nil && winner != nil {
				err = nil
				return &model.CheckoutResponse{OrderID: winner.ID}, nil
			}
		}
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit payment finalize")
		return nil, fmt.Errorf("failed to commit payment finalize: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", identity.UserID.String()).
		Str("gateway_order_ref", req.GatewayOrderRef).
		Int64("total_minor", order.TotalMinor).
		Int("item_count", len(items)).
		Msg("gateway order finalized")

	s.notifier.OrderPlaced(ctx, identity.UserID, order.ID)

	return &model.CheckoutResponse{OrderID: order.ID}, nil
}

// placement carries the per-path parameters of an order creation attempt.
type placement struct {
	addressID         *uuid.UUID
	paymentMethod     model.PaymentMethod
	status            model.OrderStatus
	paymentStatus     model.PaymentStatus
	gatewayOrderRef   *string
	gatewayPaymentRef *string
	notes             *string
	expectedTotal     *int64
	gatewayPaid       bool
}

// placeOrder runs the shared core of both checkout paths inside tx:
// snapshot the cart, reserve every line in cart order, compute the total
// from the snapshot (never from caller input), write the order and its
// items, and consume the cart lines. Any error leaves tx for the caller to
// roll back, which releases every reservation granted in this attempt.
func (s *checkoutService) placeOrder(ctx context.Context, tx pgx.Tx, identity model.Identity, p placement) (*model.Order, []model.OrderItem, error) {
	lines, err := s.cartRepo.Snapshot(ctx, tx, identity.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to snapshot cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil, model.ErrEmptyCart
	}

	var total int64
	for _, line := range lines {
		if err := s.inventoryRepo.Reserve(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return nil, nil, s.escalateReservationFailure(ctx, identity, p, err)
		}
		total += line.LineTotalMinor()
	}

	if p.expectedTotal != nil && *p.expectedTotal != total {
		s.logger.Warn().
			Str("user_id", identity.UserID.String()).
			Int64("claimed_minor", *p.expectedTotal).
			Int64("computed_minor", total).
			Msg("claimed payment amount does not match cart total")
		return nil, nil, model.ErrAmountMismatch
	}

	now := time.Now()
	order := &model.Order{
		ID:                uuid.New(),
		UserID:            identity.UserID,
		AddressID:         p.addressID,
		TotalMinor:        total,
		Status:            p.status,
		PaymentStatus:     p.paymentStatus,
		PaymentMethod:     p.paymentMethod,
		GatewayOrderRef:   p.gatewayOrderRef,
		GatewayPaymentRef: p.gatewayPaymentRef,
		Notes:             p.notes,
		PlacedAt:          now,
		UpdatedAt:         now,
	}

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, nil, err
	}

	items := make([]model.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = model.OrderItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceMinor: line.UnitPriceMinor,
		}
	}

	if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, nil, err
	}

	if err := s.cartRepo.Clear(ctx, tx, identity.UserID); err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

// escalateReservationFailure maps a reservation failure to the right error
// for the payment path. On the gateway path money has already moved, so the
// failure is surfaced loudly as a post-payment stock failure for refund
// follow-up instead of a plain validation error.
func (s *checkoutService) escalateReservationFailure(ctx context.Context, identity model.Identity, p placement, err error) error {
	if !p.gatewayPaid {
		return err
	}

	var domErr *model.DomainError
	if errors.As(err, &domErr) && domErr.ProductID != nil {
		ref := ""
		if p.gatewayOrderRef != nil {
			ref = *p.gatewayOrderRef
		}
		s.logger.Error().
			Str("user_id", identity.UserID.String()).
			Str("product_id", domErr.ProductID.String()).
			Str("gateway_order_ref", ref).
			Str("reason", domErr.Code).
			Msg("payment captured but stock unavailable, refund required")
		s.notifier.PaymentFailed(ctx, identity.UserID, ref)
		return model.NewPostPaymentStockError(*domErr.ProductID, ref)
	}

	return err
}

// resolveAddress verifies the referenced address exists before attaching
// it. Ownership of the address is the excluded collaborator's concern.
func (s *checkoutService) resolveAddress(ctx context.Context, identity model.Identity, addressID *uuid.UUID) error {
	if addressID == nil {
		return nil
	}

	address, err := s.addressRepo.GetByID(ctx, *addressID)
	if err != nil {
		return err
	}
	if address == nil {
		return model.ErrAddressNotFound
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// orderService implements OrderService: order reads with owner-or-admin
// gating, and the status state machine with its compensating inventory
// action on cancellation.
type orderService struct {
	orderRepo     repository.OrderRepository
	inventoryRepo repository.InventoryRepository
	logger        zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	inventoryRepo repository.InventoryRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		logger:        logger.With().Str("service", "order").Logger(),
	}
}

// GetByID retrieves an order with its items.
func (s *orderService) GetByID(ctx context.Context, identity model.Identity, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if order.UserID != identity.UserID && !identity.IsAdmin() {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("caller_id", identity.UserID.String()).
			Msg("caller is not the order owner")
		return nil, model.ErrForbidden
	}

	return &model.OrderResponse{Order: *order, Items: items}, nil
}

// ListByUser retrieves a user's orders. Non-admin callers may only list
// their own.
func (s *orderService) ListByUser(ctx context.Context, identity model.Identity, userID uuid.UUID, limit, offset int) ([]model.Order, error) {
	if userID != identity.UserID && !identity.IsAdmin() {
		return nil, model.ErrForbidden
	}

	return s.orderRepo.ListByUser(ctx, userID, limit, offset)
}

// Transition moves an order to a new status.
//
// The legal graph is pending → confirmed → delivered, with cancellation
// from pending or confirmed; delivered and cancelled are terminal.
// Confirm and deliver are admin-only; cancel is owner-or-admin.
//
// Cancellation compensates the original reservation by releasing every
// order item's quantity back to stock, exactly once: the state check runs
// under a row lock before any release, so a second cancellation attempt is
// rejected before it can double-credit stock.
func (s *orderService) Transition(ctx context.Context, identity model.Identity, orderID uuid.UUID, newStatus model.OrderStatus) (_ *model.Order, err error) {
	if !model.ValidOrderStatus(newStatus) {
		return nil, fmt.Errorf("invalid order status: %q", newStatus)
	}

	if requiresAdmin(newStatus) && !identity.IsAdmin() {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("caller_id", identity.UserID.String()).
			Str("status", string(newStatus)).
			Msg("admin-only transition attempted by non-admin")
		return nil, model.ErrForbidden
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transition: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transition transaction")
			}
		}
	}()

	order, err := s.orderRepo.GetByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if newStatus == model.OrderStatusCancelled && order.UserID != identity.UserID && !identity.IsAdmin() {
		return nil, model.ErrForbidden
	}

	// State check precedes compensation: an already-cancelled order is
	// rejected here, before any stock release.
	if !model.CanTransition(order.Status, newStatus) {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("from", string(order.Status)).
			Str("to", string(newStatus)).
			Msg("illegal status transition")
		return nil, model.NewIllegalTransitionError(order.Status, newStatus)
	}

	paymentStatus := nextPaymentStatus(order, newStatus)

	if newStatus == model.OrderStatusCancelled {
		if err = s.compensateCancellation(ctx, tx, order); err != nil {
			return nil, err
		}
	}

	if err = s.orderRepo.UpdateStatus(ctx, tx, orderID, newStatus, paymentStatus); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit transition")
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("from", string(order.Status)).
		Str("to", string(newStatus)).
		Str("payment_status", string(paymentStatus)).
		Msg("order status transitioned")

	order.Status = newStatus
	order.PaymentStatus = paymentStatus
	return order, nil
}

// compensateCancellation releases every order item's reservation within the
// cancellation transaction. A release failure aborts the whole transition
// so the order stays un-cancelled rather than half-compensated.
func (s *orderService) compensateCancellation(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	items, err := s.orderRepo.GetItems(ctx, tx, order.ID)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := s.inventoryRepo.Release(ctx, tx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error().
				Err(err).
				Str("order_id", order.ID.String()).
				Str("product_id", item.ProductID.String()).
				Int("quantity", item.Quantity).
				Msg("stock release failed during cancellation, needs reconciliation")
			return err
		}
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(items)).
		Msg("reservations released for cancelled order")

	return nil
}

// requiresAdmin reports whether a transition target is gated to admins.
// Confirming and delivering are back-office actions; cancelling is open to
// the order's owner as well.
func requiresAdmin(status model.OrderStatus) bool {
	return status == model.OrderStatusConfirmed || status == model.OrderStatusDelivered
}

// nextPaymentStatus derives the payment axis that accompanies a status
// transition. COD is paid at delivery, so delivering an unpaid COD order
// marks it paid; cancelling a paid order marks it refunded (refund
// execution is the gateway collaborator's job).
func nextPaymentStatus(order *model.Order, newStatus model.OrderStatus) model.PaymentStatus {
	switch newStatus {
	case model.OrderStatusDelivered:
		if order.PaymentMethod == model.PaymentMethodCOD && order.PaymentStatus == model.PaymentStatusPending {
			return model.PaymentStatusPaid
		}
	case model.OrderStatusCancelled:
		if order.PaymentStatus == model.PaymentStatusPaid {
			return model.PaymentStatusRefunded
		}
	}
	return order.PaymentStatus
}

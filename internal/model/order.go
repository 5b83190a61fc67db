package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle status of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus is the payment axis of an order. It has no transition graph
// of its own: payment state originates from the gateway, not from internal
// business logic, so it is set directly by callers.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentMethod identifies how an order is paid.
type PaymentMethod string

const (
	PaymentMethodCOD     PaymentMethod = "cod"
	PaymentMethodGateway PaymentMethod = "gateway"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentMethodCOD || m == PaymentMethodGateway
}

// statusTransitions is the legal transition graph: forward-only
// pending → confirmed → delivered, with cancellation allowed from
// pending and confirmed. delivered and cancelled are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition is legal out of s.
func (s OrderStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// Order is the immutable-once-created record of a purchase. Only the
// status/payment-status pair mutates after creation; TotalMinor is the sum
// of the item line totals at the time of purchase and is never recomputed
// from live product prices.
type Order struct {
	ID                uuid.UUID     `json:"id" db:"id"`
	UserID            uuid.UUID     `json:"userId" db:"user_id"`
	AddressID         *uuid.UUID    `json:"addressId,omitempty" db:"address_id"`
	TotalMinor        int64         `json:"totalMinor" db:"total_minor"`
	Status            OrderStatus   `json:"status" db:"status"`
	PaymentStatus     PaymentStatus `json:"paymentStatus" db:"payment_status"`
	PaymentMethod     PaymentMethod `json:"paymentMethod" db:"payment_method"`
	GatewayOrderRef   *string       `json:"gatewayOrderRef,omitempty" db:"gateway_order_ref"`
	GatewayPaymentRef *string       `json:"gatewayPaymentRef,omitempty" db:"gateway_payment_ref"`
	Notes             *string       `json:"notes,omitempty" db:"notes"`
	PlacedAt          time.Time     `json:"placedAt" db:"placed_at"`
	UpdatedAt         time.Time     `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a line item of an order. Created atomically with its order,
// never mutated or deleted individually; UnitPriceMinor is a price snapshot
// so price history survives later product price changes.
type OrderItem struct {
	ID             uuid.UUID `json:"-" db:"id"`
	OrderID        uuid.UUID `json:"-" db:"order_id"`
	ProductID      uuid.UUID `json:"productId" db:"product_id"`
	Quantity       int       `json:"quantity" db:"quantity"`
	UnitPriceMinor int64     `json:"unitPriceMinor" db:"unit_price_minor"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is the caller's role as asserted by the upstream authenticator.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated caller. The core never authenticates; it
// trusts the identity handed to it by the excluded auth collaborator.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the caller has the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CheckoutRequest represents the request payload for a COD checkout.
type CheckoutRequest struct {
	AddressID     *uuid.UUID    `json:"addressId,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Notes         *string       `json:"notes,omitempty"`
}

// Validate checks the request at the boundary, before it reaches the
// coordinator. Only cash on delivery is placed through checkout; gateway
// payments enter through payment verification, which demands proof of
// capture.
func (r *CheckoutRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("checkout request is nil")
	}
	if !ValidPaymentMethod(r.PaymentMethod) {
		return fmt.Errorf("invalid payment method: %q", r.PaymentMethod)
	}
	if r.PaymentMethod != PaymentMethodCOD {
		return fmt.Errorf("payment method %q requires payment verification", r.PaymentMethod)
	}
	return nil
}

// VerifyPaymentRequest represents the request payload for finalising a
// gateway-paid checkout. TotalMinor is the amount the client claims to have
// paid; the coordinator recomputes the total from the cart snapshot and
// rejects on mismatch, never trusting the claimed value.
type VerifyPaymentRequest struct {
	GatewayOrderRef   string     `json:"gatewayOrderRef"`
	GatewayPaymentRef string     `json:"gatewayPaymentRef"`
	Signature         string     `json:"signature"`
	AddressID         *uuid.UUID `json:"addressId,omitempty"`
	TotalMinor        int64      `json:"totalMinor"`
}

// Validate checks the request at the boundary.
func (r *VerifyPaymentRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("verify payment request is nil")
	}
	if r.GatewayOrderRef == "" {
		return fmt.Errorf("gateway order reference is required")
	}
	if r.GatewayPaymentRef == "" {
		return fmt.Errorf("gateway payment reference is required")
	}
	if r.Signature == "" {
		return fmt.Errorf("signature is required")
	}
	if r.TotalMinor <= 0 {
		return fmt.Errorf("total must be greater than zero")
	}
	return nil
}

// TransitionRequest represents the request payload for an order status
// transition.
type TransitionRequest struct {
	Status OrderStatus `json:"status"`
}

// Validate checks the request at the boundary.
func (r *TransitionRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("transition request is nil")
	}
	if !ValidOrderStatus(r.Status) {
		return fmt.Errorf("invalid order status: %q", r.Status)
	}
	return nil
}

// AddCartItemRequest represents the request payload for adding a product to
// the caller's cart.
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// Validate checks the request at the boundary.
func (r *AddCartItemRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("add cart item request is nil")
	}
	if r.ProductID == uuid.Nil {
		return fmt.Errorf("product ID is required")
	}
	if r.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// CheckoutResponse is returned on successful checkout or payment finalize.
type CheckoutResponse struct {
	OrderID uuid.UUID `json:"orderId"`
}

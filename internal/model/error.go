package model

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeEmptyCart           = "EMPTY_CART"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeProductInactive     = "PRODUCT_INACTIVE"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeIllegalTransition   = "ILLEGAL_TRANSITION"
	ErrCodePaymentVerification = "PAYMENT_VERIFICATION_FAILED"
	ErrCodePostPaymentStock    = "POST_PAYMENT_STOCK_FAILURE"
	ErrCodeAmountMismatch      = "AMOUNT_MISMATCH"
	ErrCodeAddressNotFound     = "ADDRESS_NOT_FOUND"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure reported synchronously to the
// caller. ProductID tags the offending product where one exists so that
// checkout failures name the specific line that caused them.
type DomainError struct {
	Code      string
	Message   string
	ProductID *uuid.UUID
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart       = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrAddressNotFound = NewDomainError(ErrCodeAddressNotFound, "Address not found")
	ErrOrderNotFound   = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrForbidden       = NewDomainError(ErrCodeForbidden, "Caller is not permitted to perform this action")
	ErrAmountMismatch  = NewDomainError(ErrCodeAmountMismatch, "Claimed payment amount does not match the cart total")

	// ErrPaymentVerification is deliberately generic: no internals of the
	// signature scheme are leaked to the caller.
	ErrPaymentVerification = NewDomainError(ErrCodePaymentVerification, "Payment verification failed")
)

// NewInsufficientStockError reports a reservation rejected because the
// product's stock would go below zero.
func NewInsufficientStockError(productID uuid.UUID) *DomainError {
	return &DomainError{
		Code:      ErrCodeInsufficientStock,
		Message:   fmt.Sprintf("Insufficient stock for product %s", productID),
		ProductID: &productID,
	}
}

// NewProductInactiveError reports a reservation rejected because the
// product is no longer active.
func NewProductInactiveError(productID uuid.UUID) *DomainError {
	return &DomainError{
		Code:      ErrCodeProductInactive,
		Message:   fmt.Sprintf("Product %s is not active", productID),
		ProductID: &productID,
	}
}

// NewIllegalTransitionError names the illegal status transition attempted.
func NewIllegalTransitionError(from, to OrderStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeIllegalTransition,
		Message: fmt.Sprintf("Illegal order status transition from %s to %s", from, to),
	}
}

// NewPostPaymentStockError is the escalated error for the gateway path:
// payment has been captured but stock vanished before the order could be
// materialised. It must be surfaced loudly for refund follow-up, never
// folded into a generic failure.
func NewPostPaymentStockError(productID uuid.UUID, gatewayOrderRef string) *DomainError {
	return &DomainError{
		Code: ErrCodePostPaymentStock,
		Message: fmt.Sprintf(
			"Payment captured for gateway order %s but stock is unavailable for product %s; refund required",
			gatewayOrderRef, productID),
		ProductID: &productID,
	}
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// CartItem represents a line in a user's cart. Cart lines are ephemeral:
// they are consumed and deleted atomically at successful checkout.
type CartItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	UserID    uuid.UUID `json:"-" db:"user_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartLine is a priced, point-in-time view of a cart item joined against
// the live product row at the instant of checkout. The unit price is a
// snapshot; it becomes the immutable order item price if checkout succeeds.
type CartLine struct {
	ProductID      uuid.UUID `json:"productId"`
	ProductName    string    `json:"productName"`
	Quantity       int       `json:"quantity"`
	UnitPriceMinor int64     `json:"unitPriceMinor"`
	StockQuantity  int       `json:"stockQuantity"`
	IsActive       bool      `json:"isActive"`
}

// LineTotalMinor returns the line total in minor currency units.
func (l CartLine) LineTotalMinor() int64 {
	return l.UnitPriceMinor * int64(l.Quantity)
}

// CartResponse represents the response payload for a cart view.
type CartResponse struct {
	Lines      []CartLine `json:"lines"`
	TotalMinor int64      `json:"totalMinor"`
}

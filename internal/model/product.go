package model

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalogue product. The core only reads product rows,
// except for stock_quantity which is mutated exclusively through the
// inventory repository's Reserve/Release contract.
type Product struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	UnitPriceMinor int64     `json:"unitPriceMinor" db:"unit_price_minor"`
	StockQuantity  int       `json:"stockQuantity" db:"stock_quantity"`
	IsActive       bool      `json:"isActive" db:"is_active"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// Address is a read-only reference owned by an excluded collaborator.
// Orders hold a non-owning reference to it by id.
type Address struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Line1     string    `json:"line1" db:"line1"`
	Line2     *string   `json:"line2,omitempty" db:"line2"`
	City      string    `json:"city" db:"city"`
	PostCode  string    `json:"postCode" db:"post_code"`
	Country   string    `json:"country" db:"country"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

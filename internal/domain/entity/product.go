package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64
	Name        string
	Category    string
	Price       decimal.Decimal
	Stock       int
	SKU         string
	Description string
	Image       string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// ProductPatch is a sparse product update. SKU is immutable after creation.
type ProductPatch struct {
	Name        *string
	Category    *string
	Price       *decimal.Decimal
	Stock       *int
	Description *string
	Image       *string
	IsActive    *bool
}

package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
)

// ShopRepository defines persistence operations for shops. Reads populate
// Shop.AccountEmail from the linked account.
type ShopRepository interface {
	Create(ctx context.Context, s *entity.Shop) error
	GetByID(ctx context.Context, id int64) (*entity.Shop, error)
	GetByEmail(ctx context.Context, email string) (*entity.Shop, error)
	GetByAccountID(ctx context.Context, accountID int64) (*entity.Shop, error)
	ListActive(ctx context.Context) ([]entity.Shop, error)
	LockByID(ctx context.Context, id int64) (*entity.Shop, error)
	Update(ctx context.Context, s *entity.Shop) error
	// AddBalance applies delta in a single statement and returns the new
	// balance. With allowNegative=false a delta that would take the balance
	// below zero fails with ErrInsufficientBalance.
	AddBalance(ctx context.Context, id int64, delta decimal.Decimal, allowNegative bool, at time.Time) (decimal.Decimal, error)
}

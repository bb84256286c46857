package repository

import (
	"context"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
)

// AccountRepository defines persistence operations for credential records.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id int64) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	// LockByID reads the account and holds a row lock until the surrounding
	// transaction ends. Outside a transaction it behaves like GetByID.
	LockByID(ctx context.Context, id int64) (*entity.Account, error)
	Update(ctx context.Context, a *entity.Account) error
	Count(ctx context.Context) (int64, error)
}

package repository

import "context"

// Store vends repositories bound to one connection or transaction.
type Store interface {
	Accounts() AccountRepository
	Shops() ShopRepository
	Products() ProductRepository

	// WithTx runs fn against a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise,
	// including on panic.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

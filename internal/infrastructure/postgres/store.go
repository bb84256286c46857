package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/repository"
)

const uniqueViolation = "23505"

// DBTX is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store binds the repositories to a pool, or to a transaction inside WithTx.
type Store struct {
	db       DBTX
	accounts *AccountRepository
	shops    *ShopRepository
	products *ProductRepository
}

func NewStore(db DBTX) *Store {
	return &Store{
		db:       db,
		accounts: NewAccountRepository(db),
		shops:    NewShopRepository(db),
		products: NewProductRepository(db),
	}
}

func (s *Store) Accounts() repository.AccountRepository { return s.accounts }
func (s *Store) Shops() repository.ShopRepository       { return s.shops }
func (s *Store) Products() repository.ProductRepository { return s.products }

// WithTx begins a transaction (a savepoint when s is already transactional),
// runs fn, and commits on success or rolls back on error/panic.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if cErr := tx.Commit(ctx); cErr != nil {
			err = fmt.Errorf("commit tx: %w", cErr)
		}
	}()

	err = fn(ctx, NewStore(tx))
	return err
}

var _ repository.Store = (*Store)(nil)

// translate maps driver errors onto repository sentinels.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w (%s)", op, repository.ErrDuplicate, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Package seed fills an empty database with the admin, user and demo shop
// accounts plus a starter catalog.
package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// HashFunc produces the stored hash for a plaintext password.
type HashFunc func(plain string) (string, error)

type Seeder struct {
	DB     *sql.DB
	Hash   HashFunc
	Logger logrus.FieldLogger
	// Demo adds the demo shops and products.
	Demo bool
}

// Result reports what Run inserted.
type Result struct {
	Skipped  bool
	Accounts int
	Shops    int
	Products int
}

func New(db *sql.DB, hash HashFunc, logger logrus.FieldLogger, demo bool) *Seeder {
	return &Seeder{DB: db, Hash: hash, Logger: logger, Demo: demo}
}

const (
	insertAccount = `INSERT INTO accounts (name, email, password_hash, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	insertShop = `INSERT INTO shops (name, email, phone, address, contact_person, city, state, zip_code, balance, is_active, account_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10, $11) RETURNING id`
	insertProduct = `INSERT INTO products (name, category, price, stock, sku, description, image, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8)`
)

// Run seeds the database once. It does nothing when any account exists.
// Everything is inserted in one transaction, so each shop lands together
// with its account or not at all.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var n int64
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return Result{}, fmt.Errorf("count accounts: %w", err)
	}
	if n > 0 {
		s.Logger.WithField("accounts", n).Info("database already seeded, skipping")
		return Result{Skipped: true}, nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var res Result
	for _, a := range accounts {
		if _, err := s.account(ctx, tx, a); err != nil {
			return Result{}, err
		}
		res.Accounts++
	}

	if s.Demo {
		for _, sh := range shops {
			id, err := s.account(ctx, tx, sh.Account)
			if err != nil {
				return Result{}, err
			}
			res.Accounts++
			if err := s.shop(ctx, tx, sh, id); err != nil {
				return Result{}, err
			}
			res.Shops++
		}
		for _, p := range products {
			price, err := decimal.NewFromString(p.Price)
			if err != nil {
				return Result{}, fmt.Errorf("product %s price: %w", p.SKU, err)
			}
			if _, err := tx.ExecContext(ctx, insertProduct, p.Name, p.Category, price, p.Stock, p.SKU, p.Description, p.Image, day(5)); err != nil {
				return Result{}, fmt.Errorf("insert product %s: %w", p.SKU, err)
			}
			res.Products++
		}
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("commit: %w", err)
	}
	s.Logger.WithFields(logrus.Fields{
		"accounts": res.Accounts,
		"shops":    res.Shops,
		"products": res.Products,
	}).Info("database seeded")
	return res, nil
}

func (s *Seeder) account(ctx context.Context, tx *sql.Tx, a accountSeed) (int64, error) {
	hash, err := s.Hash(a.Password)
	if err != nil {
		return 0, fmt.Errorf("hash %s: %w", a.Email, err)
	}
	var id int64
	if err := tx.QueryRowContext(ctx, insertAccount, a.Name, a.Email, hash, a.Role.String(), a.Active, a.At).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert account %s: %w", a.Email, err)
	}
	return id, nil
}

func (s *Seeder) shop(ctx context.Context, tx *sql.Tx, sh shopSeed, accountID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx, insertShop,
		sh.Account.Name, sh.Account.Email, sh.Phone, sh.Address, sh.ContactPerson,
		sh.City, sh.State, sh.ZipCode, sh.Balance, accountID, sh.Account.At,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert shop %s: %w", sh.Account.Email, err)
	}
	return nil
}

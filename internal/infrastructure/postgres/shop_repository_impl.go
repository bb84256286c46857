package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	"github.com/oksasatya/go-pos-backoffice/internal/domain/repository"
)

const shopSelect = `
	SELECT s.id, s.name, s.email, s.phone, s.address, s.contact_person, s.city, s.state, s.zip_code,
	       s.balance, s.is_active, s.created_at, s.updated_at, s.account_id, COALESCE(a.email, '')
	FROM shops s
	LEFT JOIN accounts a ON a.id = s.account_id`

type ShopRepository struct {
	db DBTX
}

func NewShopRepository(db DBTX) *ShopRepository {
	return &ShopRepository{db: db}
}

func scanShop(row pgx.Row) (*entity.Shop, error) {
	s := &entity.Shop{}
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.ContactPerson, &s.City, &s.State, &s.ZipCode,
		&s.Balance, &s.IsActive, &s.CreatedAt, &s.UpdatedAt, &s.AccountID, &s.AccountEmail)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *ShopRepository) Create(ctx context.Context, s *entity.Shop) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO shops (name, email, phone, address, contact_person, city, state, zip_code,
		                   balance, is_active, created_at, account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, s.Name, s.Email, s.Phone, s.Address, s.ContactPerson, s.City, s.State, s.ZipCode,
		s.Balance, s.IsActive, s.CreatedAt, s.AccountID)

	return translate(row.Scan(&s.ID), "insert shop")
}

func (r *ShopRepository) get(ctx context.Context, op, where string, arg any) (*entity.Shop, error) {
	s, err := scanShop(r.db.QueryRow(ctx, shopSelect+" WHERE "+where, arg))
	if err != nil {
		return nil, translate(err, op)
	}
	return s, nil
}

func (r *ShopRepository) GetByID(ctx context.Context, id int64) (*entity.Shop, error) {
	return r.get(ctx, "get shop by id", "s.id = $1", id)
}

func (r *ShopRepository) GetByEmail(ctx context.Context, email string) (*entity.Shop, error) {
	return r.get(ctx, "get shop by email", "s.email = $1", email)
}

func (r *ShopRepository) GetByAccountID(ctx context.Context, accountID int64) (*entity.Shop, error) {
	return r.get(ctx, "get shop by account", "s.account_id = $1", accountID)
}

// LockByID locks only the shop row; the account row is locked separately.
func (r *ShopRepository) LockByID(ctx context.Context, id int64) (*entity.Shop, error) {
	return r.get(ctx, "lock shop", "s.id = $1 FOR UPDATE OF s", id)
}

func (r *ShopRepository) ListActive(ctx context.Context) ([]entity.Shop, error) {
	rows, err := r.db.Query(ctx, shopSelect+" WHERE s.is_active ORDER BY s.name")
	if err != nil {
		return nil, translate(err, "list shops")
	}
	defer rows.Close()

	out := make([]entity.Shop, 0)
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, translate(err, "scan shop")
		}
		out = append(out, *s)
	}
	return out, translate(rows.Err(), "list shops")
}

func (r *ShopRepository) Update(ctx context.Context, s *entity.Shop) error {
	res, err := r.db.Exec(ctx, `
		UPDATE shops
		SET name = $1, phone = $2, address = $3, contact_person = $4, city = $5, state = $6,
		    zip_code = $7, balance = $8, is_active = $9, updated_at = $10
		WHERE id = $11
	`, s.Name, s.Phone, s.Address, s.ContactPerson, s.City, s.State,
		s.ZipCode, s.Balance, s.IsActive, s.UpdatedAt, s.ID)
	if err != nil {
		return translate(err, "update shop")
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ShopRepository) AddBalance(ctx context.Context, id int64, delta decimal.Decimal, allowNegative bool, at time.Time) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, `
		UPDATE shops
		SET balance = balance + $1, updated_at = $2
		WHERE id = $3 AND ($4 OR balance + $1 >= 0)
		RETURNING balance
	`, delta, at, id, allowNegative).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, translate(err, "add balance")
	}

	// No row updated: tell a missing shop apart from a rejected delta.
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM shops WHERE id = $1)`, id).Scan(&exists); err != nil {
		return decimal.Zero, translate(err, "add balance")
	}
	if !exists {
		return decimal.Zero, repository.ErrNotFound
	}
	return decimal.Zero, repository.ErrInsufficientBalance
}

var _ repository.ShopRepository = (*ShopRepository)(nil)

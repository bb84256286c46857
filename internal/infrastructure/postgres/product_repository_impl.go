package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	"github.com/oksasatya/go-pos-backoffice/internal/domain/repository"
)

const productColumns = `id, name, category, price, stock, sku, description, image, is_active, created_at, updated_at`

type ProductRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	p := &entity.Product{}
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.SKU, &p.Description, &p.Image,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO products (name, category, price, stock, sku, description, image, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, p.Name, p.Category, p.Price, p.Stock, p.SKU, p.Description, p.Image, p.IsActive, p.CreatedAt)

	return translate(row.Scan(&p.ID), "insert product")
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "get product by id")
	}
	return p, nil
}

func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku))
	if err != nil {
		return nil, translate(err, "get product by sku")
	}
	return p, nil
}

func (r *ProductRepository) list(ctx context.Context, query string, args ...any) ([]entity.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list products")
	}
	defer rows.Close()

	out := make([]entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, translate(err, "scan product")
		}
		out = append(out, *p)
	}
	return out, translate(rows.Err(), "list products")
}

func (r *ProductRepository) ListActive(ctx context.Context) ([]entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE is_active ORDER BY category, name`)
}

func (r *ProductRepository) ListActiveByCategory(ctx context.Context, category string) ([]entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE is_active AND category = $1 ORDER BY name`, category)
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT category FROM products WHERE is_active ORDER BY category`)
	if err != nil {
		return nil, translate(err, "list categories")
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, translate(err, "scan category")
		}
		out = append(out, c)
	}
	return out, translate(rows.Err(), "list categories")
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $1, category = $2, price = $3, stock = $4, description = $5, image = $6,
		    is_active = $7, updated_at = $8
		WHERE id = $9
	`, p.Name, p.Category, p.Price, p.Stock, p.Description, p.Image, p.IsActive, p.UpdatedAt, p.ID)
	if err != nil {
		return translate(err, "update product")
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

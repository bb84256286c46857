package repository

import (
	"context"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	ListActive(ctx context.Context) ([]entity.Product, error)
	ListActiveByCategory(ctx context.Context, category string) ([]entity.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, p *entity.Product) error
}

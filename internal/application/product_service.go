package application

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	repo "github.com/oksasatya/go-pos-backoffice/internal/domain/repository"
)

// ProductIndexer mirrors products into the search index.
type ProductIndexer interface {
	Index(ctx context.Context, p *entity.Product) error
	// Search returns ids of matching active products, best match first.
	Search(ctx context.Context, q string, size int) ([]int64, error)
}

// ImageStore persists uploaded images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type CreateProductInput struct {
	Name        string
	Category    string
	Price       decimal.Decimal
	Stock       int
	SKU         string
	Description string
	Image       string
}

type ProductService struct {
	Store   repo.Store
	Indexer ProductIndexer
	Images  ImageStore
	Logger  logrus.FieldLogger
	Clock   func() time.Time
}

// NewProductService builds the catalog service. indexer and images may be
// nil, which disables search and uploads respectively.
func NewProductService(store repo.Store, indexer ProductIndexer, images ImageStore, logger logrus.FieldLogger) *ProductService {
	return &ProductService{Store: store, Indexer: indexer, Images: images, Logger: logger, Clock: time.Now}
}

func (s *ProductService) now() time.Time { return s.Clock().UTC() }

// ListProducts returns active products ordered by category, then name.
func (s *ProductService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return s.list(s.Store.Products().ListActive(ctx))
}

func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]entity.Product, error) {
	return s.list(s.Store.Products().ListActiveByCategory(ctx, category))
}

// Categories returns the distinct categories of active products, sorted.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.Store.Products().Categories(ctx)
	if err != nil {
		return nil, persistence(err)
	}
	return cats, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	return s.lookup(s.Store.Products().GetByID(ctx, id))
}

func (s *ProductService) GetProductBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return s.lookup(s.Store.Products().GetBySKU(ctx, sku))
}

func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (*entity.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalid("name is required")
	}
	if strings.TrimSpace(in.SKU) == "" {
		return nil, invalid("sku is required")
	}
	if err := checkPriceStock(&in.Price, &in.Stock); err != nil {
		return nil, err
	}

	p := &entity.Product{
		Name:        in.Name,
		Category:    in.Category,
		Price:       in.Price,
		Stock:       in.Stock,
		SKU:         in.SKU,
		Description: in.Description,
		Image:       in.Image,
		IsActive:    true,
		CreatedAt:   s.now(),
	}
	if err := s.Store.Products().Create(ctx, p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateSKU
		}
		s.Logger.WithError(err).WithField("sku", in.SKU).Error("create product failed")
		return nil, persistence(err)
	}

	productMetrics.Add("created", 1)
	s.reindex(ctx, p)
	return p, nil
}

// UpdateProduct applies a sparse patch. Returns nil, nil when absent.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, patch entity.ProductPatch) (*entity.Product, error) {
	if err := checkPriceStock(patch.Price, patch.Stock); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(p *entity.Product) {
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Category != nil {
			p.Category = *patch.Category
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Stock != nil {
			p.Stock = *patch.Stock
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Image != nil {
			p.Image = *patch.Image
		}
		if patch.IsActive != nil {
			p.IsActive = *patch.IsActive
		}
	})
}

// DeleteProduct soft-deletes the product. Returns false when absent.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	p, err := s.mutate(ctx, id, func(p *entity.Product) { p.IsActive = false })
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

// SearchProducts runs a full-text query against the index and loads the
// matching active products from the store, keeping the index order.
func (s *ProductService) SearchProducts(ctx context.Context, q string, size int) ([]entity.Product, error) {
	out := make([]entity.Product, 0)
	if s.Indexer == nil || strings.TrimSpace(q) == "" {
		return out, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	ids, err := s.Indexer.Search(ctx, q, size)
	if err != nil {
		s.Logger.WithError(err).WithField("q", q).Warn("product search failed")
		return nil, err
	}
	for _, id := range ids {
		p, err := s.Store.Products().GetByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, persistence(err)
		}
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

// UploadImage stores the image and points the product at it.
// Returns nil, nil when the product does not exist.
func (s *ProductService) UploadImage(ctx context.Context, id int64, r io.Reader, filename, contentType string) (*entity.Product, error) {
	if s.Images == nil {
		return nil, ErrImageStoreDisabled
	}
	existing, err := s.GetProduct(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := path.Join("products", strconv.FormatInt(id, 10), uuid.NewString()+ext)
	url, err := s.Images.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		s.Logger.WithError(err).WithField("product_id", id).Error("upload product image failed")
		return nil, err
	}
	return s.mutate(ctx, id, func(p *entity.Product) { p.Image = url })
}

func (s *ProductService) mutate(ctx context.Context, id int64, apply func(p *entity.Product)) (*entity.Product, error) {
	p, err := s.Store.Products().GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence(err)
	}
	apply(p)
	now := s.now()
	p.UpdatedAt = &now
	if err := s.Store.Products().Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		s.Logger.WithError(err).WithField("product_id", id).Error("update product failed")
		return nil, persistence(err)
	}

	productMetrics.Add("updated", 1)
	s.reindex(ctx, p)
	return p, nil
}

// reindex is best-effort; the store stays the source of truth.
func (s *ProductService) reindex(ctx context.Context, p *entity.Product) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.Index(ctx, p); err != nil {
		s.Logger.WithError(err).WithField("product_id", p.ID).Warn("product index failed")
	}
}

func checkPriceStock(price *decimal.Decimal, stock *int) error {
	if price != nil && price.IsNegative() {
		return invalid("price must not be negative")
	}
	if stock != nil && *stock < 0 {
		return invalid("stock must not be negative")
	}
	return nil
}

func (s *ProductService) list(items []entity.Product, err error) ([]entity.Product, error) {
	if err != nil {
		return nil, persistence(err)
	}
	return items, nil
}

func (s *ProductService) lookup(p *entity.Product, err error) (*entity.Product, error) {
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence(err)
	}
	return p, nil
}

package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pos-backoffice/internal/application"
	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	"github.com/oksasatya/go-pos-backoffice/pkg/response"
	"github.com/oksasatya/go-pos-backoffice/pkg/validation"
)

// MaxImageBytes caps product image uploads.
const MaxImageBytes = 5 << 20

// Catalog is the slice of ProductService the handler needs.
type Catalog interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	ListByCategory(ctx context.Context, category string) ([]entity.Product, error)
	Categories(ctx context.Context) ([]string, error)
	GetProduct(ctx context.Context, id int64) (*entity.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*entity.Product, error)
	CreateProduct(ctx context.Context, in application.CreateProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch entity.ProductPatch) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id int64) (bool, error)
	SearchProducts(ctx context.Context, q string, size int) ([]entity.Product, error)
	UploadImage(ctx context.Context, id int64, r io.Reader, filename, contentType string) (*entity.Product, error)
}

type ProductHandler struct {
	Svc    Catalog
	Logger logrus.FieldLogger
}

func NewProductHandler(svc Catalog, logger logrus.FieldLogger) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger}
}

type productResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at"`
}

func toProductResponse(p *entity.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		SKU:         p.SKU,
		Description: p.Description,
		Image:       p.Image,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductList(items []entity.Product) []productResponse {
	out := make([]productResponse, 0, len(items))
	for i := range items {
		out = append(out, toProductResponse(&items[i]))
	}
	return out
}

type createProductRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Category    string          `json:"category" binding:"omitempty,max=100"`
	Price       decimal.Decimal `json:"price" binding:"gte=0"`
	Stock       int             `json:"stock" binding:"gte=0"`
	SKU         string          `json:"sku" binding:"required,sku"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

type updateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Price       *decimal.Decimal `json:"price" binding:"omitempty,gte=0"`
	Stock       *int             `json:"stock" binding:"omitempty,gte=0"`
	Description *string          `json:"description"`
	Image       *string          `json:"image"`
	IsActive    *bool            `json:"is_active"`
}

// List GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	items, err := h.Svc.ListProducts(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := toProductList(items)
	response.Success(c, http.StatusOK, out, "products", gin.H{"count": len(out)})
}

// ByCategory GET /api/products/category/:category
func (h *ProductHandler) ByCategory(c *gin.Context) {
	items, err := h.Svc.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := toProductList(items)
	response.Success(c, http.StatusOK, out, "products", gin.H{"count": len(out)})
}

// Categories GET /api/products/categories
func (h *ProductHandler) Categories(c *gin.Context) {
	cats, err := h.Svc.Categories(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cats, "categories", nil)
}

// Search GET /api/products/search?q=&size=
func (h *ProductHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	items, err := h.Svc.SearchProducts(c.Request.Context(), q, size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := toProductList(items)
	response.Success(c, http.StatusOK, out, "products", gin.H{"count": len(out), "q": q})
}

// Get GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.Svc.GetProduct(c.Request.Context(), id)
	h.respond(c, p, err, "product")
}

// GetBySKU GET /api/products/sku/:sku
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	p, err := h.Svc.GetProductBySKU(c.Request.Context(), c.Param("sku"))
	h.respond(c, p, err, "product")
}

// Create POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.CreateProduct(c.Request.Context(), application.CreateProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		SKU:         req.SKU,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Header("Location", "/api/products/"+formatID(p.ID))
	response.Success(c, http.StatusCreated, toProductResponse(p), "product created", nil)
}

// Update PUT /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.UpdateProduct(c.Request.Context(), id, entity.ProductPatch{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Image:       req.Image,
		IsActive:    req.IsActive,
	})
	h.respond(c, p, err, "product updated")
}

// Delete DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	found, err := h.Svc.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if !found {
		response.Error[any](c, http.StatusNotFound, "Product not found", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "Product deleted successfully", nil)
}

// UploadImage POST /api/products/:id/image (multipart field "image")
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImageBytes+1<<10)
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image file is required", nil)
		return
	}
	if fh.Size > MaxImageBytes {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "image too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image file is unreadable", nil)
		return
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		response.Error[any](c, http.StatusUnsupportedMediaType, "file is not an image", nil)
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		writeError(c, h.Logger, err)
		return
	}

	p, err := h.Svc.UploadImage(c.Request.Context(), id, f, fh.Filename, contentType)
	h.respond(c, p, err, "image uploaded")
}

// Health GET /api/products/health
func (h *ProductHandler) Health(c *gin.Context) { health("products")(c) }

func (h *ProductHandler) respond(c *gin.Context, p *entity.Product, err error, msg string) {
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if p == nil {
		response.Error[any](c, http.StatusNotFound, "Product not found", nil)
		return
	}
	response.Success(c, http.StatusOK, toProductResponse(p), msg, nil)
}

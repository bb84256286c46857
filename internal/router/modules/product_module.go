package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	handlers "github.com/oksasatya/go-pos-backoffice/internal/interface/http"
	"github.com/oksasatya/go-pos-backoffice/internal/interface/middleware"
)

// ProductModule serves /products. Any signed-in role may read; writes are Admin-only.
type ProductModule struct {
	Handler *handlers.ProductHandler
	Authz   middleware.Authorizer
	Redis   *redis.Client
}

func NewProductModule(h *handlers.ProductHandler, authz middleware.Authorizer, rdb *redis.Client) *ProductModule {
	return &ProductModule{Handler: h, Authz: authz, Redis: rdb}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	rg.GET("/products/health", m.Handler.Health)

	products := rg.Group("/products")
	products.Use(
		middleware.Auth(m.Authz),
		middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByAccountID(), nil),
	)
	{
		products.GET("", m.Handler.List)
		products.GET("/categories", m.Handler.Categories)
		products.GET("/category/:category", m.Handler.ByCategory)
		products.GET("/search", middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByAccountID(), nil), m.Handler.Search)
		products.GET("/sku/:sku", m.Handler.GetBySKU)
		products.GET("/:id", m.Handler.Get)
	}

	admin := products.Group("")
	admin.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		admin.POST("", m.Handler.Create)
		admin.PUT("/:id", m.Handler.Update)
		admin.DELETE("/:id", m.Handler.Delete)
		admin.POST("/:id/image", m.Handler.UploadImage)
	}
}

package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	handlers "github.com/oksasatya/go-pos-backoffice/internal/interface/http"
	"github.com/oksasatya/go-pos-backoffice/internal/interface/middleware"
)

// ShopModule serves /shops. Writes and listings are Admin-only; a Shop
// account may read its own shop by id, email or user id.
type ShopModule struct {
	Handler *handlers.ShopHandler
	Authz   middleware.Authorizer
	Redis   *redis.Client
}

func NewShopModule(h *handlers.ShopHandler, authz middleware.Authorizer, rdb *redis.Client) *ShopModule {
	return &ShopModule{Handler: h, Authz: authz, Redis: rdb}
}

func (m *ShopModule) Register(rg *gin.RouterGroup) {
	rg.GET("/shops/health", m.Handler.Health)

	shops := rg.Group("/shops")
	shops.Use(
		middleware.Auth(m.Authz),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByAccountID(), nil),
	)

	admin := middleware.RequireRole(entity.RoleAdmin)
	owner := middleware.RequireRole(entity.RoleAdmin, entity.RoleShop)

	shops.GET("", admin, m.Handler.List)
	shops.GET("/:id", owner, m.Handler.Get)
	shops.GET("/email/:email", owner, m.Handler.GetByEmail)
	shops.GET("/user/:userId", owner, m.Handler.GetByUser)
	shops.POST("", admin, m.Handler.Create)
	shops.PUT("/:id", admin, m.Handler.Update)
	shops.DELETE("/:id", admin, m.Handler.Delete)
	shops.PATCH("/:id/balance", admin, m.Handler.AdjustBalance)
}

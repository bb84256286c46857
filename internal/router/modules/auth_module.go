package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-pos-backoffice/internal/interface/http"
	"github.com/oksasatya/go-pos-backoffice/internal/interface/middleware"
)

// AuthModule serves login, logout and the auth health check.
// Public: POST /auth/login, GET /auth/health
// Protected: POST /auth/logout
type AuthModule struct {
	Handler *handlers.AuthHandler
	Authz   middleware.Authorizer
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, authz middleware.Authorizer, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Authz: authz, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), nil) // 10 req/min per IP

	rg.GET("/auth/health", m.Handler.Health)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/auth")
	auth.Use(middleware.Auth(m.Authz))
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}

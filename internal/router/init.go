package router

import (
	"github.com/oksasatya/go-pos-backoffice/internal/application"
	"github.com/oksasatya/go-pos-backoffice/internal/container"
	pginfra "github.com/oksasatya/go-pos-backoffice/internal/infrastructure/postgres"
	"github.com/oksasatya/go-pos-backoffice/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-pos-backoffice/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-pos-backoffice/internal/interface/http"
	"github.com/oksasatya/go-pos-backoffice/internal/router/modules"
	"github.com/oksasatya/go-pos-backoffice/pkg/helpers"
)

type Deps struct {
	Auth     *application.AuthService
	Shops    *application.ShopService
	Products *application.ProductService
}

// BuildDeps wires the services from the container singletons.
func BuildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := pginfra.NewStore(container.GetPGPool())
	sessions := redisstore.NewSessionStore(container.GetRedis())

	auth := application.NewAuthService(store, container.GetJWT(), sessions, logger, cfg.BcryptCost)

	var notifier application.ShopNotifier = application.NopNotifier{}
	if pub := container.GetRabbitPub(); pub != nil && cfg.NotifyEnabled {
		notifier = application.NewQueueNotifier(pub, cfg, logger)
	}
	shops := application.NewShopService(store, auth, auth, notifier, logger, cfg.BalanceAllowNegative)

	var indexer application.ProductIndexer
	if es := container.GetES(); es != nil {
		indexer = search.NewProductIndex(es, cfg.ESProductsIndex)
	}
	var images application.ImageStore
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		images = helpers.NewGCSUploader(gcs, cfg.GCSBucket)
	}
	products := application.NewProductService(store, indexer, images, logger)

	return Deps{Auth: auth, Shops: shops, Products: products}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	deps := BuildDeps()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(deps.Auth, logger, cfg.CookieDomain, cfg.CookieSecure), deps.Auth, rdb))
	r.Add(modules.NewShopModule(handlers.NewShopHandler(deps.Shops, logger), deps.Auth, rdb))
	r.Add(modules.NewProductModule(handlers.NewProductHandler(deps.Products, logger), deps.Auth, rdb))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}

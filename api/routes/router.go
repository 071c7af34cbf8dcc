package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecofinds/ecofinds-backend/api/controllers"
	"github.com/ecofinds/ecofinds-backend/api/middleware"
	authsvc "github.com/ecofinds/ecofinds-backend/internal/auth"
	cartsvc "github.com/ecofinds/ecofinds-backend/internal/cart"
	"github.com/ecofinds/ecofinds-backend/internal/catalog"
	checkoutsvc "github.com/ecofinds/ecofinds-backend/internal/checkout"
	purchasesvc "github.com/ecofinds/ecofinds-backend/internal/purchases"
	userssvc "github.com/ecofinds/ecofinds-backend/internal/users"
	pkgauth "github.com/ecofinds/ecofinds-backend/pkg/auth"
	"github.com/ecofinds/ecofinds-backend/pkg/config"
	"github.com/ecofinds/ecofinds-backend/pkg/db"
	"github.com/ecofinds/ecofinds-backend/pkg/logger"
	"github.com/ecofinds/ecofinds-backend/pkg/metrics"
	pkgredis "github.com/ecofinds/ecofinds-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              *db.Client
	Redis           *pkgredis.Client
	Tokens          *pkgauth.TokenManager
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsRegistry *prometheus.Registry

	AuthService     authsvc.Service
	UserService     userssvc.Service
	CatalogService  catalog.Service
	CategoryService catalog.CategoryService
	CartService     cartsvc.Service
	CheckoutService checkoutsvc.Service
	PurchaseService purchasesvc.Service
}

// NewRouter assembles the full route tree.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(deps.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		})

		// Browse and detail stay public so sold listings remain linkable.
		r.Get("/products", controllers.ProductList(deps.CatalogService, logg))
		r.Get("/products/{productID}", controllers.ProductGet(deps.CatalogService, logg))
		r.Get("/categories", controllers.CategoryList(deps.CategoryService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.Tokens, logg))

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", controllers.UserMe(deps.UserService, logg))
				r.Put("/me", controllers.UserUpdateMe(deps.UserService, logg))
			})

			r.Post("/products", controllers.ProductCreate(deps.CatalogService, logg))
			r.Get("/products/mine", controllers.ProductListMine(deps.CatalogService, logg))
			r.Put("/products/{productID}", controllers.ProductUpdate(deps.CatalogService, logg))
			r.Delete("/products/{productID}", controllers.ProductDelete(deps.CatalogService, logg))

			r.Post("/categories", controllers.CategoryCreate(deps.CategoryService, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.CartService, logg))
				r.Delete("/", controllers.CartClear(deps.CartService, logg))
				r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
				r.Put("/items/{itemID}", controllers.CartUpdateItem(deps.CartService, logg))
				r.Delete("/items/{itemID}", controllers.CartRemoveItem(deps.CartService, logg))
				r.With(middleware.Idempotency(deps.Redis, cfg.Checkout.IdempotencyTTL, logg)).
					Post("/checkout", controllers.CheckoutExecute(deps.CheckoutService, logg))
			})

			r.Route("/purchases", func(r chi.Router) {
				r.Get("/", controllers.PurchaseList(deps.PurchaseService, logg))
				r.Get("/{purchaseID}", controllers.PurchaseGet(deps.PurchaseService, logg))
			})
		})
	})

	return r
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/ecofinds/ecofinds-backend/api/routes"
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
	"github.com/ecofinds/ecofinds-backend/pkg/migrate"
	pkgredis "github.com/ecofinds/ecofinds-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(logg, "database", err)

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
	requireResource(logg, "redis", err)

	tokens, err := pkgauth.NewTokenManager(cfg.JWT)
	requireResource(logg, "token manager", err)

	userRepo := userssvc.NewRepository(dbClient.DB())
	productRepo := catalog.NewRepository(dbClient.DB())
	categoryRepo := catalog.NewCategoryRepository(dbClient.DB())
	cartRepo := cartsvc.NewRepository(dbClient.DB())
	purchaseRepo := purchasesvc.NewRepository(dbClient.DB())

	authService, err := authsvc.NewService(userRepo, tokens, cfg.Password)
	requireResource(logg, "auth service", err)

	userService, err := userssvc.NewService(userRepo)
	requireResource(logg, "user service", err)

	catalogService, err := catalog.NewService(productRepo, categoryRepo)
	requireResource(logg, "catalog service", err)

	categoryService, err := catalog.NewCategoryService(categoryRepo)
	requireResource(logg, "category service", err)

	cartService, err := cartsvc.NewService(cartRepo, productRepo)
	requireResource(logg, "cart service", err)

	checkoutService, err := checkoutsvc.NewService(dbClient, cartRepo, productRepo, purchaseRepo)
	requireResource(logg, "checkout service", err)

	purchaseService, err := purchasesvc.NewService(purchaseRepo)
	requireResource(logg, "purchase service", err)

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	router := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		DB:              dbClient,
		Redis:           redisClient,
		Tokens:          tokens,
		HTTPMetrics:     httpMetrics,
		MetricsRegistry: registry,
		AuthService:     authService,
		UserService:     userService,
		CatalogService:  catalogService,
		CategoryService: categoryService,
		CartService:     cartService,
		CheckoutService: checkoutService,
		PurchaseService: purchaseService,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(runCtx, "starting api server")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(runCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(runCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(runCtx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(runCtx, "shutdown complete")
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-backoffice/internal/modules/access"
	"github.com/georgemunganga/printa-backoffice/internal/modules/auth"
	"github.com/georgemunganga/printa-backoffice/internal/modules/catalog"
	"github.com/georgemunganga/printa-backoffice/internal/modules/inventory"
	"github.com/georgemunganga/printa-backoffice/internal/modules/invoice"
	"github.com/georgemunganga/printa-backoffice/internal/modules/order"
	"github.com/georgemunganga/printa-backoffice/internal/modules/pos"
	"github.com/georgemunganga/printa-backoffice/internal/modules/shop"
	"github.com/georgemunganga/printa-backoffice/internal/modules/user"
	"github.com/georgemunganga/printa-backoffice/internal/platform/config"
	"github.com/georgemunganga/printa-backoffice/internal/platform/database"
	"github.com/georgemunganga/printa-backoffice/internal/platform/httpx"
	"github.com/georgemunganga/printa-backoffice/internal/platform/logging"
)

const shutdownGrace = 15 * time.Second

// repositories groups one storage backend per module.
type repositories struct {
	access  access.Repository
	shops   shop.Repository
	catalog catalog.Repository
	orders  order.Repository
	stock   inventory.Repository
	counter pos.Repository
	users   user.Repository
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		// The configured logger needs cfg, so report with a default one.
		zap.NewExample().Fatal("load config", zap.Error(err))
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		zap.NewExample().Fatal("build logger", zap.Error(err))
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Storage ──
	repos, closeDB, err := openRepositories(ctx, cfg)
	if err != nil {
		logger.Fatal("open storage", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer closeDB()
	logger.Info("storage ready", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.Driver == config.StorageMemory {
		if _, err := seedDemo(ctx, repos, logger); err != nil {
			logger.Fatal("seed demo data", zap.Error(err))
		}
	}

	// ── Services ──
	directory := user.NewDirectory(repos.users)
	authz := access.NewService(repos.access, repos.shops, logger, access.WithUserDirectory(directory))
	shopService := shop.NewService(repos.shops, authz, logger, shop.WithUserDirectory(directory))
	catalogService := catalog.NewService(repos.catalog, authz)
	orderService := order.NewService(repos.orders, repos.catalog, shopService, authz,
		order.WithLogger(logger),
		order.WithCurrency(cfg.Currency),
		order.WithObserver(order.NewAuditLog(logger)),
		order.WithObserver(inventory.NewLedger(repos.stock, logger)),
		order.WithObserver(pos.NewReconciler(repos.counter, logger)),
	)
	inventoryService := inventory.NewService(repos.stock, repos.catalog, authz)
	posService := pos.NewService(repos.counter, orderService, authz, logger)
	invoiceWorkflow := invoice.NewWorkflow(repos.orders, repos.shops, authz, logger)
	userService := user.NewService(repos.users, authz)

	cookies, err := shop.NewCookieStore(shop.CookieConfig{
		Name:     cfg.Session.CookieName,
		HashKey:  cfg.Session.HashKey,
		BlockKey: cfg.Session.BlockKey,
		Secure:   cfg.Session.Secure,
		Lifetime: cfg.Session.MaxAge,
	})
	if err != nil {
		logger.Fatal("build session cookie store", zap.Error(err))
	}

	// ── Handlers ──
	accessHandler := access.NewHandler(authz)
	shopHandler := shop.NewHandler(shopService, cookies)
	catalogHandler := catalog.NewHandler(catalogService)
	inventoryHandler := inventory.NewHandler(inventoryService)
	orderHandler := order.NewHandler(orderService)
	posHandler := pos.NewHandler(posService)
	invoiceHandler := invoice.NewHandler(invoiceWorkflow)
	userHandler := user.NewHandler(userService)

	// ── Router ──
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.Respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(auth.NewVerifier(cfg.Auth.JWTSecret)))
		r.Use(shop.Middleware(cookies, shopService))

		shopHandler.RegisterRoutes(r)
		accessHandler.RegisterRoutes(r)
		userHandler.RegisterRoutes(r)
		catalogHandler.RegisterRoutes(r)
		inventoryHandler.RegisterRoutes(r)
		orderHandler.RegisterRoutes(r)
		posHandler.RegisterRoutes(r)
		invoiceHandler.RegisterRoutes(r)
	})

	// ── Server ──
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openRepositories(ctx context.Context, cfg config.Config) (repositories, func(), error) {
	if cfg.Database.Driver == config.StorageMemory {
		return repositories{
			access:  access.NewMemoryRepository(),
			shops:   shop.NewMemoryRepository(),
			catalog: catalog.NewMemoryRepository(),
			orders:  order.NewMemoryRepository(),
			stock:   inventory.NewMemoryRepository(),
			counter: pos.NewMemoryRepository(),
			users:   user.NewMemoryRepository(),
		}, func() {}, nil
	}

	db, err := database.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns)
	if err != nil {
		return repositories{}, nil, err
	}
	return postgresRepositories(db), func() { db.Close() }, nil
}

func postgresRepositories(db *sql.DB) repositories {
	return repositories{
		access:  access.NewPostgresRepository(db),
		shops:   shop.NewPostgresRepository(db),
		catalog: catalog.NewPostgresRepository(db),
		orders:  order.NewPostgresRepository(db),
		stock:   inventory.NewPostgresRepository(db),
		counter: pos.NewPostgresRepository(db),
		users:   user.NewPostgresRepository(db),
	}
}

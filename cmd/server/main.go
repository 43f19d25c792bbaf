// Package main is the entry point for the PSI API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"psi/internal/config"
	"psi/internal/domain/auth"
	"psi/internal/domain/catalogs/product"
	"psi/internal/domain/catalogs/supplier"
	"psi/internal/domain/enums"
	"psi/internal/domain/purchasing"
	"psi/internal/domain/receiving"
	"psi/internal/domain/reports"
	"psi/internal/infrastructure/cache"
	"psi/internal/infrastructure/export"
	v1 "psi/internal/infrastructure/http/v1"
	"psi/internal/infrastructure/http/v1/handlers"
	"psi/internal/infrastructure/storage/postgres"
	"psi/internal/infrastructure/storage/postgres/auth_repo"
	"psi/internal/infrastructure/storage/postgres/catalog_repo"
	"psi/internal/infrastructure/storage/postgres/dbutil"
	"psi/internal/infrastructure/storage/postgres/document_repo"
	"psi/internal/infrastructure/storage/postgres/report_repo"
	"psi/pkg/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()
	log.Infow("starting psi server", "env", cfg.App.Env, "version", version)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.LogQueries = cfg.Database.LogQueries

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool).WithStatementTimeout(cfg.Database.StatementTimeout)
	store := dbutil.New(txManager)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit log", "error", err)
	}

	// --- Report cache (optional) ---
	var (
		reportCache reports.Cache
		cachePinger handlers.Pinger
	)
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalw("invalid REDIS_URL", "error", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		rc, err := cache.NewReportCache(rdb, cfg.Redis.ReportCacheTTL)
		if err != nil {
			log.Fatalw("failed to initialize report cache", "error", err)
		}
		reportCache = rc
		cachePinger = handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		log.Infow("report cache enabled", "ttl", cfg.Redis.ReportCacheTTL)
	} else {
		log.Info("REDIS_URL not set, report cache disabled")
	}

	// --- Auth ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	jwtConfig.AccessTokenTTL = cfg.JWT.TTL
	jwtService := auth.NewJWTService(jwtConfig)
	authService := auth.NewService(auth_repo.NewUserRepo(txManager), txManager, jwtService, auth.DefaultServiceConfig())

	// --- Catalogs ---
	supplierService := supplier.NewService(catalog_repo.NewSupplierRepo(store), txManager, store)
	productService := product.NewService(catalog_repo.NewProductRepo(store), txManager, store, store)
	enumService := enums.NewService(catalog_repo.NewEnumValueRepo(txManager))

	// --- Documents ---
	orderService := purchasing.NewService(
		document_repo.NewPurchaseOrderRepo(store),
		store,
		store,
		txManager,
		auditService,
	)
	receivingService := receiving.NewService(receiving.ServiceConfig{
		Repo:      document_repo.NewReceivingRepo(store),
		Store:     store,
		Orders:    orderService,
		Statuses:  enumService,
		TxManager: txManager,
		Audit:     auditService,
	})

	// --- Reports ---
	reportService := reports.NewService(report_repo.NewReportRepo(txManager), reportCache, export.XLSX{})

	// Readiness runs a query rather than only checking out a connection.
	dbPinger := handlers.PingFunc(func(ctx context.Context) error {
		_, err := store.GetFirstResultRawSQL(ctx, "SELECT 1")
		return err
	})

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:         log,
		Development:    cfg.IsDevelopment(),
		CORSOrigins:    cfg.CORS.AllowedOrigins,
		JWTValidator:   jwtService,
		Health:         handlers.NewHealthHandler(dbPinger, pool.Stat, cachePinger, version),
		Auth:           authService,
		Suppliers:      supplierService,
		Products:       productService,
		EnumValues:     enumService,
		PurchaseOrders: orderService,
		Receivings:     receivingService,
		Reports:        reportService,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// Package main is the entry point for the AirSolutions API server.
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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"airsolutions/internal/config"
	"airsolutions/internal/domain/assistant"
	"airsolutions/internal/domain/auth"
	"airsolutions/internal/domain/catalogs/catalogitem"
	"airsolutions/internal/domain/catalogs/client"
	"airsolutions/internal/domain/documents/invoice"
	"airsolutions/internal/domain/documents/quote"
	"airsolutions/internal/domain/fiscalvoucher"
	"airsolutions/internal/infrastructure/cache"
	v1 "airsolutions/internal/infrastructure/http/v1"
	"airsolutions/internal/infrastructure/storage/postgres"
	"airsolutions/internal/infrastructure/storage/postgres/auth_repo"
	"airsolutions/internal/infrastructure/storage/postgres/catalog_repo"
	"airsolutions/internal/infrastructure/storage/postgres/document_repo"
	"airsolutions/internal/infrastructure/storage/postgres/migrations"
	"airsolutions/pkg/logger"
	"airsolutions/pkg/numerator"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	shutdownTimeout    = 30 * time.Second
	idempotencySweepAt = time.Hour
)

func main() {
	// A local .env never overrides variables already set.
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logger.SetDefault(log)

	ctx := context.Background()
	log.Infow("starting airsolutions server", "version", version, "env", cfg.App.Env)

	// --- Database ---
	if cfg.Database.AutoMigrate {
		if err := migrations.Run(ctx, cfg.Database.URL); err != nil {
			log.Fatalw("failed to apply migrations", "error", err)
		}
		log.Info("database migrations applied")
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	clientRepo := catalog_repo.NewClientRepo(txManager)
	catalogItemRepo := catalog_repo.NewCatalogItemRepo(txManager)
	voucherRepo := catalog_repo.NewFiscalVoucherRepo(txManager)
	quoteRepo := document_repo.NewQuoteRepo(txManager)
	invoiceRepo := document_repo.NewInvoiceRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)

	auditRecorder, err := postgres.NewAuditRecorder(txManager, postgres.DefaultCompressThreshold)
	if err != nil {
		log.Fatalw("failed to create audit recorder", "error", err)
	}
	numerators := numerator.NewWithResolver(func(ctx context.Context) numerator.Querier {
		return txManager.GetQuerier(ctx)
	})

	// --- Services ---
	clientService := client.NewService(clientRepo, txManager)
	catalogItemService := catalogitem.NewService(catalogItemRepo, txManager)
	voucherService := fiscalvoucher.NewService(voucherRepo)
	quoteService := quote.NewService(quoteRepo, clientRepo, txManager)
	invoiceService := invoice.NewService(invoice.Deps{
		Repo:      invoiceRepo,
		Clients:   clientRepo,
		Quotes:    quoteService,
		Vouchers:  voucherService,
		Numerator: numerators,
		TxManager: txManager,
		Audit:     auditRecorder,
	})

	// --- Auth ---
	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		Key:            cfg.JWT.Key,
		Issuer:         cfg.JWT.Issuer,
		Audience:       cfg.JWT.Audience,
		ExpiresMinutes: cfg.JWT.ExpiresMinutes,
	})
	if err != nil {
		log.Fatalw("invalid jwt configuration", "error", err)
	}
	authService := auth.NewService(userRepo, jwtService, txManager)
	if err := authService.Bootstrap(ctx, auth.BootstrapConfig{
		Username: cfg.Bootstrap.AdminUsername,
		Password: cfg.Bootstrap.AdminPassword,
		FullName: cfg.Bootstrap.AdminFullName,
		Role:     cfg.Bootstrap.AdminRole,
	}); err != nil {
		log.Fatalw("failed to bootstrap administrator", "error", err)
	}

	// --- Assistant ---
	store, closeStore := newCacheStore(ctx, cfg.Redis, log.WithComponent("cache"))
	defer closeStore()

	activeClients := cache.NewActiveClients(store, cfg.Redis.TTL, clientService)
	activeItems := cache.NewActiveCatalogItems(store, cfg.Redis.TTL, catalogItemService)

	var provider assistant.Provider
	if cfg.Gemini.APIKey != "" {
		provider = assistant.NewOpenAIProvider(assistant.ProviderConfig{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
			Timeout: cfg.Gemini.Timeout,
		})
		log.Infow("assistant provider enabled", "model", cfg.Gemini.Model)
	} else {
		log.Info("assistant provider disabled, using heuristic only")
	}
	assistantService := assistant.NewService(provider, assistant.NewEnricher(activeClients, activeItems))

	idempotencyStore := postgres.NewIdempotencyStore(txManager, cfg.Idempotency.TTL)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepIdempotencyKeys(sweepCtx, idempotencyStore, log.WithComponent("idempotency"))

	// --- Router ---
	mode := gin.ReleaseMode
	if cfg.App.IsDevelopment() {
		mode = gin.DebugMode
	}
	router := v1.NewRouter(v1.RouterConfig{
		Mode:           mode,
		Logger:         log,
		Version:        version,
		Tokens:         jwtService,
		Idempotency:    idempotencyStore,
		Database:       pool,
		Auth:           authService,
		Clients:        clientService,
		CatalogItems:   catalogItemService,
		Quotes:         quoteService,
		Invoices:       invoiceService,
		FiscalVouchers: voucherService,
		Assistant:      assistantService,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// newCacheStore returns a redis-backed store when configured, or an
// in-process one otherwise. A redis that cannot be reached at startup is
// logged and replaced by the in-process store.
func newCacheStore(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (cache.Store, func()) {
	if !cfg.Enabled() {
		return cache.NewMemoryStore(), func() {}
	}
	rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		log.Warnw("redis unavailable, using in-memory cache", "addr", cfg.Addr, "error", err)
		return cache.NewMemoryStore(), func() {}
	}
	log.Infow("redis cache enabled", "addr", cfg.Addr)
	return cache.NewRedisStore(rdb, ""), func() { _ = rdb.Close() }
}

// sweepIdempotencyKeys deletes expired idempotency keys until ctx is done.
func sweepIdempotencyKeys(ctx context.Context, store *postgres.IdempotencyStore, log *logger.Logger) {
	ticker := time.NewTicker(idempotencySweepAt)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.CleanupExpired(ctx)
			if err != nil {
				log.Warnw("idempotency cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				log.Debugw("expired idempotency keys removed", "count", n)
			}
		}
	}
}

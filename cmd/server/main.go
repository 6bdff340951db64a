package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	leasingapp "github.com/rentfolio/backend/internal/application/leasing"
	ledgerapp "github.com/rentfolio/backend/internal/application/ledger"
	paymentapp "github.com/rentfolio/backend/internal/application/payment"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/infrastructure/cache"
	"github.com/rentfolio/backend/internal/infrastructure/config"
	"github.com/rentfolio/backend/internal/infrastructure/event"
	"github.com/rentfolio/backend/internal/infrastructure/logger"
	"github.com/rentfolio/backend/internal/infrastructure/payment"
	"github.com/rentfolio/backend/internal/infrastructure/persistence"
	"github.com/rentfolio/backend/internal/interfaces/http/handler"
	"github.com/rentfolio/backend/internal/interfaces/http/middleware"
	"github.com/rentfolio/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting rentfolio backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Replay fast path: Redis when configured, in-memory otherwise. Losing
	// it is safe because the conditional status update is the durable guard.
	var replayStore shared.ReplayStore
	if cfg.Redis.Host != "" {
		redisStore, err := cache.NewRedisReplayStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory replay store", zap.Error(err))
			replayStore = cache.NewInMemoryReplayStore()
		} else {
			replayStore = redisStore
			log.Info("Redis replay store connected")
		}
	} else {
		replayStore = cache.NewInMemoryReplayStore()
	}
	defer func() {
		if err := replayStore.Close(); err != nil {
			log.Error("Error closing replay store", zap.Error(err))
		}
	}()

	eventBus := event.NewInMemoryEventBus(log)

	// Repositories
	entryRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	obligationRepo := persistence.NewGormObligationRepository(db.DB)
	advanceRepo := persistence.NewGormAdvancePaymentRepository(db.DB)
	leaseRepo := persistence.NewGormLeaseRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)
	leasingScope := persistence.NewGormLeasingScope(db.DB)

	// Payment provider adapter
	gatewayConfig := &payment.IntouchConfig{
		SiteID:        cfg.Gateway.SiteID,
		Secret:        cfg.Gateway.Secret,
		StatusURL:     cfg.Gateway.StatusURL,
		StatusTimeout: cfg.Gateway.StatusTimeout,
	}
	gateway, err := payment.NewIntouchAdapter(gatewayConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize payment gateway adapter", zap.Error(err))
	}

	// Application services
	ledgerService := ledgerapp.NewService(entryRepo, eventBus, log)
	obligationService := leasingapp.NewObligationService(obligationRepo, leaseRepo, log)
	advanceService := leasingapp.NewAdvancePaymentService(
		advanceRepo, obligationRepo, leaseRepo, leasingScope, ledgerService, eventBus, log, cfg.Advance.MinAmount)
	transactionService := paymentapp.NewTransactionService(
		transactionRepo, obligationRepo, leaseRepo, cfg.Gateway.Provider, cfg.Gateway.Currency,
		cfg.Advance.MinAmount, log)
	webhookService := paymentapp.NewWebhookService(
		gateway, transactionRepo, leaseRepo, txScope, ledgerService,
		replayStore, shared.ReplayConfig{TTL: cfg.Gateway.ReplayTTL, Enabled: true}, log)
	returnService := paymentapp.NewReturnService(gateway, transactionRepo, log)

	// Newly created advances trigger an allocation sweep over their lease
	eventBus.Subscribe(leasingapp.NewAdvanceCreatedHandler(advanceService, log), "AdvancePaymentCreated")

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewLedgerHandler(ledgerService))
	r.Register(handler.NewObligationHandler(obligationService))
	r.Register(handler.NewAdvancePaymentHandler(advanceService))
	r.Register(handler.NewPaymentHandler(transactionService))
	r.Register(handler.NewPaymentWebhookHandler(webhookService))
	r.Register(handler.NewPaymentReturnHandler(returnService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness of the service and its database
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}

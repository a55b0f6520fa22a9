package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fanstore/backend/internal/application/replenishment"
	appstock "github.com/fanstore/backend/internal/application/stock"
	appstore "github.com/fanstore/backend/internal/application/store"
	appwarehouse "github.com/fanstore/backend/internal/application/warehouse"
	"github.com/fanstore/backend/internal/infrastructure/auth"
	"github.com/fanstore/backend/internal/infrastructure/cache"
	"github.com/fanstore/backend/internal/infrastructure/collaborator"
	"github.com/fanstore/backend/internal/infrastructure/config"
	"github.com/fanstore/backend/internal/infrastructure/event"
	"github.com/fanstore/backend/internal/infrastructure/logger"
	"github.com/fanstore/backend/internal/infrastructure/persistence"
	"github.com/fanstore/backend/internal/interfaces/http/handler"
	"github.com/fanstore/backend/internal/interfaces/http/middleware"
	"github.com/fanstore/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// maxRequestBodyBytes caps incoming request bodies. The largest legitimate
// payload is a batched quantity lookup, far below this.
const maxRequestBodyBytes = 1 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.NewFromSettings(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service",
		zap.String("name", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	// Repositories
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	stockRecordRepo := persistence.NewGormStockRecordRepository(db.DB)
	stockMovementRepo := persistence.NewGormStockMovementRepository(db.DB)
	requestRepo := persistence.NewGormInventoryRequestRepository(db.DB)
	storeInventoryRepo := persistence.NewGormStoreInventoryRepository(db.DB)
	ledgerScope := persistence.NewGormLedgerTransactionScope(db.DB)

	// Idempotency store for transfer deduplication
	idempotencyStore, err := cache.NewIdempotencyStore(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize idempotency store", zap.Error(err))
	}
	defer func() { _ = idempotencyStore.Close() }()

	// In-process event bus with an audit trail of every domain event
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	// Application services
	warehouseService := appwarehouse.NewWarehouseService(warehouseRepo, stockRecordRepo, requestRepo)
	warehouseService.SetEventPublisher(eventBus)

	stockService := appstock.NewStockService(ledgerScope, stockRecordRepo, stockMovementRepo)
	stockService.SetEventPublisher(eventBus)

	transferService := appstock.NewTransferService(ledgerScope, warehouseRepo, idempotencyStore)
	transferService.SetEventPublisher(eventBus)

	requestService := replenishment.NewRequestService(requestRepo, warehouseRepo, ledgerScope)
	requestService.SetEventPublisher(eventBus)

	storeService := appstore.NewStoreInventoryService(storeInventoryRepo, warehouseRepo, stockRecordRepo)

	wireCollaborators(cfg, log, requestService, storeService)

	jwtService := auth.NewJWTService(cfg.JWT)

	engine := buildEngine(cfg, log, jwtService)

	router.NewRouter(engine).
		Register(handler.NewSystemHandler(db, cfg.App.Name)).
		Register(handler.NewWarehouseHandler(warehouseService)).
		Register(handler.NewStockHandler(stockService, transferService)).
		Register(handler.NewInventoryRequestHandler(requestService)).
		Register(handler.NewStoreInventoryHandler(storeService)).
		Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

// buildEngine assembles the gin engine with the shared middleware chain
func buildEngine(cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsCfg),
		middleware.Secure(),
		middleware.BodyLimit(maxRequestBodyBytes),
		middleware.JWTAuthMiddleware(jwtService),
	)
	return engine
}

// wireCollaborators attaches the optional HTTP collaborators. A missing
// base URL leaves the collaborator unset; the services degrade to
// skipping that check.
func wireCollaborators(cfg *config.Config, log *zap.Logger, requestService *replenishment.RequestService, storeService *appstore.StoreInventoryService) {
	timeout := cfg.Collaborator.RequestTimeout

	if cfg.Collaborator.CatalogBaseURL != "" {
		var opts []collaborator.CatalogClientOption
		if cfg.Collaborator.CatalogCacheEnabled {
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr(),
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			opts = append(opts, collaborator.WithCatalogCache(client, cfg.Collaborator.CatalogCacheTTL))
		}
		catalog := collaborator.NewCatalogClient(cfg.Collaborator.CatalogBaseURL, timeout, opts...)
		requestService.SetProductCatalog(catalog)
		storeService.SetProductNamer(catalog)
		log.Info("catalog collaborator enabled", zap.Bool("cache", cfg.Collaborator.CatalogCacheEnabled))
	}

	if cfg.Collaborator.StoreDirectoryBaseURL != "" {
		storeService.SetStoreDirectory(collaborator.NewStoreDirectoryClient(cfg.Collaborator.StoreDirectoryBaseURL, timeout))
		log.Info("store directory collaborator enabled")
	}

	if cfg.Collaborator.ShipmentBaseURL != "" {
		requestService.SetShipmentService(collaborator.NewShipmentClient(cfg.Collaborator.ShipmentBaseURL, timeout))
		log.Info("shipment collaborator enabled")
	}
}

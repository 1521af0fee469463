package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/bizledger/backend/internal/application/catalog"
	eventapp "github.com/bizledger/backend/internal/application/event"
	inventoryapp "github.com/bizledger/backend/internal/application/inventory"
	orgapp "github.com/bizledger/backend/internal/application/org"
	tradeapp "github.com/bizledger/backend/internal/application/trade"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/auth"
	"github.com/bizledger/backend/internal/infrastructure/cache"
	"github.com/bizledger/backend/internal/infrastructure/config"
	"github.com/bizledger/backend/internal/infrastructure/event"
	"github.com/bizledger/backend/internal/infrastructure/logger"
	"github.com/bizledger/backend/internal/infrastructure/notify"
	"github.com/bizledger/backend/internal/infrastructure/persistence"
	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"github.com/bizledger/backend/internal/interfaces/http/handler"
	"github.com/bizledger/backend/internal/interfaces/http/middleware"
	"github.com/bizledger/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//	@title			BizLedger API
//	@version		1.0
//	@description	Transactional document and stock ledger engine for multi-tenant trade operations

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting BizLedger Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Telemetry providers (no-op when disabled)
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()
	if cfg.Telemetry.SpanProfiles {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Error("Failed to enable span profiles", zap.Error(err))
		}
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logs provider", zap.Error(err))
	}
	defer func() {
		if err := logsProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logs provider", zap.Error(err))
		}
	}()

	// Mirror application logs to the collector alongside stdout
	if logsProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: logsProvider,
			Level:          zapcore.InfoLevel,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore,
			zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}

	// GORM logs through the same zap logger at a level derived from
	// the application log level
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Database observability: pool/query metrics plus otelgorm tracing
	if cfg.Telemetry.Enabled {
		dbMetricsCfg := telemetry.DefaultDBMetricsConfig()
		if _, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, dbMetricsCfg, log); err != nil {
			log.Warn("Failed to register database metrics", zap.Error(err))
		}

		dbTracingCfg := telemetry.DefaultDBTracingConfig()
		dbTracingCfg.Enabled = true
		dbTracingPlugin := telemetry.NewDBTracingPlugin(dbTracingCfg, log)
		if err := dbTracingPlugin.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	stockItemRepo := persistence.NewGormStockItemRepository(db.DB)
	stockMovementRepo := persistence.NewGormStockMovementRepository(db.DB)
	inspectionLotRepo := persistence.NewGormInspectionLotRepository(db.DB)
	salesInvoiceRepo := persistence.NewGormSalesInvoiceRepository(db.DB)
	purchaseInvoiceRepo := persistence.NewGormPurchaseInvoiceRepository(db.DB)
	returnRepo := persistence.NewGormReturnRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Transaction scope bundles the repositories that participate in
	// document workflows so each operation commits atomically
	txScope := persistence.NewGormTransactionScope(db.DB)

	// The serializer needs every event type registered before the
	// outbox processor can decode stored payloads
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Idempotency store: Redis when reachable, in-memory otherwise
	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
			idempotencyStore = cache.NewInMemoryIdempotencyStore()
		} else {
			idempotencyStore = redisStore
			log.Info("Redis idempotency store connected",
				zap.String("host", cfg.Redis.Host),
				zap.Int("port", cfg.Redis.Port),
			)
		}
	}
	idempotencyCfg := shared.IdempotencyConfig{
		TTL:     cfg.Idempotency.TTL,
		Enabled: cfg.Idempotency.Enabled,
	}

	eventBus := event.NewInMemoryEventBus(log)

	// Paid invoices trigger a customer receipt. The handler is wrapped so a
	// redelivered event is dropped before it reaches the receipt path.
	receiptSender := notify.NewLogReceiptSender(log)
	invoicePaidHandler := tradeapp.NewInvoicePaidHandler(receiptSender, log)
	var paidSubscriber shared.EventHandler = invoicePaidHandler
	if idempotencyStore != nil {
		paidSubscriber = event.NewIdempotentHandler(invoicePaidHandler, idempotencyStore, log,
			event.WithIdempotencyConfig(idempotencyCfg))
	}
	eventBus.Subscribe(paidSubscriber, paidSubscriber.EventTypes()...)
	log.Info("Event handlers registered",
		zap.Strings("invoice_paid_events", invoicePaidHandler.EventTypes()),
	)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor drains the outbox table into the event bus so events
	// written inside document transactions are eventually delivered
	if cfg.Event.ProcessorEnabled {
		processorCfg := event.DefaultOutboxProcessorConfig()
		processorCfg.BatchSize = cfg.Event.BatchSize
		processorCfg.PollInterval = cfg.Event.PollInterval
		processorCfg.CleanupEnabled = cfg.Event.CleanupEnabled
		processorCfg.CleanupRetention = cfg.Event.CleanupRetention
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorCfg, log)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorCfg.BatchSize),
			zap.Duration("poll_interval", processorCfg.PollInterval),
		)
	}

	// Application services
	productService := catalogapp.NewProductService(productRepo)
	branchService := orgapp.NewBranchService(branchRepo)
	warehouseService := orgapp.NewWarehouseService(warehouseRepo, branchRepo)
	inventoryService := inventoryapp.NewInventoryService(txScope, stockItemRepo, stockMovementRepo, inspectionLotRepo, productRepo)
	salesInvoiceService := tradeapp.NewSalesInvoiceService(txScope, salesInvoiceRepo, productRepo, warehouseRepo)
	purchaseInvoiceService := tradeapp.NewPurchaseInvoiceService(txScope, purchaseInvoiceRepo, productRepo, warehouseRepo, tradeapp.PurchasePolicy{
		ReceiveAdjustsStock: cfg.Purchase.ReceiveAdjustsStock,
	})
	returnService := tradeapp.NewReturnService(txScope, returnRepo, salesInvoiceRepo)
	transferService := tradeapp.NewTransferService(txScope, transferRepo, productRepo, warehouseRepo)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Inject event bus into services that publish events
	inventoryService.SetEventPublisher(eventBus)
	salesInvoiceService.SetEventPublisher(eventBus)
	purchaseInvoiceService.SetEventPublisher(eventBus)
	returnService.SetEventPublisher(eventBus)
	transferService.SetEventPublisher(eventBus)

	// Wire the idempotency store into document creation paths
	if idempotencyStore != nil {
		salesInvoiceService.SetIdempotencyStore(idempotencyStore, idempotencyCfg)
		purchaseInvoiceService.SetIdempotencyStore(idempotencyStore, idempotencyCfg)
		returnService.SetIdempotencyStore(idempotencyStore, idempotencyCfg)
		transferService.SetIdempotencyStore(idempotencyStore, idempotencyCfg)
	}

	// Business gauges: stock levels, low-stock and pending inspection counts
	var businessMetrics *telemetry.BusinessMetrics
	if cfg.Telemetry.Enabled && meterProvider.IsEnabled() {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:         meterProvider.Meter("bizledger.business"),
			Logger:        log,
			StockProvider: telemetry.NewGormStockMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			tenantProvider := telemetry.NewGormTenantProvider(db.DB)
			businessMetrics.StartPeriodicCollection(ctx, tenantProvider, 5*time.Minute)
			defer businessMetrics.Stop()
		}
	}

	// JWT validation service
	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	branchHandler := handler.NewBranchHandler(branchService)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	salesInvoiceHandler := handler.NewSalesInvoiceHandler(salesInvoiceService)
	purchaseInvoiceHandler := handler.NewPurchaseInvoiceHandler(purchaseInvoiceService)
	returnHandler := handler.NewReturnHandler(returnService)
	transferHandler := handler.NewTransferHandler(transferService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler()

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

	// Middleware order matters: request IDs must exist before the
	// logger runs, and tracing must wrap everything it should observe.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}

	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Liveness endpoint stays outside the versioned API
	engine.GET("/health", healthHandler(db, log))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication to API routes. In non-production environments
	// tokens are optional and handlers fall back to the X-Tenant-ID header.
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	if cfg.App.Env == "production" {
		engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	} else {
		engine.Use(middleware.OptionalJWTAuthMiddleware(jwtService))
	}

	// Tenant context resolution (JWT claims first, X-Tenant-ID header second)
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.Required = false
	tenantConfig.Logger = log
	engine.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	// Span annotation sits after auth so the JWT claims are available.
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.SpanAnnotator())
	}

	// Catalog domain (products)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.GET("/products/code/:code", productHandler.GetByCode)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.PUT("/products/:id/pricing", productHandler.UpdatePricing)
	catalogRoutes.PUT("/products/:id/custom-fields", productHandler.SetCustomFields)
	catalogRoutes.POST("/products/:id/activate", productHandler.Activate)
	catalogRoutes.POST("/products/:id/deactivate", productHandler.Deactivate)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)

	// Org domain (branches, warehouses)
	orgRoutes := router.NewDomainGroup("org", "/org")
	orgRoutes.POST("/branches", branchHandler.Create)
	orgRoutes.GET("/branches", branchHandler.List)
	orgRoutes.GET("/branches/:id", branchHandler.GetByID)
	orgRoutes.PUT("/branches/:id", branchHandler.Update)
	orgRoutes.GET("/branches/:id/warehouses", warehouseHandler.ListByBranch)
	orgRoutes.POST("/warehouses", warehouseHandler.Create)
	orgRoutes.GET("/warehouses", warehouseHandler.List)
	orgRoutes.GET("/warehouses/:id", warehouseHandler.GetByID)
	orgRoutes.PUT("/warehouses/:id", warehouseHandler.Update)
	orgRoutes.POST("/warehouses/:id/enable", warehouseHandler.Enable)
	orgRoutes.POST("/warehouses/:id/disable", warehouseHandler.Disable)

	// Inventory domain (stock ledger, adjustments, inspection lots)
	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.POST("/adjustments", inventoryHandler.Adjust)
	inventoryRoutes.GET("/warehouses/:warehouse_id", inventoryHandler.ListStockByWarehouse)
	inventoryRoutes.GET("/warehouses/:warehouse_id/low-stock", inventoryHandler.LowStockReport)
	inventoryRoutes.GET("/warehouses/:warehouse_id/products/:product_id", inventoryHandler.GetStock)
	inventoryRoutes.GET("/warehouses/:warehouse_id/products/:product_id/movements", inventoryHandler.ListMovements)
	inventoryRoutes.GET("/products/:product_id", inventoryHandler.ListStockByProduct)
	inventoryRoutes.GET("/documents/:document_id/movements", inventoryHandler.ListMovementsForDocument)
	inventoryRoutes.GET("/inspection-lots", inventoryHandler.ListPendingLots)
	inventoryRoutes.GET("/inspection-lots/:id", inventoryHandler.GetLot)
	inventoryRoutes.POST("/inspection-lots/:id/release", inventoryHandler.ReleaseLot)

	// Trade domain (sales, purchases, returns, transfers)
	tradeRoutes := router.NewDomainGroup("trade", "/trade")
	tradeRoutes.POST("/sales-invoices", salesInvoiceHandler.Create)
	tradeRoutes.GET("/sales-invoices", salesInvoiceHandler.List)
	tradeRoutes.GET("/sales-invoices/number/:number", salesInvoiceHandler.GetByNumber)
	tradeRoutes.GET("/sales-invoices/:id", salesInvoiceHandler.GetByID)
	tradeRoutes.DELETE("/sales-invoices/:id", salesInvoiceHandler.Delete)
	tradeRoutes.POST("/sales-invoices/:id/pay", salesInvoiceHandler.MarkPaid)
	tradeRoutes.POST("/sales-invoices/:id/cancel", salesInvoiceHandler.Cancel)

	tradeRoutes.POST("/purchase-invoices", purchaseInvoiceHandler.Create)
	tradeRoutes.GET("/purchase-invoices", purchaseInvoiceHandler.List)
	tradeRoutes.GET("/purchase-invoices/number/:number", purchaseInvoiceHandler.GetByNumber)
	tradeRoutes.GET("/purchase-invoices/:id", purchaseInvoiceHandler.GetByID)
	tradeRoutes.DELETE("/purchase-invoices/:id", purchaseInvoiceHandler.Delete)
	tradeRoutes.POST("/purchase-invoices/:id/receive", purchaseInvoiceHandler.MarkReceived)
	tradeRoutes.POST("/purchase-invoices/:id/cancel", purchaseInvoiceHandler.Cancel)

	tradeRoutes.POST("/returns", returnHandler.Create)
	tradeRoutes.GET("/returns", returnHandler.List)
	tradeRoutes.GET("/returns/number/:number", returnHandler.GetByNumber)
	tradeRoutes.GET("/returns/:id", returnHandler.GetByID)
	tradeRoutes.DELETE("/returns/:id", returnHandler.Delete)
	tradeRoutes.POST("/returns/:id/approve", returnHandler.Approve)
	tradeRoutes.POST("/returns/:id/refund", returnHandler.Refund)
	tradeRoutes.POST("/returns/:id/reject", returnHandler.Reject)

	tradeRoutes.POST("/transfers", transferHandler.Create)
	tradeRoutes.GET("/transfers", transferHandler.List)
	tradeRoutes.GET("/transfers/number/:number", transferHandler.GetByNumber)
	tradeRoutes.GET("/transfers/:id", transferHandler.GetByID)
	tradeRoutes.DELETE("/transfers/:id", transferHandler.Delete)
	tradeRoutes.POST("/transfers/:id/dispatch", transferHandler.Dispatch)
	tradeRoutes.POST("/transfers/:id/receive", transferHandler.Receive)
	tradeRoutes.POST("/transfers/:id/cancel", transferHandler.Cancel)

	// System domain (diagnostics, outbox operations)
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/outbox/dead", outboxHandler.GetDeadLetterEntries)
	systemRoutes.GET("/outbox/stats", outboxHandler.GetStats)
	systemRoutes.POST("/outbox/dead/retry-all", outboxHandler.RetryAllDeadEntries)
	systemRoutes.GET("/outbox/:id", outboxHandler.GetEntry)
	systemRoutes.POST("/outbox/:id/retry", outboxHandler.RetryDeadEntry)

	r.Register(catalogRoutes).
		Register(orgRoutes).
		Register(inventoryRoutes).
		Register(tradeRoutes).
		Register(systemRoutes)
	r.Setup()

	// Unauthenticated ping for load balancer checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Drain in-flight requests on SIGINT/SIGTERM before exiting
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}

// healthHandler reports liveness, including whether the database
// answers a ping.
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
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

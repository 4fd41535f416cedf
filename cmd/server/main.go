package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/facturo/backend/internal/application/catalog"
	chatapp "github.com/facturo/backend/internal/application/chat"
	companyapp "github.com/facturo/backend/internal/application/company"
	identityapp "github.com/facturo/backend/internal/application/identity"
	invoicingapp "github.com/facturo/backend/internal/application/invoicing"
	partnerapp "github.com/facturo/backend/internal/application/partner"
	printingapp "github.com/facturo/backend/internal/application/printing"
	subscriptionapp "github.com/facturo/backend/internal/application/subscription"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/auth"
	"github.com/facturo/backend/internal/infrastructure/cache"
	"github.com/facturo/backend/internal/infrastructure/config"
	"github.com/facturo/backend/internal/infrastructure/event"
	"github.com/facturo/backend/internal/infrastructure/logger"
	"github.com/facturo/backend/internal/infrastructure/persistence"
	"github.com/facturo/backend/internal/infrastructure/printing"
	"github.com/facturo/backend/internal/infrastructure/realtime"
	"github.com/facturo/backend/internal/infrastructure/storage"
	"github.com/facturo/backend/internal/infrastructure/telemetry"
	"github.com/facturo/backend/internal/interfaces/http/handler"
	"github.com/facturo/backend/internal/interfaces/http/middleware"
	"github.com/facturo/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Facturo API
//	@version		1.0
//	@description	Invoicing backend for small businesses: clients, products, invoices with FAC numbering, quotes, delivery notes and printable exports.

//	@contact.name	Facturo Support
//	@contact.email	support@facturo.fr

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry: traces, metrics, OTLP logs and continuous profiling
	telemetry.ServiceVersion = version
	tel := setupTelemetry(ctx, cfg, log)
	defer tel.shutdown(log)
	log = tel.logger

	log.Info("Starting Facturo backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database with zap-backed SQL logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.Open(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	instrumentDatabase(ctx, cfg, db, tel, log)
	log.Info("Database connected successfully")

	// Shared key-value store: Redis when reachable, memory otherwise
	store, redisClient, err := cache.NewStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing cache store", zap.Error(err))
		}
	}()

	var listCache shared.ListCache = shared.NoopListCache{}
	if cfg.Cache.Enabled {
		listCache = cache.NewListCache(store, cfg.Cache.ListTTL)
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	profileRepo := persistence.NewGormCompanyProfileRepository(db.DB)
	templateRepo := persistence.NewGormInvoiceTemplateRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	deliveryNoteRepo := persistence.NewGormDeliveryNoteRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	chatRepo := persistence.NewGormChatMessageRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	blobs, err := storage.NewBlobStore(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize blob store", zap.Error(err))
	}

	// Identity
	jwtService := auth.NewJWTService(cfg.JWT)
	roleCache := cache.NewRoleCache(userRepo, store, cfg.Cache.RoleTTL)
	authService := identityapp.NewAuthService(userRepo, roleCache, jwtService,
		auth.NewStoreTokenBlacklist(store),
		identityapp.AuthServiceConfig{AdminEmails: cfg.App.AdminEmails},
		log)

	// Application services
	clientService := partnerapp.NewClientService(clientRepo, listCache, log)
	supplierService := partnerapp.NewSupplierService(supplierRepo, listCache, log)
	productService := catalogapp.NewProductService(productRepo, listCache, log)
	profileService := companyapp.NewProfileService(profileRepo, blobs, cfg.Storage.MaxUploadSize, log)
	templateService := printingapp.NewTemplateService(templateRepo, listCache, log)

	invoicingCfg := invoicingapp.Config{
		StrictStatusTransitions: cfg.Invoicing.StrictStatusTransitions,
		NumberRetries:           cfg.Invoicing.NumberRetries,
		Location:                cfg.App.Location(),
	}
	invoiceService := invoicingapp.NewInvoiceService(txScope, invoiceRepo, clientRepo, profileRepo, listCache, invoicingCfg, log)
	documentService := invoicingapp.NewDocumentService(txScope, quoteRepo, deliveryNoteRepo, listCache, invoicingCfg, log)

	subscriptionService := subscriptionapp.NewService(subscriptionRepo, blobs, subscriptionapp.Config{
		DefaultPlanMonths: cfg.Subscription.DefaultPlanMonths,
		MaxUploadSize:     cfg.Storage.MaxUploadSize,
	}, log)
	chatService := chatapp.NewService(chatRepo, log)

	// Document rendering: HTML templates, PDF through headless Chrome
	templateEngine, err := printing.NewTemplateEngine()
	if err != nil {
		log.Fatal("Failed to load document templates", zap.Error(err))
	}
	var pdfRenderer printing.PDFRenderer = printing.DisabledRenderer{}
	if cfg.PDF.Enabled {
		pdfRenderer = printing.NewChromedpRenderer(printing.ChromedpConfigFrom(cfg.PDF, log))
	}
	defer func() {
		if err := pdfRenderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()
	exportService := printingapp.NewExportService(printingapp.ExportRepositories{
		Invoices:      invoiceRepo,
		Quotes:        quoteRepo,
		DeliveryNotes: deliveryNoteRepo,
		Clients:       clientRepo,
		Profiles:      profileRepo,
		Templates:     templateRepo,
	}, templateEngine, pdfRenderer, log)

	// Event bus and realtime fan-out. With Redis, every instance publishes
	// to the channel and the bridge delivers to the local hub.
	hub := realtime.NewHub(cfg.Realtime.MaxClients, log)
	var fanout realtime.Fanout = hub
	if redisClient != nil {
		bridge := realtime.NewRedisBridge(redisClient, cfg.Realtime.Channel, hub, log)
		fanout = bridge
		go func() {
			if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Realtime bridge stopped", zap.Error(err))
			}
		}()
	}

	eventBus := event.NewLocalBus(log)
	forwarder := realtime.NewForwarder(fanout, log)
	eventBus.Subscribe(forwarder, forwarder.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()
	log.Info("Event handlers registered", zap.Strings("realtime_events", forwarder.EventTypes()))

	clientService.SetEventPublisher(eventBus)
	supplierService.SetEventPublisher(eventBus)
	productService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	documentService.SetEventPublisher(eventBus)
	subscriptionService.SetEventPublisher(eventBus)
	chatService.SetEventPublisher(eventBus)

	if tel.meters.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:                tel.meters.Meter("facturo.business"),
			Logger:               log,
			SubscriptionProvider: telemetry.NewGormSubscriptionMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Business metrics disabled", zap.Error(err))
		} else {
			invoiceService.SetBusinessMetrics(businessMetrics)
			documentService.SetBusinessMetrics(businessMetrics)
			subscriptionService.SetBusinessMetrics(businessMetrics)
			businessMetrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
			defer businessMetrics.Stop()
		}
	}

	// HTTP handlers
	healthChecks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	handlers := router.Handlers{
		System:          handler.NewSystemHandler(version, healthChecks, log),
		Auth:            handler.NewAuthHandler(authService, log),
		Client:          handler.NewClientHandler(clientService, log),
		Supplier:        handler.NewSupplierHandler(supplierService, log),
		Product:         handler.NewProductHandler(productService, log),
		Template:        handler.NewTemplateHandler(templateService, log),
		CompanyProfile:  handler.NewCompanyProfileHandler(profileService, cfg.Storage.MaxUploadSize, log),
		Invoice:         handler.NewInvoiceHandler(invoiceService, documentService, log),
		DerivedDocument: handler.NewDerivedDocumentHandler(documentService, log),
		Document:        handler.NewDocumentHandler(exportService, log),
		Chat:            handler.NewChatHandler(chatService, log),
		Subscription:    handler.NewSubscriptionHandler(subscriptionService, cfg.Storage.MaxUploadSize, log),
		Realtime:        handler.NewRealtimeHandler(hub, cfg.Realtime.HeartbeatInterval, log),
	}

	// Set Gin mode based on environment
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

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Server span per route
	// 3. Recovery - Catch panics
	// 4. Logger - Log requests
	// 5. Metrics - Count and time requests
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if tel.meters.IsEnabled() {
		engine.Use(middleware.RequestMetrics(tel.meters.Meter("http.server"), log))
	}
	engine.Use(middleware.Secure(middleware.DefaultSecurityHeaders()))
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins, cfg.HTTP.CORSAllowMethods, cfg.HTTP.CORSAllowHeaders))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	guards := router.Guards{
		Auth: middleware.Auth(authService, log),
		StreamAuth: middleware.AuthWithConfig(middleware.AuthConfig{
			Authenticator:   authService,
			AllowQueryToken: true,
			Logger:          log,
		}),
		PostAuth: []gin.HandlerFunc{middleware.SpanEnricher()},
		Admin:    middleware.RequireAdmin(),
	}
	if cfg.Subscription.GateEnabled {
		guards.SubscriptionGate = middleware.SubscriptionGate(subscriptionService, log)
	} else {
		log.Warn("Subscription gate disabled, every signed-in user reaches the business routes")
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Stop()
		guards.AuthRateLimit = middleware.AuthRateLimit(authLimiter)
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		guards.PostAuth = append(guards.PostAuth, middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	router.RegisterAPI(engine, handlers, guards)
	router.RegisterDocs(engine, middleware.SwaggerProtection(middleware.SwaggerConfig{
		Enabled:     cfg.Swagger.Enabled,
		RequireAuth: cfg.Swagger.RequireAuth,
		AllowedIPs:  cfg.Swagger.AllowedIPs,
	}, guards.Auth))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}
	// SSE streams outlive WriteTimeout; they end when the hub closes
	srv.RegisterOnShutdown(hub.Close)

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

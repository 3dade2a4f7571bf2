package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	designerapp "github.com/labeldesk/backend/internal/application/designer"
	exportapp "github.com/labeldesk/backend/internal/application/export"
	"github.com/labeldesk/backend/internal/domain/designer/units"
	"github.com/labeldesk/backend/internal/infrastructure/cache"
	"github.com/labeldesk/backend/internal/infrastructure/config"
	"github.com/labeldesk/backend/internal/infrastructure/logger"
	"github.com/labeldesk/backend/internal/infrastructure/persistence"
	"github.com/labeldesk/backend/internal/infrastructure/rendering"
	"github.com/labeldesk/backend/internal/infrastructure/storage"
	"github.com/labeldesk/backend/internal/infrastructure/telemetry"
	"github.com/labeldesk/backend/internal/interfaces/http/handler"
	"github.com/labeldesk/backend/internal/interfaces/http/middleware"
	"github.com/labeldesk/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			LabelDesk API
//	@version		1.0
//	@description	Label and template designer backend: design persistence, interactive editing sessions, and export rendering

//	@contact.name	API Support
//	@contact.url	https://github.com/labeldesk/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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

	log.Info("Starting LabelDesk Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	designRepo := persistence.NewGormDesignRepository(db.DB)
	exportJobRepo := persistence.NewGormExportJobRepository(db.DB)

	// Symbol cache: Redis when available, in-memory otherwise
	var symbolCache cache.SymbolCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisSymbolCache(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		symbolCache = redisCache
		log.Info("Redis symbol cache enabled",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	} else {
		symbolCache = cache.NewInMemorySymbolCache()
	}
	defer func() {
		if err := symbolCache.Close(); err != nil {
			log.Error("Error closing symbol cache", zap.Error(err))
		}
	}()

	// Rendering pipeline shared by previews and exports
	profile := units.DefaultProfile()
	if cfg.Designer.MinSymbolRatio > 0 {
		profile.MinSymbolRatio = cfg.Designer.MinSymbolRatio
	}
	if cfg.Designer.MaxSymbolRatio > 0 {
		profile.MaxSymbolRatio = cfg.Designer.MaxSymbolRatio
	}

	symbolRenderer := rendering.NewSymbolRenderer(symbolCache, log)
	pipeline := rendering.NewPipeline(symbolRenderer, profile, log)
	rasterPDF := rendering.NewRasterPDFRenderer(pipeline, log)

	// Vector PDF needs a Chrome instance; exports fall back to the raster
	// backend when it is unavailable
	var vectorPDF rendering.PDFRenderer
	svgBuilder := rendering.NewSVGBuilder(symbolRenderer, profile, log)
	chromeRenderer, err := rendering.NewChromedpRenderer(&rendering.ChromedpConfig{
		DefaultTimeout: cfg.Export.RenderTimeout,
		RemoteURL:      cfg.Export.ChromeRemote,
		Headless:       true,
		DisableGPU:     true,
		NoSandbox:      !cfg.Export.ChromeSandbox,
		Logger:         log,
	}, svgBuilder)
	if err != nil {
		log.Warn("Vector PDF renderer unavailable, falling back to raster PDF", zap.Error(err))
	} else {
		vectorPDF = chromeRenderer
		defer func() {
			if err := chromeRenderer.Close(); err != nil {
				log.Error("Error closing Chrome renderer", zap.Error(err))
			}
		}()
	}

	// Artifact storage
	var artifactStorage exportapp.ArtifactStorage
	switch cfg.Storage.Provider {
	case "s3":
		s3Storage, err := storage.NewS3ArtifactStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		artifactStorage = s3Storage
		log.Info("S3 artifact storage enabled",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("region", cfg.Storage.Region),
		)
	default:
		artifactStorage = storage.NewStubArtifactStorage()
		log.Warn("Using in-memory artifact storage; exports do not survive restarts")
	}

	// Initialize application services
	designService := designerapp.NewDesignService(designRepo, log)
	sessionService := designerapp.NewSessionService(designRepo, pipeline, log,
		designerapp.WithSessionTTL(cfg.Session.TTL),
		designerapp.WithSweepInterval(cfg.Session.SweepInterval),
		designerapp.WithMaxSessionsPerTenant(cfg.Session.MaxPerTenant),
		designerapp.WithSessionHistoryLimit(cfg.Designer.HistoryLimit),
		designerapp.WithSessionGridSize(cfg.Designer.GridSizePercent),
	)
	exportService := exportapp.NewExportService(designRepo, exportJobRepo, pipeline, rasterPDF, vectorPDF, artifactStorage, log)

	// Background sweep of idle editing sessions
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	sessionService.StartSweeper(sweepCtx)

	// Initialize OpenTelemetry tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	designHandler := handler.NewDesignHandler(designService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	exportHandler := handler.NewExportHandler(exportService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. Tenant - Resolve the tenant from X-Tenant-ID
	// 8. Tracing - Emit spans for each request
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Tenant resolution
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.Logger = log
	engine.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	// Request tracing
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	r.Register(handler.DesignerRoutes(designHandler, sessionHandler)).
		Register(handler.ExportRoutes(exportHandler)).
		Register(handler.SystemRoutes(systemHandler))

	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
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

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/pharmacy/backend/internal/application/catalog"
	fulfillmentapp "github.com/pharmacy/backend/internal/application/fulfillment"
	reportapp "github.com/pharmacy/backend/internal/application/report"
	"github.com/pharmacy/backend/internal/infrastructure/config"
	"github.com/pharmacy/backend/internal/infrastructure/logger"
	"github.com/pharmacy/backend/internal/infrastructure/persistence"
	"github.com/pharmacy/backend/internal/interfaces/http/handler"
	"github.com/pharmacy/backend/internal/interfaces/http/middleware"
	"github.com/pharmacy/backend/internal/interfaces/http/router"
)

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

	log.Info("Starting Pharmacy Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
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
	productRepo := persistence.NewGormProductRepository(db.DB)
	patientRepo := persistence.NewGormPatientRepository(db.DB)
	prescriptionRepo := persistence.NewGormPrescriptionRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)

	// Fulfillment runs its reserve/record/collect sequence inside a
	// single database transaction
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo)
	patientService := catalogapp.NewPatientService(patientRepo)
	fulfillmentService := fulfillmentapp.NewFulfillmentService(
		txScope,
		fulfillmentapp.DispenseMode(cfg.Fulfillment.DefaultDispenseMode),
	)
	reportService := reportapp.NewReportService(productRepo, patientRepo, prescriptionRepo, movementRepo)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	patientHandler := handler.NewPatientHandler(patientService)
	prescriptionHandler := handler.NewPrescriptionHandler(fulfillmentService)
	reportHandler := handler.NewReportHandler(reportService)
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
	// 7. StaffContext - Extract acting staff member
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

	// Staff identity from X-Staff-ID header
	staffConfig := middleware.DefaultStaffConfig()
	staffConfig.Logger = log
	engine.Use(middleware.StaffContextWithConfig(staffConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Catalog domain (products, patients)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/code/:code", productHandler.GetByCode)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)
	catalogRoutes.GET("/products/:id/stock", productHandler.GetStock)
	catalogRoutes.POST("/products/:id/stock", productHandler.AdjustStock)

	catalogRoutes.POST("/patients", patientHandler.Create)
	catalogRoutes.GET("/patients", patientHandler.List)
	catalogRoutes.GET("/patients/:id", patientHandler.GetByID)
	catalogRoutes.PUT("/patients/:id", patientHandler.Update)
	catalogRoutes.DELETE("/patients/:id", patientHandler.Delete)

	// Fulfillment domain (prescriptions and dispensing)
	fulfillmentRoutes := router.NewDomainGroup("fulfillment", "/fulfillment")
	fulfillmentRoutes.POST("/prescriptions", prescriptionHandler.Create)
	fulfillmentRoutes.GET("/prescriptions", prescriptionHandler.List)
	fulfillmentRoutes.GET("/prescriptions/pending", prescriptionHandler.ListPending)
	fulfillmentRoutes.GET("/prescriptions/:id", prescriptionHandler.GetByID)
	fulfillmentRoutes.POST("/prescriptions/:id/dispense", prescriptionHandler.Dispense)
	fulfillmentRoutes.POST("/prescriptions/:id/cancel", prescriptionHandler.Cancel)
	fulfillmentRoutes.GET("/doctors/:doctor_id/prescriptions", prescriptionHandler.ListByDoctor)

	// Report domain (dashboard, movement audit)
	reportRoutes := router.NewDomainGroup("report", "/report")
	reportRoutes.GET("/dashboard", reportHandler.GetDashboardSummary)
	reportRoutes.GET("/movements", reportHandler.ListMovements)
	reportRoutes.GET("/products/:product_id/movements", reportHandler.ListMovementsByProduct)
	reportRoutes.GET("/prescriptions/:prescription_id/movements", reportHandler.ListMovementsByPrescription)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(catalogRoutes).
		Register(fulfillmentRoutes).
		Register(reportRoutes).
		Register(systemRoutes)
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
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

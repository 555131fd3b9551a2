package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jaideep-27/insightwiz/internal/ai"
	"github.com/jaideep-27/insightwiz/internal/api/handlers"
	"github.com/jaideep-27/insightwiz/internal/api/middleware"
	"github.com/jaideep-27/insightwiz/internal/api/routes"
	"github.com/jaideep-27/insightwiz/internal/domain/analytics"
	"github.com/jaideep-27/insightwiz/internal/domain/user"
	"github.com/jaideep-27/insightwiz/internal/infrastructure/cache"
	"github.com/jaideep-27/insightwiz/internal/infrastructure/persistence/postgres/connection"
	"github.com/jaideep-27/insightwiz/internal/infrastructure/persistence/postgres/migrations"
	"github.com/jaideep-27/insightwiz/internal/infrastructure/scheduler"
	"github.com/jaideep-27/insightwiz/internal/ml"
	"github.com/jaideep-27/insightwiz/pkg/config"
	"github.com/jaideep-27/insightwiz/pkg/logger"
	"github.com/jaideep-27/insightwiz/pkg/security/auth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("") // Empty string will make it search in default locations
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync()

	log.Info("Configuration loaded successfully")
	log.Info("Server mode: " + cfg.Server.Mode)

	// Set up Gin
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	gin.DefaultWriter = os.Stdout

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: cfg.CORS.AllowedMethods,
		AllowHeaders: append(cfg.CORS.AllowedHeaders,
			"Accept-Encoding",
			"Content-Encoding",
			"Content-Type",
			"Authorization",
		),
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Encoding",
			"Content-Type",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Connect to database
	db, err := connection.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if err := migrations.AutoMigrate(db, log.Logger); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize Redis. The API keeps serving without a cache, so a
	// connection failure downgrades to a warning.
	var redisClient *cache.RedisClient
	redisConfig := cache.NewConfigFromEnv(cfg)
	redisClient, err = cache.NewRedisClient(redisConfig)
	if err != nil {
		log.Warn("Redis unavailable, running without cache and rate limiting", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Initialize logrus logger for the AI and ML clients
	clientLogger := logrus.New()
	clientLogger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Server.Mode == "production" {
		clientLogger.SetLevel(logrus.InfoLevel)
	} else {
		clientLogger.SetLevel(logrus.DebugLevel)
	}

	// Initialize repositories
	userRepo := user.NewRepository(db)
	analyticsRepo := analytics.NewRepository(db)

	// Initialize services and clients
	userService := user.NewService(userRepo, log.Logger)
	var publisher analytics.EventPublisher
	if redisClient != nil {
		publisher = redisClient
	}
	analyticsService := analytics.NewService(analyticsRepo, publisher, log.Logger)
	aiClient := ai.NewClient(cfg.Gemini, clientLogger)
	mlClient := ml.NewClient(cfg.ML, clientLogger)

	if !aiClient.IsConfigured() {
		log.Warn("Gemini API key not configured, AI responses will use fallbacks")
	}

	// Initialize and start the snapshot scheduler
	snapshotScheduler := scheduler.NewScheduler(analyticsService, log)
	snapshotScheduler.Start()
	log.Info("Snapshot scheduler started successfully")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, cfg.Auth, log.Logger)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, log.Logger)
	dashboardHandler := handlers.NewDashboardHandler(analyticsService, redisClient, log.Logger)
	geminiHandler := handlers.NewGeminiHandler(aiClient, log.Logger)
	mlHandler := handlers.NewMLHandler(mlClient, aiClient, analyticsService, log.Logger)
	adminHandler := handlers.NewAdminHandler(analyticsService, log.Logger)

	// Health check routes (no /api prefix as these are system endpoints)
	healthRoutes := routes.NewHealthRoutes(db, redisClient)
	healthRoutes.RegisterRoutes(router)
	log.Info("Registered health check routes at /health")

	// Apply rate limiting middleware globally when Redis is available.
	// 100 requests per 15 minutes per client.
	if redisClient != nil {
		rateLimiter := auth.NewRedisRateLimiter(redisClient.GetClient(), 15*time.Minute, 100)
		router.Use(middleware.RateLimitMiddleware(rateLimiter))
	}

	// Auth routes (register/login public, profile protected)
	authRoutes := routes.NewAuthRoutes(authHandler, cfg.Auth.JWTSecret)
	authRoutes.RegisterRoutes(router)
	log.Info("Registered auth routes at /api/auth")

	// Analytics routes (protected)
	analyticsRoutes := routes.NewAnalyticsRoutes(analyticsHandler, dashboardHandler, cfg.Auth.JWTSecret)
	analyticsRoutes.RegisterRoutes(router)
	log.Info("Registered analytics routes at /api/analytics")

	// Gemini routes (protected)
	geminiRoutes := routes.NewGeminiRoutes(geminiHandler, cfg.Auth.JWTSecret)
	geminiRoutes.RegisterRoutes(router)
	log.Info("Registered gemini routes at /api/gemini")

	// ML routes (protected)
	mlRoutes := routes.NewMLRoutes(mlHandler, cfg.Auth.JWTSecret)
	mlRoutes.RegisterRoutes(router)
	log.Info("Registered ml routes at /api/ml")

	// Admin routes
	adminRoutes := routes.NewAdminRoutes(adminHandler)
	adminRoutes.RegisterRoutes(router)
	log.Info("Registered admin routes at /api/admin")

	// Start server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited properly")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mssola/user_agent"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/skytrails/airline-reservation-backend/internal/config"
	"github.com/skytrails/airline-reservation-backend/internal/database"
	"github.com/skytrails/airline-reservation-backend/internal/handlers"
	"github.com/skytrails/airline-reservation-backend/internal/middleware"
	"github.com/skytrails/airline-reservation-backend/internal/services"
	"github.com/skytrails/airline-reservation-backend/pkg/jwt"
	"github.com/skytrails/airline-reservation-backend/pkg/notify"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SkyTrails Airline Reservation Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize flight search cache (optional)
	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := cache.Ping(context.Background()).Err(); err != nil {
			logger.WithError(err).Warn("Redis unreachable, flight search cache disabled")
			cache = nil
		} else {
			logger.Info("Flight search cache connected")
		}
	}

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	notifier := notify.NewLogSender(logger)
	gateway := services.NewSimulatedGateway(logger)
	allocator := services.NewSeatAllocator()

	bookingService := services.NewBookingService(db, gateway, allocator, notifier, logger)
	flightService := services.NewFlightService(db, cache, cfg.Redis.CacheTTL, logger)
	authService := services.NewAuthService(database.NewUserRepository(db), jwtService, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	flightHandler := handlers.NewFlightHandler(flightService, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	router.Use(rateLimiter.Middleware())

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Flight routes (public search, admin status management)
		flights := v1.Group("/flights")
		{
			flights.GET("", flightHandler.Search)
			flights.GET("/:id", flightHandler.GetFlight)

			flightsAdmin := flights.Group("")
			flightsAdmin.Use(middleware.AuthMiddleware(jwtService), middleware.RequireRole("admin"))
			{
				flightsAdmin.PATCH("/:id/status", flightHandler.UpdateStatus)
			}
		}

		// Order routes (all protected)
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthMiddleware(jwtService))
		{
			orders.POST("", bookingHandler.BookFlight)
			orders.GET("", bookingHandler.ListOrders)
			orders.GET("/:id", bookingHandler.GetOrder)
			orders.DELETE("/:id", bookingHandler.CancelOrder)
			orders.POST("/:id/payment", bookingHandler.ConfirmPayment)
			orders.POST("/:id/seat", bookingHandler.SelectSeat)
			orders.POST("/:id/refund", bookingHandler.RequestRefund)
			orders.POST("/:id/reschedule", bookingHandler.Reschedule)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	if cache != nil {
		cache.Close()
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
		}

		// Client fingerprint for audit trails
		if rawUA := c.Request.UserAgent(); rawUA != "" {
			ua := user_agent.New(rawUA)
			browser, browserVersion := ua.Browser()
			fields["client_os"] = ua.OS()
			fields["client_browser"] = fmt.Sprintf("%s %s", browser, browserVersion)
			fields["client_mobile"] = ua.Mobile()
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
			fields["role"] = userCtx.Role
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}

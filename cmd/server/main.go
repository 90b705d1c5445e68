package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gatewise/vms-backend/internal/config"
	"github.com/gatewise/vms-backend/internal/database"
	"github.com/gatewise/vms-backend/internal/handlers"
	"github.com/gatewise/vms-backend/internal/middleware"
	"github.com/gatewise/vms-backend/internal/mirror"
	"github.com/gatewise/vms-backend/internal/services"
	"github.com/gatewise/vms-backend/internal/store"
	"github.com/gatewise/vms-backend/pkg/jwt"
	"github.com/gatewise/vms-backend/pkg/mailer"
	"github.com/gatewise/vms-backend/pkg/ocr"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
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

	logger.Info("Starting GateWise Visitor Management Backend")
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

	// Select the mirror backend. The in-memory store stays authoritative
	// either way; the mirror is a best-effort replica for restarts.
	backend, cleanup, err := buildMirrorBackend(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize mirror backend: %v", err)
	}
	defer cleanup()

	mir := mirror.New(backend, logger)

	// Hydrate the store from the mirror before serving traffic
	st := store.New()
	st.HydrateFrom(mir, logger)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	mailGateway := buildMailGateway(cfg, logger)
	notifier := services.NewNotifier(mailGateway, logger)

	ocrClient := ocr.NewClient(ocr.Config{
		Endpoint: cfg.OCR.Endpoint,
		Timeout:  cfg.OCR.Timeout,
	})

	auditService := services.NewAuditService(st, mir, logger)
	blacklistService := services.NewBlacklistService(st, mir, logger)
	registrationService := services.NewRegistrationService(st, mir, blacklistService, notifier, logger)
	approvalService := services.NewApprovalService(st, mir, notifier, logger)
	vipService := services.NewVipService(st, mir, logger)
	authService := services.NewAuthService(cfg.Auth, logger)
	accessService := services.NewAccessService(
		st,
		mir,
		auditService,
		time.Duration(cfg.Scan.CooldownSeconds)*time.Second,
		logger,
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, auditService, jwtService, logger)
	visitorHandler := handlers.NewVisitorHandler(registrationService, approvalService, ocrClient, st, logger)
	scanHandler := handlers.NewScanHandler(accessService, auditService, logger)
	blacklistHandler := handlers.NewBlacklistHandler(blacklistService, logger)
	vipHandler := handlers.NewVipHandler(vipService, logger)
	logsHandler := handlers.NewLogsHandler(st, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

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
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
			"mirror":  cfg.Mirror.Driver,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		register := v1.Group("/register")
		{
			register.POST("", visitorHandler.Register)
			register.POST("/precheck", visitorHandler.Precheck)
			register.POST("/extract-id", visitorHandler.ExtractID)
			register.GET("/:code/status", visitorHandler.Status)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService))
		{
			visitors := protected.Group("/visitors")
			{
				visitors.GET("", visitorHandler.List)
				visitors.GET("/:id", visitorHandler.Get)
				visitors.POST("/:id/approve", visitorHandler.Approve)
				visitors.POST("/:id/reject", visitorHandler.Reject)
			}

			scan := protected.Group("/scan")
			{
				scan.POST("/qr", scanHandler.ScanQR)
				scan.POST("/lpr", scanHandler.LPREvent)
				scan.POST("/override", scanHandler.Override)
			}

			blacklist := protected.Group("/blacklist")
			{
				blacklist.GET("", blacklistHandler.List)
				blacklist.POST("", blacklistHandler.Create)
				blacklist.POST("/:id/unban", blacklistHandler.Unban)
			}

			vips := protected.Group("/vips")
			{
				vips.GET("", vipHandler.List)
				vips.POST("", vipHandler.Create)
				vips.PUT("/:id", vipHandler.Update)
				vips.POST("/:id/deactivate", vipHandler.Deactivate)
			}

			logs := protected.Group("/logs")
			{
				logs.GET("/access", logsHandler.AccessLogs)
				logs.GET("/lpr", logsHandler.LPRLogs)
				logs.GET("/scans", logsHandler.ScanRecords)
				logs.GET("/scans/:plate", logsHandler.ScanRecord)
			}
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

	// Drain pending background work before exiting
	notifier.Close()
	mir.Close()

	logger.Info("Server exited successfully")
}

// buildMirrorBackend selects the configured mirror driver. The cleanup
// function closes whatever connection the driver holds.
func buildMirrorBackend(cfg *config.Config, logger *logrus.Logger) (mirror.Backend, func(), error) {
	switch cfg.Mirror.Driver {
	case "postgres":
		logger.Info("Connecting to Postgres mirror...")
		db, err := database.NewConnection(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}

		docs := database.NewDocumentStore(db)
		if err := docs.EnsureSchema(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}

		logger.Info("Postgres mirror ready")
		return mirror.NewPostgresBackend(docs), func() { db.Close() }, nil

	case "redis":
		logger.Info("Connecting to Redis mirror...")
		backend, err := mirror.NewRedisBackend(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}

		logger.Info("Redis mirror ready")
		return backend, func() { backend.Close() }, nil

	default:
		logger.Warn("Mirror disabled; state will not survive a restart")
		return mirror.NewNoopBackend(), func() {}, nil
	}
}

// buildMailGateway returns the relay client, or a warning stub when no
// relay endpoint is configured.
func buildMailGateway(cfg *config.Config, logger *logrus.Logger) mailer.Gateway {
	if cfg.Mail.Endpoint == "" {
		return mailer.NewNoopGateway(func() {
			logger.Warn("Mail relay not configured; notification emails are dropped")
		})
	}
	return mailer.NewRelayGateway(mailer.RelayConfig{
		Endpoint: cfg.Mail.Endpoint,
		From:     cfg.Mail.From,
		Timeout:  cfg.Mail.Timeout,
	})
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
			"user_agent": c.Request.UserAgent(),
		}

		if user, exists := middleware.GetUserContext(c); exists {
			fields["username"] = user.Username
		}

		entry := logger.WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("Request completed")
		case c.Writer.Status() >= 400:
			entry.Warn("Request completed")
		default:
			entry.Info("Request completed")
		}
	}
}

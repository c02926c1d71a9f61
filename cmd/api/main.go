// @title           Project Tracker API
// @version         1.0
// @description     Projects, tasks, bugs, comments, attachments and team performance

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"project-tracker-api/docs"
	"project-tracker-api/internal/client"
	"project-tracker-api/internal/config"
	"project-tracker-api/internal/database"
	"project-tracker-api/internal/job"
	"project-tracker-api/internal/metrics"
	"project-tracker-api/internal/notification"
	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/router"
	"project-tracker-api/internal/service"
	"project-tracker-api/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Project Tracker",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	// Initialize database
	db, err := database.ConnectWithRetry(database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, 5, 5*time.Second, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	if err := database.SafeAutoMigrate(db, logger); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize metrics
	m := metrics.New()
	database.RegisterMetricsCallbacks(db, m)
	dbStatsDone := database.StartDBStatsCollector(db, m, 15*time.Second)
	collector := metrics.NewBusinessMetricsCollector(db, m, logger, 60*time.Second)
	collector.Start()
	logger.Info("Metrics initialized")

	// Redis is optional: without it notifications are stored but not pushed live,
	// and performance reports are cached in process
	rdb, err := database.InitRedis(cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis unavailable, live notifications disabled", zap.Error(err))
		rdb = nil
	}

	// Attachment storage
	store, err := initStore(cfg, m)
	if err != nil {
		logger.Fatal("Failed to initialize attachment storage", zap.Error(err))
	}

	var (
		publisher  notification.Publisher
		subscriber notification.Subscriber
		cache      service.ReportCache
	)
	if rdb != nil {
		broker := notification.NewRedisBroker(rdb, m)
		publisher = broker
		subscriber = broker
		cache = service.NewRedisReportCache(rdb, cfg.Performance.CacheTTL, m)
	} else {
		cache = service.NewMemoryReportCache(cfg.Performance.CacheTTL)
	}

	dispatcher := notification.NewDispatcher(repository.NewNotificationRepository(db), publisher, m, logger)
	performanceService := service.NewPerformanceService(
		repository.NewPerformanceRepository(db),
		repository.NewUserRepository(db),
		cache,
		logger,
	)

	// Background refresh of the team performance reports
	scheduler := job.NewScheduler(logger)
	snapshotJob := job.NewPerformanceSnapshotJob(performanceService, logger)
	if _, err := job.Schedule(scheduler, cfg.Performance.SnapshotSpec, snapshotJob); err != nil {
		logger.Fatal("Failed to schedule performance snapshot job", zap.Error(err))
	}
	scheduler.Start()
	go snapshotJob.Run()
	logger.Info("Performance snapshot job scheduled", zap.String("spec", cfg.Performance.SnapshotSpec))

	// Swagger docs follow the configured base path
	docs.SwaggerInfo.BasePath = cfg.Server.BasePath

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		DB:             db,
		Logger:         logger,
		JWTSecret:      cfg.JWT.Secret,
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        m,
		Store:          store,
		Redis:          rdb,
		Dispatcher:     dispatcher,
		Subscriber:     subscriber,
		Performance:    performanceService,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Project Tracker started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s%s/swagger/index.html", cfg.Server.Port, cfg.Server.BasePath)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	<-scheduler.Stop().Done()
	collector.Stop()
	close(dbStatsDone)
	closeRedis(rdb, logger)
	if err := database.Close(db); err != nil {
		logger.Error("Failed to close database", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initStore builds the attachment store selected by storage.driver
func initStore(cfg *config.Config, m *metrics.Metrics) (storage.Store, error) {
	if cfg.Storage.Driver == "s3" {
		s3Client, err := client.NewS3Client(&cfg.S3)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(s3Client.WithRecorder(m)), nil
	}
	return storage.NewLocalStore(cfg.Storage.LocalRoot)
}

func closeRedis(rdb *redis.Client, logger *zap.Logger) {
	if rdb == nil {
		return
	}
	if err := rdb.Close(); err != nil {
		logger.Warn("Failed to close redis client", zap.Error(err))
	}
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

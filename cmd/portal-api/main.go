package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	v1 "carbon-scribe/agro-carbon/agro-carbon-backend/api/v1"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/config"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/database"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/reports/dashboard"
	"carbon-scribe/agro-carbon/agro-carbon-backend/pkg/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to a JSON or YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	code := exitStatus(logger, run(cfg, logger))
	_ = logger.Sync()
	os.Exit(code)
}

// exitStatus logs the outcome of run and maps it to a process exit code.
// Fatal is not used here because it exits before logger.Sync runs.
func exitStatus(logger *zap.Logger, err error) int {
	if err != nil {
		logger.Error("Server failed", zap.Error(err))
		return 1
	}
	logger.Info("Server exiting")
	return 0
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.Connect(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(logger); err != nil {
			return err
		}
	}

	cache, closeCache, err := newCache(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	// nil keeps archiving disabled
	var store storage.S3Client
	if cfg.Storage.Enabled() {
		store, err = storage.NewS3Client(ctx, storage.S3Config{
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
		})
		if err != nil {
			return err
		}
		logger.Info("Report archive enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	api := v1.Setup(v1.Dependencies{
		DB:     db,
		Cache:  cache,
		Store:  store,
		Config: cfg,
		Logger: logger,
	})
	defer api.Close()

	// Setup Router
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), v1.CORS())
	api.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		// hijacked websocket connections are not tracked by Shutdown
		api.Events.Close()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newCache picks Redis when an address is configured, process memory otherwise
func newCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (dashboard.Cache, func(), error) {
	if cfg.RedisAddr == "" {
		cache := dashboard.NewAggregateCache(cfg.TTL)
		return cache, cache.Stop, nil
	}

	cache := dashboard.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
	if err := cache.Ping(ctx); err != nil {
		cache.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("Dashboard cache using redis", zap.String("addr", cfg.RedisAddr))
	return cache, func() { cache.Close() }, nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()))
	}
}

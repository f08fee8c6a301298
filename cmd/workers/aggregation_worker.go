package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/config"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/database"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/reports/dashboard"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/scenarios"
)

// Refresher recomputes and stores the dashboard summary
type Refresher interface {
	Refresh(ctx context.Context) (*dashboard.Summary, error)
}

// AggregationWorker refreshes the shared dashboard summary on a cron schedule
type AggregationWorker struct {
	refresher Refresher
	logger    *zap.Logger
	config    AggregationWorkerConfig
	cron      *cron.Cron

	mu      sync.Mutex
	running bool
}

// AggregationWorkerConfig configuration for the aggregation worker
type AggregationWorkerConfig struct {
	Schedule       string
	RefreshTimeout time.Duration
}

// DefaultAggregationWorkerConfig returns default configuration
func DefaultAggregationWorkerConfig() AggregationWorkerConfig {
	return AggregationWorkerConfig{
		Schedule:       "@every 5m",
		RefreshTimeout: time.Minute,
	}
}

// NewAggregationWorker creates a new aggregation worker
func NewAggregationWorker(refresher Refresher, logger *zap.Logger, config AggregationWorkerConfig) *AggregationWorker {
	return &AggregationWorker{
		refresher: refresher,
		logger:    logger,
		config:    config,
		cron:      cron.New(),
	}
}

// Start refreshes once, schedules the job and blocks until ctx is done
func (w *AggregationWorker) Start(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.config.Schedule, func() { w.refresh(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule dashboard refresh: %w", err)
	}

	w.logger.Info("Starting aggregation worker", zap.String("schedule", w.config.Schedule))

	w.refresh(ctx)
	w.cron.Start()

	<-ctx.Done()
	w.logger.Info("Aggregation worker shutting down")

	// wait for a refresh in flight
	<-w.cron.Stop().Done()
	return nil
}

// refresh skips the run when the previous one is still going
func (w *AggregationWorker) refresh(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		w.logger.Warn("Previous dashboard refresh still running, skipping")
		return
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	if ctx.Err() != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, w.config.RefreshTimeout)
	defer cancel()

	start := time.Now()
	summary, err := w.refresher.Refresh(ctx)
	if err != nil {
		w.logger.Error("Failed to refresh dashboard", zap.Error(err))
		return
	}

	w.logger.Info("Dashboard aggregate refreshed",
		zap.Int("scenarios", summary.ScenarioCount),
		zap.Float64("total_credits", summary.TotalCredits),
		zap.Duration("duration", time.Since(start)))
}

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

// exitStatus logs the outcome of run and maps it to a process exit code
func exitStatus(logger *zap.Logger, err error) int {
	if err != nil {
		logger.Error("Aggregation worker failed", zap.Error(err))
		return 1
	}
	logger.Info("Aggregation worker stopped")
	return 0
}

func run(cfg *config.Config, logger *zap.Logger) error {
	// A process-local cache would never be read by the API
	if cfg.Cache.RedisAddr == "" {
		return errors.New("aggregation worker requires cache.redis_addr")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	cache := dashboard.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.Cache.TTL)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	scenarioService := scenarios.NewService(scenarios.NewRepository(db.Gorm), logger.Named("scenarios"), cfg.Pricing.CreditPrice)
	service := dashboard.NewService(scenarioService, cache, logger.Named("dashboard"))

	workerConfig := DefaultAggregationWorkerConfig()
	if cfg.Workers.DashboardRefresh != "" {
		workerConfig.Schedule = cfg.Workers.DashboardRefresh
	}
	worker := NewAggregationWorker(service, logger, workerConfig)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Start(gctx)
	})
	return g.Wait()
}

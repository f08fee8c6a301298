package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/scenarios"
)

// ScenarioLister reads every saved scenario
type ScenarioLister interface {
	ListScenarios(ctx context.Context) ([]scenarios.Scenario, error)
}

// Service serves the dashboard summary from cache, recomputing on miss
type Service struct {
	scenarios ScenarioLister
	cache     Cache
	logger    *zap.Logger
	now       func() time.Time

	// generation counts scenario events; a summary computed under an older
	// generation is returned but never cached
	mu         sync.Mutex
	generation uint64
}

// NewService creates a dashboard service
func NewService(lister ScenarioLister, cache Cache, logger *zap.Logger) *Service {
	return &Service{
		scenarios: lister,
		cache:     cache,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Summary returns the cached summary or computes and caches a new one.
// Cache failures are logged and never fail the request.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	cached, ok, err := s.cache.GetSummary(ctx)
	if err != nil {
		s.logger.Warn("Dashboard cache read failed", zap.Error(err))
	}
	if ok {
		return cached, nil
	}

	gen := s.currentGeneration()
	summary, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store(ctx, gen, summary); err != nil {
		s.logger.Warn("Dashboard cache write failed", zap.Error(err))
	}
	return summary, nil
}

// Refresh recomputes the summary and stores it
func (s *Service) Refresh(ctx context.Context) (*Summary, error) {
	gen := s.currentGeneration()
	summary, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store(ctx, gen, summary); err != nil {
		return nil, fmt.Errorf("failed to cache summary: %w", err)
	}

	s.logger.Info("Dashboard refreshed",
		zap.Int("scenarios", summary.ScenarioCount),
		zap.Float64("total_credits", summary.TotalCredits))
	return summary, nil
}

// HandleScenarioEvent drops the cached summary after any scenario change
func (s *Service) HandleScenarioEvent(ctx context.Context, event scenarios.Event) {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Dashboard cache invalidation failed",
			zap.String("event", string(event.Type)),
			zap.Error(err))
	}
}

func (s *Service) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// store caches summary unless a scenario event arrived after gen was read.
// The check and the write share the lock with the event counter, so any
// write that passes the check lands before the matching invalidation.
func (s *Service) store(ctx context.Context, gen uint64, summary *Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		s.logger.Debug("Skipping stale dashboard summary",
			zap.Uint64("computed_at_generation", gen),
			zap.Uint64("generation", s.generation))
		return nil
	}
	return s.cache.SetSummary(ctx, summary)
}

func (s *Service) compute(ctx context.Context) (*Summary, error) {
	list, err := s.scenarios.ListScenarios(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	snapshots := make([]ScenarioSnapshot, 0, len(list))
	for i := range list {
		snapshots = append(snapshots, Snapshot(&list[i]))
	}
	return Summarize(snapshots, s.now()), nil
}

// Snapshot converts a saved scenario for aggregation
func Snapshot(sc *scenarios.Scenario) ScenarioSnapshot {
	return ScenarioSnapshot{
		ID:             sc.ID,
		Name:           sc.Name,
		CalculatedAt:   sc.CalculatedAt,
		Input:          sc.Input(),
		Result:         sc.CreditResult(),
		EstimatedValue: sc.EstimatedValue,
	}
}

// Handler serves the dashboard endpoint
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a dashboard handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers dashboard routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.getSummary)
}

// getSummary handles GET /api/v1/dashboard; ?refresh=true bypasses the cache
func (h *Handler) getSummary(c *gin.Context) {
	get := h.service.Summary
	if refresh, _ := strconv.ParseBool(c.Query("refresh")); refresh {
		get = h.service.Refresh
	}

	summary, err := get(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to build dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

package scenarios

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
)

// EventSink receives scenario events after they are committed
type EventSink interface {
	HandleScenarioEvent(ctx context.Context, event Event)
}

// EventSinkFunc adapts a function to EventSink
type EventSinkFunc func(ctx context.Context, event Event)

// HandleScenarioEvent implements EventSink
func (f EventSinkFunc) HandleScenarioEvent(ctx context.Context, event Event) {
	f(ctx, event)
}

// Service handles scenario business logic
type Service struct {
	repo   Repository
	logger *zap.Logger
	price  float64

	mu    sync.RWMutex
	sinks []EventSink
}

// NewService creates a scenario service. price is the credit price used for
// the estimated value of new scenarios.
func NewService(repo Repository, logger *zap.Logger, price float64) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		price:  price,
	}
}

// Subscribe registers a sink for scenario events
func (s *Service) Subscribe(sink EventSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

func (s *Service) publish(ctx context.Context, event Event) {
	event.OccurredAt = time.Now().UTC()

	s.mu.RLock()
	sinks := make([]EventSink, len(s.sinks))
	copy(sinks, s.sinks)
	s.mu.RUnlock()

	for _, sink := range sinks {
		sink.HandleScenarioEvent(ctx, event)
	}
}

// CreateScenario calculates credits for the request and saves the result
func (s *Service) CreateScenario(ctx context.Context, req CreateRequest) (*Scenario, error) {
	in := req.CreditInput()
	if !in.HasArea() {
		return nil, ErrNoArea
	}

	result := calculation.ComputeCredits(in)
	scenario := NewScenario(req.Name, in, result, s.price)

	if err := s.repo.Create(ctx, scenario); err != nil {
		s.logger.Error("Failed to save scenario", zap.String("name", scenario.Name), zap.Error(err))
		return nil, fmt.Errorf("failed to save scenario: %w", err)
	}

	s.logger.Info("Scenario saved",
		zap.String("scenario_id", scenario.ID.String()),
		zap.String("name", scenario.Name),
		zap.Float64("total_credits", scenario.TotalCredits))

	s.publish(ctx, Event{Type: EventCreated, ScenarioID: &scenario.ID, Scenario: scenario})

	return scenario, nil
}

// GetScenario returns a scenario by id
func (s *Service) GetScenario(ctx context.Context, id uuid.UUID) (*Scenario, error) {
	scenario, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return scenario, nil
}

// ListScenarios returns all scenarios, newest first
func (s *Service) ListScenarios(ctx context.Context) ([]Scenario, error) {
	scenarios, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	if scenarios == nil {
		scenarios = []Scenario{}
	}
	return scenarios, nil
}

// DeleteScenario removes a scenario
func (s *Service) DeleteScenario(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Scenario deleted", zap.String("scenario_id", id.String()))
	s.publish(ctx, Event{Type: EventDeleted, ScenarioID: &id})
	return nil
}

// DeleteAllScenarios removes every scenario and returns how many were deleted
func (s *Service) DeleteAllScenarios(ctx context.Context) (int64, error) {
	count, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	s.logger.Info("All scenarios deleted", zap.Int64("count", count))
	s.publish(ctx, Event{Type: EventCleared, Count: count})
	return count, nil
}

// Impact is the real-world equivalent of a scenario's credits
type Impact struct {
	ScenarioID   uuid.UUID                    `json:"scenario_id"`
	Name         string                       `json:"name"`
	TotalCredits float64                      `json:"total_credits"`
	Categories   []calculation.ImpactCategory `json:"categories"`
}

// ScenarioImpact translates a scenario's credit total into equivalents
func (s *Service) ScenarioImpact(ctx context.Context, id uuid.UUID) (*Impact, error) {
	scenario, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Impact{
		ScenarioID:   scenario.ID,
		Name:         scenario.Name,
		TotalCredits: scenario.TotalCredits,
		Categories:   calculation.TranslateImpact(scenario.TotalCredits),
	}, nil
}

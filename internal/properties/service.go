package properties

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
)

// Service registers properties and keeps their emission calculations
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a property service
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RegisterProperty stores a property together with its first calculation
func (s *Service) RegisterProperty(ctx context.Context, req RegisterRequest) (*Property, error) {
	p, err := req.Property()
	if err != nil {
		return nil, err
	}

	assessment := calculation.Assess(p.EmissionInput(), p.PastureAreaHa)
	emission, recs := records(p.ID, assessment, s.now())

	if err := s.repo.CreateProperty(ctx, p, emission, recs); err != nil {
		s.logger.Error("Failed to register property", zap.String("name", p.Name), zap.Error(err))
		return nil, fmt.Errorf("failed to register property: %w", err)
	}

	p.Emission = emission
	p.Recommendations = recs

	s.logger.Info("Property registered",
		zap.String("property_id", p.ID.String()),
		zap.String("name", p.Name),
		zap.Float64("total_kg_co2e", emission.TotalKgCO2e))

	return p, nil
}

// GetProperty returns a property with its latest calculation
func (s *Service) GetProperty(ctx context.Context, id uuid.UUID) (*Property, error) {
	return s.repo.GetProperty(ctx, id)
}

// ListProperties returns all properties, newest first
func (s *Service) ListProperties(ctx context.Context) ([]Summary, error) {
	summaries, err := s.repo.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []Summary{}
	}
	return summaries, nil
}

// Recalculate reruns the calculation over the stored activity data and
// replaces the previous emission record and recommendations.
func (s *Service) Recalculate(ctx context.Context, id uuid.UUID) (*Property, error) {
	p, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	assessment := calculation.Assess(p.EmissionInput(), p.PastureAreaHa)
	emission, recs := records(p.ID, assessment, s.now())

	if err := s.repo.ReplaceCalculation(ctx, p.ID, emission, recs); err != nil {
		return nil, fmt.Errorf("failed to save calculation: %w", err)
	}

	p.Emission = emission
	p.Recommendations = recs

	s.logger.Info("Property recalculated",
		zap.String("property_id", p.ID.String()),
		zap.Float64("total_kg_co2e", emission.TotalKgCO2e))

	return p, nil
}

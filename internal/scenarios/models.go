package scenarios

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
)

var (
	// ErrNotFound is returned when a scenario does not exist
	ErrNotFound = errors.New("scenario not found")
	// ErrNoArea rejects a scenario whose four areas are all zero
	ErrNoArea = errors.New("at least one area must be greater than zero")
)

// DefaultName labels scenarios saved without a name
const DefaultName = "Unnamed scenario"

// Scenario is a saved credit calculation. The per-methodology columns mirror
// Result so listings and aggregates can be read without decoding JSON.
type Scenario struct {
	ID                 uuid.UUID                                    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name               string                                       `gorm:"size:100;not null" json:"name"`
	PastureAreaHa      float64                                      `gorm:"not null;default:0" json:"pasture_area_ha"`
	ForestAreaHa       float64                                      `gorm:"not null;default:0" json:"forest_area_ha"`
	CropRenewalAreaHa  float64                                      `gorm:"not null;default:0" json:"crop_renewal_area_ha"`
	IntegratedAreaHa   float64                                      `gorm:"not null;default:0" json:"integrated_area_ha"`
	PastureCredits     float64                                      `gorm:"not null;default:0" json:"pasture_credits"`
	ForestCredits      float64                                      `gorm:"not null;default:0" json:"forest_credits"`
	CropRenewalCredits float64                                      `gorm:"not null;default:0" json:"crop_renewal_credits"`
	IntegratedCredits  float64                                      `gorm:"not null;default:0" json:"integrated_credits"`
	TotalCredits       float64                                      `gorm:"not null;default:0" json:"total_credits"`
	EstimatedValue     float64                                      `gorm:"not null;default:0" json:"estimated_value"`
	Result             datatypes.JSONType[calculation.CreditResult] `gorm:"type:jsonb;not null" json:"result"`
	CalculatedAt       time.Time                                    `gorm:"autoCreateTime" json:"calculated_at"`
}

// TableName overrides the table name
func (Scenario) TableName() string {
	return "scenarios"
}

// Input returns the areas the scenario was calculated from
func (s *Scenario) Input() calculation.CreditInput {
	return calculation.CreditInput{
		PastureAreaHa:                 s.PastureAreaHa,
		ForestAreaHa:                  s.ForestAreaHa,
		CropRenewalAreaHa:             s.CropRenewalAreaHa,
		IntegratedCropLivestockAreaHa: s.IntegratedAreaHa,
	}
}

// CreditResult returns the stored calculation result
func (s *Scenario) CreditResult() calculation.CreditResult {
	return s.Result.Data()
}

// TotalArea is the sum of the four methodology areas
func (s *Scenario) TotalArea() float64 {
	return s.Input().TotalArea()
}

// NewScenario builds a scenario record from a calculation
func NewScenario(name string, in calculation.CreditInput, res calculation.CreditResult, price float64) *Scenario {
	if name == "" {
		name = DefaultName
	}
	return &Scenario{
		Name:               name,
		PastureAreaHa:      in.AreaFor(calculation.MethodologyPasture),
		ForestAreaHa:       in.AreaFor(calculation.MethodologyForest),
		CropRenewalAreaHa:  in.AreaFor(calculation.MethodologyCropRenewal),
		IntegratedAreaHa:   in.AreaFor(calculation.MethodologyIntegrated),
		PastureCredits:     res.CreditsFor(calculation.MethodologyPasture),
		ForestCredits:      res.CreditsFor(calculation.MethodologyForest),
		CropRenewalCredits: res.CreditsFor(calculation.MethodologyCropRenewal),
		IntegratedCredits:  res.CreditsFor(calculation.MethodologyIntegrated),
		TotalCredits:       res.Total,
		EstimatedValue:     calculation.EstimateValue(res.Total, price),
		Result:             datatypes.NewJSONType(res),
	}
}

// CreateRequest is the payload for saving a scenario
type CreateRequest struct {
	Name              string               `json:"name" form:"name"`
	PastureAreaHa     calculation.Quantity `json:"pasture_area_ha"`
	ForestAreaHa      calculation.Quantity `json:"forest_area_ha"`
	CropRenewalAreaHa calculation.Quantity `json:"crop_renewal_area_ha"`
	IntegratedAreaHa  calculation.Quantity `json:"integrated_area_ha"`
}

// CreditInput converts the request into calculation input
func (r CreateRequest) CreditInput() calculation.CreditInput {
	return calculation.CreditInput{
		PastureAreaHa:                 r.PastureAreaHa.Float64(),
		ForestAreaHa:                  r.ForestAreaHa.Float64(),
		CropRenewalAreaHa:             r.CropRenewalAreaHa.Float64(),
		IntegratedCropLivestockAreaHa: r.IntegratedAreaHa.Float64(),
	}
}

// EventType names scenario lifecycle events
type EventType string

const (
	EventCreated EventType = "scenario.created"
	EventDeleted EventType = "scenario.deleted"
	EventCleared EventType = "scenarios.cleared"
)

// Event is published after a scenario change is committed
type Event struct {
	Type       EventType  `json:"type"`
	ScenarioID *uuid.UUID `json:"scenario_id,omitempty"`
	Scenario   *Scenario  `json:"scenario,omitempty"`
	Count      int64      `json:"count,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

package properties

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
)

var (
	ErrNotFound     = errors.New("property not found")
	ErrNameRequired = errors.New("property name is required")
)

// Property is a registered farm with its activity data
type Property struct {
	ID                       uuid.UUID `db:"id" json:"id"`
	Name                     string    `db:"name" json:"name"`
	Location                 string    `db:"location" json:"location"`
	TotalAreaHa              float64   `db:"total_area_ha" json:"total_area_ha"`
	AgriculturalAreaHa       float64   `db:"agricultural_area_ha" json:"agricultural_area_ha"`
	FertilizerUseKgPerHaYear float64   `db:"fertilizer_use_kg_ha_year" json:"fertilizer_use_kg_ha_year"`
	FuelLitersYear           float64   `db:"fuel_liters_year" json:"fuel_liters_year"`
	PastureAreaHa            float64   `db:"pasture_area_ha" json:"pasture_area_ha"`
	CattleCount              int       `db:"cattle_count" json:"cattle_count"`
	CreatedAt                time.Time `db:"created_at" json:"created_at"`

	Emission        *EmissionRecord        `db:"-" json:"emission,omitempty"`
	Recommendations []RecommendationRecord `db:"-" json:"recommendations,omitempty"`
}

// EmissionInput returns the activity data as calculation input
func (p *Property) EmissionInput() calculation.EmissionInput {
	return calculation.EmissionInput{
		AgriculturalAreaHa:        p.AgriculturalAreaHa,
		FertilizerUseKgPerHaYear:  p.FertilizerUseKgPerHaYear,
		CattleCount:               p.CattleCount,
		FuelConsumptionLitersYear: p.FuelLitersYear,
	}
}

// EmissionRecord is the latest emission calculation of a property
type EmissionRecord struct {
	PropertyID           uuid.UUID `db:"property_id" json:"property_id"`
	TotalKgCO2e          float64   `db:"total_kg_co2e" json:"total_kg_co2e"`
	AgricultureKgCO2e    float64   `db:"agriculture_kg_co2e" json:"agriculture_kg_co2e"`
	LivestockKgCO2e      float64   `db:"livestock_kg_co2e" json:"livestock_kg_co2e"`
	FuelKgCO2e           float64   `db:"fuel_kg_co2e" json:"fuel_kg_co2e"`
	CreditPotentialTCO2e float64   `db:"credit_potential_tco2e" json:"credit_potential_tco2e"`
	CalculatedAt         time.Time `db:"calculated_at" json:"calculated_at"`
}

// Result returns the stored breakdown as an emission result
func (e *EmissionRecord) Result() calculation.EmissionResult {
	return calculation.EmissionResult{
		Total:       e.TotalKgCO2e,
		Agriculture: e.AgricultureKgCO2e,
		Livestock:   e.LivestockKgCO2e,
		Fuel:        e.FuelKgCO2e,
	}
}

// RecommendationRecord is one stored recommendation; Position keeps the
// generated order.
type RecommendationRecord struct {
	PropertyID               uuid.UUID `db:"property_id" json:"-"`
	Position                 int       `db:"position" json:"position"`
	Action                   string    `db:"action" json:"action"`
	Description              string    `db:"description" json:"description"`
	PotentialReductionKgCO2e float64   `db:"potential_reduction_kg_co2e" json:"potential_reduction_kg_co2e"`
}

// Summary is a list row: the property with its latest totals
type Summary struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	Name                 string    `db:"name" json:"name"`
	Location             string    `db:"location" json:"location"`
	TotalAreaHa          float64   `db:"total_area_ha" json:"total_area_ha"`
	TotalKgCO2e          float64   `db:"total_kg_co2e" json:"total_kg_co2e"`
	CreditPotentialTCO2e float64   `db:"credit_potential_tco2e" json:"credit_potential_tco2e"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// RegisterRequest is the payload for registering a property
type RegisterRequest struct {
	Name                     string               `json:"name"`
	Location                 string               `json:"location"`
	TotalAreaHa              calculation.Quantity `json:"total_area_ha"`
	AgriculturalAreaHa       calculation.Quantity `json:"agricultural_area_ha"`
	FertilizerUseKgPerHaYear calculation.Quantity `json:"fertilizer_use_kg_ha_year"`
	FuelLitersYear           calculation.Quantity `json:"fuel_liters_year"`
	PastureAreaHa            calculation.Quantity `json:"pasture_area_ha"`
	CattleCount              calculation.Quantity `json:"cattle_count"`
}

// Property builds a new property from the request. A missing total area is
// derived from the agricultural and pasture areas.
func (r RegisterRequest) Property() (*Property, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	p := &Property{
		ID:                       uuid.New(),
		Name:                     name,
		Location:                 strings.TrimSpace(r.Location),
		TotalAreaHa:              r.TotalAreaHa.Float64(),
		AgriculturalAreaHa:       r.AgriculturalAreaHa.Float64(),
		FertilizerUseKgPerHaYear: r.FertilizerUseKgPerHaYear.Float64(),
		FuelLitersYear:           r.FuelLitersYear.Float64(),
		PastureAreaHa:            r.PastureAreaHa.Float64(),
		CattleCount:              r.CattleCount.Count(),
	}
	if p.TotalAreaHa == 0 {
		p.TotalAreaHa = p.AgriculturalAreaHa + p.PastureAreaHa
	}
	return p, nil
}

// records converts an assessment into rows for the property
func records(propertyID uuid.UUID, a calculation.Assessment, at time.Time) (*EmissionRecord, []RecommendationRecord) {
	emission := &EmissionRecord{
		PropertyID:           propertyID,
		TotalKgCO2e:          a.Emissions.Total,
		AgricultureKgCO2e:    a.Emissions.Agriculture,
		LivestockKgCO2e:      a.Emissions.Livestock,
		FuelKgCO2e:           a.Emissions.Fuel,
		CreditPotentialTCO2e: a.CreditPotential,
		CalculatedAt:         at,
	}

	recs := make([]RecommendationRecord, len(a.Recommendations))
	for i, r := range a.Recommendations {
		recs[i] = RecommendationRecord{
			PropertyID:               propertyID,
			Position:                 i,
			Action:                   r.Action,
			Description:              r.Description,
			PotentialReductionKgCO2e: r.PotentialReductionKgCo2e,
		}
	}
	return emission, recs
}

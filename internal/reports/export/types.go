// Package export renders scenarios and property assessments as PDF, Excel
// and CSV documents.
package export

import (
	"time"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
)

// ScenarioRow is one saved scenario as it appears in tabular exports
type ScenarioRow struct {
	ID             string
	Name           string
	CalculatedAt   time.Time
	Input          calculation.CreditInput
	Result         calculation.CreditResult
	EstimatedValue float64
}

// CreditReport holds everything rendered in a credit report
type CreditReport struct {
	ScenarioName   string
	CalculatedAt   time.Time
	Input          calculation.CreditInput
	Result         calculation.CreditResult
	CreditPrice    float64
	EstimatedValue float64
}

// EmissionReport holds everything rendered in a property emission report
type EmissionReport struct {
	PropertyName    string
	Location        string
	TotalAreaHa     float64
	PastureAreaHa   float64
	CalculatedAt    time.Time
	Emissions       calculation.EmissionResult
	CreditPotential float64
	Recommendations []calculation.Recommendation
}

var scenarioColumns = []string{
	"ID",
	"Name",
	"Calculated At",
	"Pasture Area (ha)",
	"Forest Area (ha)",
	"Crop Renewal Area (ha)",
	"Integrated Area (ha)",
	"Total Area (ha)",
	"Total Credits (tCO2e)",
	"Estimated Value (BRL)",
}

func (r ScenarioRow) values() []interface{} {
	return []interface{}{
		r.ID,
		r.Name,
		r.CalculatedAt,
		r.Input.AreaFor(calculation.MethodologyPasture),
		r.Input.AreaFor(calculation.MethodologyForest),
		r.Input.AreaFor(calculation.MethodologyCropRenewal),
		r.Input.AreaFor(calculation.MethodologyIntegrated),
		r.Input.TotalArea(),
		r.Result.Total,
		r.EstimatedValue,
	}
}

var methodologyColumns = []string{
	"Scenario ID",
	"Scenario",
	"Methodology",
	"Code",
	"Area (ha)",
	"Factor (tCO2e/ha/yr)",
	"Credits (tCO2e)",
}

// methodologyValues returns one row per active methodology in table order
func (r ScenarioRow) methodologyValues() [][]interface{} {
	active := r.Result.Active()
	rows := make([][]interface{}, 0, len(active))
	for _, m := range active {
		code := string(m.Key)
		if def, ok := calculation.LookupMethodology(m.Key); ok {
			code = def.Code
		}
		rows = append(rows, []interface{}{r.ID, r.Name, m.Label, code, m.Area, m.Factor, m.Credits})
	}
	return rows
}

// Package dashboard aggregates saved scenarios into portfolio totals and
// keeps the result cached between changes.
package dashboard

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
)

// ScenarioSnapshot is the part of a saved scenario the dashboard needs
type ScenarioSnapshot struct {
	ID             uuid.UUID
	Name           string
	CalculatedAt   time.Time
	Input          calculation.CreditInput
	Result         calculation.CreditResult
	EstimatedValue float64
}

// Summary is the dashboard view of all saved scenarios
type Summary struct {
	ScenarioCount       int                `json:"scenario_count"`
	TotalCredits        float64            `json:"total_credits"`
	TotalEstimatedValue float64            `json:"total_estimated_value"`
	TotalAreaHa         float64            `json:"total_area_ha"`
	CreditsPerHa        float64            `json:"credits_per_ha"`
	Methodologies       []MethodologyTotal `json:"methodologies"`
	CumulativeCredits   []SeriesPoint      `json:"cumulative_credits"`
	LatestScenarioID    *uuid.UUID         `json:"latest_scenario_id,omitempty"`
	LatestCalculatedAt  *time.Time         `json:"latest_calculated_at,omitempty"`
	ComputedAt          time.Time          `json:"computed_at"`
}

// MethodologyTotal sums one methodology over all scenarios
type MethodologyTotal struct {
	Key     calculation.MethodologyKey `json:"key"`
	Label   string                     `json:"label"`
	AreaHa  float64                    `json:"area_ha"`
	Credits float64                    `json:"credits"`
	Share   float64                    `json:"share"`
}

// SeriesPoint is one calculation day in the cumulative credit series
type SeriesPoint struct {
	Date       string  `json:"date"`
	Credits    float64 `json:"credits"`
	Cumulative float64 `json:"cumulative"`
}

// Summarize computes the dashboard summary. Methodologies follow the fixed
// table order; the series runs oldest day first, days in UTC.
func Summarize(snapshots []ScenarioSnapshot, now time.Time) *Summary {
	s := &Summary{
		ScenarioCount:     len(snapshots),
		Methodologies:     make([]MethodologyTotal, 0, 4),
		CumulativeCredits: []SeriesPoint{},
		ComputedAt:        now,
	}

	table := calculation.Methodologies()
	byKey := make(map[calculation.MethodologyKey]*MethodologyTotal, len(table))
	for _, m := range table {
		s.Methodologies = append(s.Methodologies, MethodologyTotal{Key: m.Key, Label: m.Label})
	}
	for i := range s.Methodologies {
		byKey[s.Methodologies[i].Key] = &s.Methodologies[i]
	}

	ordered := make([]ScenarioSnapshot, len(snapshots))
	copy(ordered, snapshots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CalculatedAt.Before(ordered[j].CalculatedAt)
	})

	for _, sc := range ordered {
		s.TotalCredits += sc.Result.Total
		s.TotalEstimatedValue += sc.EstimatedValue
		s.TotalAreaHa += sc.Input.TotalArea()

		for key, total := range byKey {
			total.AreaHa += sc.Input.AreaFor(key)
			total.Credits += sc.Result.CreditsFor(key)
		}

		day := sc.CalculatedAt.UTC().Format(time.DateOnly)
		if n := len(s.CumulativeCredits); n > 0 && s.CumulativeCredits[n-1].Date == day {
			s.CumulativeCredits[n-1].Credits += sc.Result.Total
			s.CumulativeCredits[n-1].Cumulative = s.TotalCredits
		} else {
			s.CumulativeCredits = append(s.CumulativeCredits, SeriesPoint{
				Date:       day,
				Credits:    sc.Result.Total,
				Cumulative: s.TotalCredits,
			})
		}
	}

	if s.TotalCredits > 0 {
		for i := range s.Methodologies {
			s.Methodologies[i].Share = s.Methodologies[i].Credits / s.TotalCredits
		}
	}
	if s.TotalAreaHa > 0 {
		s.CreditsPerHa = s.TotalCredits / s.TotalAreaHa
	}

	if n := len(ordered); n > 0 {
		latest := ordered[n-1]
		s.LatestScenarioID = &latest.ID
		s.LatestCalculatedAt = &latest.CalculatedAt
	}

	return s
}

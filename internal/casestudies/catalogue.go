// Package casestudies serves the catalogue of reference carbon projects
// shown next to the calculators.
package casestudies

import (
	"errors"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
)

// ErrNotFound is returned for an id outside the catalogue
var ErrNotFound = errors.New("case study not found")

// Results summarises what a project produced over its period
type Results struct {
	CreditsGenerated float64 `json:"credits_generated"`
	EstimatedValue   float64 `json:"estimated_value"`
	Period           string  `json:"period"`
}

// CaseStudy is a reference project using one of the credit methodologies
type CaseStudy struct {
	ID          int                     `json:"id"`
	Title       string                  `json:"title"`
	Location    string                  `json:"location"`
	AreaHa      float64                 `json:"area_ha"`
	Methodology calculation.Methodology `json:"methodology"`
	Results     Results                 `json:"results"`
	Description string                  `json:"description"`
	Contact     string                  `json:"contact"`
}

type entry struct {
	id          int
	title       string
	location    string
	areaHa      float64
	methodology calculation.MethodologyKey
	results     Results
	description string
	contact     string
}

var catalogue = [...]entry{
	{
		id:          1,
		title:       "Pasture recovery in Minas Gerais",
		location:    "Minas Gerais",
		areaHa:      500,
		methodology: calculation.MethodologyPasture,
		results:     Results{CreditsGenerated: 350, EstimatedValue: 17500, Period: "2023-2024"},
		description: "500 hectares of recovered pasture with average sequestration of 0.7 tCO2e/ha/year.",
		contact:     "contato@fazendamg.com.br",
	},
	{
		id:          2,
		title:       "Reforestation in Paraná",
		location:    "Paraná",
		areaHa:      200,
		methodology: calculation.MethodologyForest,
		results:     Results{CreditsGenerated: 2000, EstimatedValue: 100000, Period: "2022-2024"},
		description: "Reforestation of 200 hectares with native species, sequestering 10 tCO2e/ha/year.",
		contact:     "contato@florestapr.com.br",
	},
	{
		id:          3,
		title:       "Crop-livestock integration in Mato Grosso",
		location:    "Mato Grosso",
		areaHa:      1200,
		methodology: calculation.MethodologyIntegrated,
		results:     Results{CreditsGenerated: 3600, EstimatedValue: 180000, Period: "2021-2024"},
		description: "Rolled out over 1,200 hectares, cutting fertilizer use and raising productivity.",
		contact:     "contato@ilpmt.com.br",
	},
}

func (e entry) caseStudy() CaseStudy {
	m, _ := calculation.LookupMethodology(e.methodology)
	return CaseStudy{
		ID:          e.id,
		Title:       e.title,
		Location:    e.location,
		AreaHa:      e.areaHa,
		Methodology: m,
		Results:     e.results,
		Description: e.description,
		Contact:     e.contact,
	}
}

// All returns the catalogue in id order
func All() []CaseStudy {
	out := make([]CaseStudy, 0, len(catalogue))
	for _, e := range catalogue {
		out = append(out, e.caseStudy())
	}
	return out
}

// Lookup returns one case study by id
func Lookup(id int) (CaseStudy, error) {
	for _, e := range catalogue {
		if e.id == id {
			return e.caseStudy(), nil
		}
	}
	return CaseStudy{}, ErrNotFound
}

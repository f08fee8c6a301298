package calculation

// Recommendation is a mitigation action with its expected yearly reduction.
type Recommendation struct {
	Action                   string  `json:"action"`
	Description              string  `json:"description"`
	PotentialReductionKgCo2e float64 `json:"potential_reduction_kg_co2e"`
}

// RecommendationInput carries the emission breakdown and the activity data
// the rules look at.
type RecommendationInput struct {
	AgricultureEmission      float64
	LivestockEmission        float64
	FuelEmission             float64
	CattleCount              int
	FertilizerUseKgPerHaYear float64
}

const (
	ActionFertilizerManagement = "Efficient fertilizer management"
	ActionCattleSupplement     = "Dietary supplementation for cattle"
	ActionFuelEfficiency       = "Fuel-use efficiency"
	ActionPastureRecovery      = "Degraded pasture recovery"
	ActionAgroforestry         = "Agroforestry system implementation"
)

// GenerateRecommendations returns between two and five recommendations in a
// fixed order: fertilizer, cattle, fuel, then the two land-use actions that
// are always present.
func GenerateRecommendations(in RecommendationInput) []Recommendation {
	recs := make([]Recommendation, 0, 5)

	agriculture := nonNegative(in.AgricultureEmission)
	livestock := nonNegative(in.LivestockEmission)
	fuel := nonNegative(in.FuelEmission)

	if agriculture > 0 && in.FertilizerUseKgPerHaYear > 0 {
		recs = append(recs, Recommendation{
			Action:                   ActionFertilizerManagement,
			Description:              "Split fertilizer applications and use nitrification inhibitors.",
			PotentialReductionKgCo2e: agriculture * FertilizerReductionShare,
		})
	}

	if livestock > 0 && in.CattleCount > 0 {
		recs = append(recs, Recommendation{
			Action:                   ActionCattleSupplement,
			Description:              "Add feed additives to the herd diet to reduce enteric methane.",
			PotentialReductionKgCo2e: livestock * LivestockReductionShare,
		})
	}

	if fuel > 0 {
		recs = append(recs, Recommendation{
			Action:                   ActionFuelEfficiency,
			Description:              "Optimize machinery use and adopt no-till planting.",
			PotentialReductionKgCo2e: fuel * FuelReductionShare,
		})
	}

	return append(recs,
		Recommendation{
			Action:                   ActionPastureRecovery,
			Description:              "Recover degraded pastures to increase soil carbon sequestration.",
			PotentialReductionKgCo2e: PastureRecoveryPotential,
		},
		Recommendation{
			Action:                   ActionAgroforestry,
			Description:              "Combine crops with forest species to increase carbon sequestration.",
			PotentialReductionKgCo2e: AgroforestryPotential,
		},
	)
}

// RecommendationsFor runs the rules over a computed emission result.
func RecommendationsFor(in EmissionInput, res EmissionResult) []Recommendation {
	return GenerateRecommendations(RecommendationInput{
		AgricultureEmission:      res.Agriculture,
		LivestockEmission:        res.Livestock,
		FuelEmission:             res.Fuel,
		CattleCount:              in.CattleCount,
		FertilizerUseKgPerHaYear: in.FertilizerUseKgPerHaYear,
	})
}

// TotalReduction sums the potential of a recommendation list.
func TotalReduction(recs []Recommendation) float64 {
	total := 0.0
	for _, r := range recs {
		total += r.PotentialReductionKgCo2e
	}
	return total
}

package calculation

// Assessment is the full emission picture of a property: its yearly
// emissions, the credit potential of its pasture, and the recommendations
// derived from both.
type Assessment struct {
	Input           EmissionInput    `json:"input"`
	PastureAreaHa   float64          `json:"pasture_area_ha"`
	Emissions       EmissionResult   `json:"emissions"`
	CreditPotential float64          `json:"credit_potential_tco2e"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Assess composes the emission, credit and recommendation calculations.
// Only pasture recovery counts toward the credit potential here.
func Assess(in EmissionInput, pastureAreaHa float64) Assessment {
	in = in.normalized()
	emissions := ComputeEmissions(in)
	pasture := nonNegative(pastureAreaHa)

	return Assessment{
		Input:           in,
		PastureAreaHa:   pasture,
		Emissions:       emissions,
		CreditPotential: ComputeCredits(CreditInput{PastureAreaHa: pasture}).Total,
		Recommendations: RecommendationsFor(in, emissions),
	}
}

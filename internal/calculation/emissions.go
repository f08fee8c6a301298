package calculation

// EmissionInput is the activity data of a property for one year.
type EmissionInput struct {
	AgriculturalAreaHa        float64 `json:"agricultural_area_ha"`
	FertilizerUseKgPerHaYear  float64 `json:"fertilizer_use_kg_ha_year"`
	CattleCount               int     `json:"cattle_count"`
	FuelConsumptionLitersYear float64 `json:"fuel_liters_year"`
}

// EmissionResult holds yearly emissions in kg CO2e.
type EmissionResult struct {
	Total       float64 `json:"total"`
	Agriculture float64 `json:"agriculture"`
	Livestock   float64 `json:"livestock"`
	Fuel        float64 `json:"fuel"`
}

// ComputeEmissions applies the fertilizer, enteric fermentation and diesel
// factors to the input. Negative inputs count as zero.
func ComputeEmissions(in EmissionInput) EmissionResult {
	area := nonNegative(in.AgriculturalAreaHa)
	fertilizer := nonNegative(in.FertilizerUseKgPerHaYear)
	fuel := nonNegative(in.FuelConsumptionLitersYear)
	cattle := in.normalized().CattleCount

	res := EmissionResult{
		Agriculture: area * fertilizer * FertilizerEmissionFactor,
		Livestock:   float64(cattle) * CattleEmissionFactor,
		Fuel:        fuel * DieselEmissionFactor,
	}
	res.Total = res.Agriculture + res.Livestock + res.Fuel
	return res
}

// normalized clamps every field the way coercion does.
func (in EmissionInput) normalized() EmissionInput {
	cattle := in.CattleCount
	if cattle < 0 || cattle > MaxCount {
		cattle = 0
	}
	return EmissionInput{
		AgriculturalAreaHa:        nonNegative(in.AgriculturalAreaHa),
		FertilizerUseKgPerHaYear:  nonNegative(in.FertilizerUseKgPerHaYear),
		CattleCount:               cattle,
		FuelConsumptionLitersYear: nonNegative(in.FuelConsumptionLitersYear),
	}
}

// TotalTonnes converts the total from kg to tonnes.
func (r EmissionResult) TotalTonnes() float64 {
	return r.Total / 1000
}

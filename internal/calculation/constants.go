// Package calculation holds the emission, credit, recommendation and impact
// formulas used across the service. Every function here is pure: no I/O,
// no shared state, safe for concurrent use.
package calculation

// Emission factors (IPCC Tier 1).
const (
	// FertilizerEmissionFactor is kg CO2e per kg of nitrogen fertilizer applied.
	// 44/28 N2O-N to N2O molar ratio x 1% direct emission fraction x 298 GWP.
	FertilizerEmissionFactor = 4.68

	// CattleEmissionFactor is kg CO2e per head per year.
	// 56 kg enteric CH4 per head per year x 25 GWP.
	CattleEmissionFactor = 1400.0

	// DieselEmissionFactor is kg CO2e per liter of diesel burned.
	DieselEmissionFactor = 2.68
)

// Sequestration factors in tCO2e per hectare per year.
const (
	PastureRecoveryFactor   = 0.5
	AfforestationFactor     = 8.0
	LowCarbonCroppingFactor = 1.2
	IntegratedSystemFactor  = 3.0
)

// Share of an emission source a recommendation is expected to cut.
const (
	FertilizerReductionShare = 0.20
	LivestockReductionShare  = 0.15
	FuelReductionShare       = 0.30
)

// Fixed potential of the always-present recommendations, kg CO2e/year.
const (
	PastureRecoveryPotential = 500.0
	AgroforestryPotential    = 1000.0
)

// DefaultCreditPrice is the reference price per tCO2e (BRL) used for the
// estimated value shown next to credit results.
const DefaultCreditPrice = 50.0

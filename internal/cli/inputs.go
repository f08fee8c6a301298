package cli

import (
	"github.com/spf13/cobra"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
)

// Numeric flags are taken as text and coerced like form input: anything
// unparsable or negative counts as zero.

type emissionFlags struct {
	area       string
	fertilizer string
	cattle     string
	fuel       string
	pasture    string
}

func (f *emissionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.area, "area", "0", "Agricultural area (ha)")
	cmd.Flags().StringVar(&f.fertilizer, "fertilizer", "0", "Nitrogen fertilizer use (kg/ha/year)")
	cmd.Flags().StringVar(&f.cattle, "cattle", "0", "Cattle head count")
	cmd.Flags().StringVar(&f.fuel, "fuel", "0", "Diesel consumption (liters/year)")
	cmd.Flags().StringVar(&f.pasture, "pasture", "0", "Pasture area (ha) for credit potential")
}

func (f *emissionFlags) input() calculation.EmissionInput {
	return calculation.EmissionInput{
		AgriculturalAreaHa:        calculation.ParseQuantity(f.area),
		FertilizerUseKgPerHaYear:  calculation.ParseQuantity(f.fertilizer),
		CattleCount:               calculation.ParseCount(f.cattle),
		FuelConsumptionLitersYear: calculation.ParseQuantity(f.fuel),
	}
}

func (f *emissionFlags) pastureArea() float64 {
	return calculation.ParseQuantity(f.pasture)
}

type creditFlags struct {
	pasture    string
	forest     string
	renewal    string
	integrated string
}

func (f *creditFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.pasture, "pasture", "0", "Degraded pasture recovery area (ha)")
	cmd.Flags().StringVar(&f.forest, "forest", "0", "Reforestation area (ha)")
	cmd.Flags().StringVar(&f.renewal, "renewal", "0", "Crop renewal area (ha)")
	cmd.Flags().StringVar(&f.integrated, "integrated", "0", "Integrated crop-livestock area (ha)")
}

func (f *creditFlags) input() calculation.CreditInput {
	return calculation.CreditInput{
		PastureAreaHa:                 calculation.ParseQuantity(f.pasture),
		ForestAreaHa:                  calculation.ParseQuantity(f.forest),
		CropRenewalAreaHa:             calculation.ParseQuantity(f.renewal),
		IntegratedCropLivestockAreaHa: calculation.ParseQuantity(f.integrated),
	}
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
)

// ErrNoArea is returned when a credit calculation has no positive area
var ErrNoArea = errors.New("at least one area must be greater than zero")

// creditSummary is the JSON shape of the credits command
type creditSummary struct {
	calculation.CreditResult
	Active         []calculation.ActiveMethodology `json:"active"`
	TotalAreaHa    float64                         `json:"total_area_ha"`
	CreditPrice    float64                         `json:"credit_price"`
	EstimatedValue float64                         `json:"estimated_value"`
}

func newEmissionsCmd(opts *options) *cobra.Command {
	var flags emissionFlags

	cmd := &cobra.Command{
		Use:   "emissions",
		Short: "Estimate yearly farm emissions and reduction options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			assessment := calculation.Assess(flags.input(), flags.pastureArea())
			opts.logger.Debug("Emissions computed",
				zap.Float64("total_kg", assessment.Emissions.Total),
				zap.Int("recommendations", len(assessment.Recommendations)))

			if opts.output == outputFormatJSON {
				return writeJSON(cmd.OutOrStdout(), assessment)
			}
			return renderAssessmentTable(cmd.OutOrStdout(), assessment)
		},
	}
	flags.bind(cmd)

	return cmd
}

func newCreditsCmd(opts *options) *cobra.Command {
	var flags creditFlags

	cmd := &cobra.Command{
		Use:   "credits",
		Short: "Estimate carbon credit potential by methodology",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := flags.input()
			if !in.HasArea() {
				return ErrNoArea
			}

			res := calculation.ComputeCredits(in)
			summary := creditSummary{
				CreditResult:   res,
				Active:         res.Active(),
				TotalAreaHa:    in.TotalArea(),
				CreditPrice:    opts.price,
				EstimatedValue: calculation.EstimateValue(res.Total, opts.price),
			}
			opts.logger.Debug("Credits computed", zap.Float64("total", res.Total))

			if opts.output == outputFormatJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			return renderCreditTable(cmd.OutOrStdout(), summary)
		},
	}
	flags.bind(cmd)

	return cmd
}

func newImpactCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impact <tCO2e>",
		Short: "Translate tonnes of CO2e into everyday equivalents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tonnes := calculation.ParseQuantity(args[0])
			categories := calculation.TranslateImpact(tonnes)

			if opts.output == outputFormatJSON {
				return writeJSON(cmd.OutOrStdout(), categories)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Impact of %s tCO2e\n\n", formatNumber(tonnes, 2))
			return renderImpactTable(cmd.OutOrStdout(), categories)
		},
	}

	return cmd
}

func newMethodologiesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "methodologies",
		Short: "List the credit methodologies and their factors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := calculation.Methodologies()
			if opts.output == outputFormatJSON {
				return writeJSON(cmd.OutOrStdout(), table)
			}
			return renderMethodologyTable(cmd.OutOrStdout(), table)
		},
	}
}

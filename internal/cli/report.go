package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/reports/export"
)

func newReportCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render PDF reports",
	}
	cmd.AddCommand(newCreditReportCmd(opts), newEmissionReportCmd(opts))
	return cmd
}

func newCreditReportCmd(opts *options) *cobra.Command {
	var (
		flags creditFlags
		name  string
		out   string
	)

	cmd := &cobra.Command{
		Use:   "credits",
		Short: "Render a credit report for an area scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := flags.input()
			if !in.HasArea() {
				return ErrNoArea
			}

			res := calculation.ComputeCredits(in)
			content, err := export.RenderCreditReport(export.CreditReport{
				ScenarioName:   name,
				CalculatedAt:   time.Now(),
				Input:          in,
				Result:         res,
				CreditPrice:    opts.price,
				EstimatedValue: calculation.EstimateValue(res.Total, opts.price),
			}, export.DefaultPDFOptions())
			if err != nil {
				return err
			}

			return writeReport(cmd, opts, out, "credit-report.pdf", content)
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&name, "name", "Unnamed scenario", "Scenario name")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default credit-report.pdf, - for stdout)")

	return cmd
}

func newEmissionReportCmd(opts *options) *cobra.Command {
	var (
		flags    emissionFlags
		name     string
		location string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "emissions",
		Short: "Render an emission report for a property",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}

			assessment := calculation.Assess(flags.input(), flags.pastureArea())
			content, err := export.RenderEmissionReport(export.EmissionReport{
				PropertyName:    name,
				Location:        location,
				TotalAreaHa:     assessment.Input.AgriculturalAreaHa + assessment.PastureAreaHa,
				PastureAreaHa:   assessment.PastureAreaHa,
				CalculatedAt:    time.Now(),
				Emissions:       assessment.Emissions,
				CreditPotential: assessment.CreditPotential,
				Recommendations: assessment.Recommendations,
			}, export.DefaultPDFOptions())
			if err != nil {
				return err
			}

			return writeReport(cmd, opts, out, "emission-report.pdf", content)
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Property name")
	cmd.Flags().StringVar(&location, "location", "", "Property location")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default emission-report.pdf, - for stdout)")

	return cmd
}

func writeReport(cmd *cobra.Command, opts *options, path, fallback string, content []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(content)
		return err
	}
	if path == "" {
		path = fallback
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	opts.logger.Debug("Report written", zap.String("path", path), zap.Int("bytes", len(content)))

	if opts.output == outputFormatJSON {
		return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"path": path, "bytes": len(content)})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s (%d bytes)\n", path, len(content))
	return nil
}

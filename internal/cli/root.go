// Package cli implements the agrocarbon command line tool, which runs the
// calculators offline and renders reports without a database.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/config"
)

const (
	outputFormatTable = "table"
	outputFormatJSON  = "json"
)

// options are the persistent flags shared by every subcommand
type options struct {
	output string
	price  float64
	debug  bool
	logger *zap.Logger
}

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd(version string) *cobra.Command {
	opts := &options{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:           "agrocarbon",
		Short:         "Agricultural carbon calculator",
		Long:          "agrocarbon estimates farm emissions, carbon credit potential and their everyday equivalents.",
		Version:       version,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.output != outputFormatTable && opts.output != outputFormatJSON {
				return fmt.Errorf("unsupported output format %q (table, json)", opts.output)
			}
			if opts.price <= 0 {
				opts.price = calculation.DefaultCreditPrice
			}

			level := "warn"
			if opts.debug {
				level = "debug"
			}
			logger, err := config.NewLogger(config.LoggingConfig{Level: level, Format: "console"})
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			// stderr sync fails on some terminals; nothing to report
			_ = opts.logger.Sync()
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputFormatTable, "Output format (table, json)")
	cmd.PersistentFlags().Float64Var(&opts.price, "price", calculation.DefaultCreditPrice, "Credit price in BRL per tCO2e")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newEmissionsCmd(opts),
		newCreditsCmd(opts),
		newImpactCmd(opts),
		newMethodologiesCmd(opts),
		newReportCmd(opts),
	)

	return cmd
}

const rootCmdExample = `  # Farm emissions with reduction recommendations
  agrocarbon emissions --area 100 --fertilizer 150 --cattle 50 --fuel 2000

  # Credit potential of restoring 100 ha of pasture and 50 ha of forest
  agrocarbon credits --pasture 100 --forest 50

  # Everyday equivalents of 120 tCO2e
  agrocarbon impact 120 --output json

  # Credit report PDF
  agrocarbon report credits --name "Fazenda Boa Vista" --pasture 100 --out report.pdf`

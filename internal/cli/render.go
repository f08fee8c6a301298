package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/reports/export"
)

var (
	formatNumber = export.FormatNumber
	formatBRL    = export.FormatBRL
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderAssessmentTable(w io.Writer, a calculation.Assessment) error {
	fmt.Fprintln(w, "Farm Emissions")
	fmt.Fprintln(w, "==============")
	fmt.Fprintln(w)

	tw := newTable(w)
	fmt.Fprintln(tw, "SOURCE\tKG CO2E/YEAR")
	fmt.Fprintf(tw, "Agriculture\t%s\n", formatNumber(a.Emissions.Agriculture, 2))
	fmt.Fprintf(tw, "Livestock\t%s\n", formatNumber(a.Emissions.Livestock, 2))
	fmt.Fprintf(tw, "Fuel\t%s\n", formatNumber(a.Emissions.Fuel, 2))
	fmt.Fprintf(tw, "Total\t%s\n", formatNumber(a.Emissions.Total, 2))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal: %s tCO2e/year\n", formatNumber(a.Emissions.TotalTonnes(), 2))
	if a.PastureAreaHa > 0 {
		fmt.Fprintf(w, "Pasture credit potential: %s tCO2e\n", formatNumber(a.CreditPotential, 2))
	}

	if len(a.Recommendations) == 0 {
		fmt.Fprintln(w, "\nNo recommendations.")
		return nil
	}

	fmt.Fprintln(w, "\nRecommendations")
	tw = newTable(w)
	fmt.Fprintln(tw, "ACTION\tREDUCTION (KG CO2E)\tDESCRIPTION")
	for _, r := range a.Recommendations {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Action, formatNumber(r.PotentialReductionKgCo2e, 2), r.Description)
	}
	return tw.Flush()
}

func renderCreditTable(w io.Writer, s creditSummary) error {
	fmt.Fprintln(w, "Carbon Credit Potential")
	fmt.Fprintln(w, "=======================")
	fmt.Fprintln(w)

	tw := newTable(w)
	fmt.Fprintln(tw, "METHODOLOGY\tAREA (HA)\tFACTOR\tCREDITS (TCO2E)")
	for _, m := range s.Active {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			m.Label, formatNumber(m.Area, 2), formatNumber(m.Factor, 2), formatNumber(m.Credits, 2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal area: %s ha\n", formatNumber(s.TotalAreaHa, 2))
	fmt.Fprintf(w, "Total credits: %s tCO2e\n", formatNumber(s.Total, 2))
	fmt.Fprintf(w, "Estimated value: %s (at %s/tCO2e)\n", formatBRL(s.EstimatedValue), formatBRL(s.CreditPrice))
	return nil
}

func renderImpactTable(w io.Writer, categories []calculation.ImpactCategory) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tEQUIVALENT\tVALUE\tUNIT")
	for _, c := range categories {
		for _, m := range c.Impacts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Title, m.Name, formatNumber(m.Value, m.Precision), m.Unit)
		}
	}
	return tw.Flush()
}

func renderMethodologyTable(w io.Writer, table []calculation.Methodology) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "KEY\tCODE\tFACTOR (TCO2E/HA)\tLABEL")
	for _, m := range table {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Key, m.Code, formatNumber(m.Factor, 2), m.Label)
	}
	return tw.Flush()
}

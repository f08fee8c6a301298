package export

import (
	"strconv"
	"time"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
)

// RenderCreditReport renders a scenario credit report as PDF
func RenderCreditReport(r CreditReport, options PDFOptions) ([]byte, error) {
	options.Title = "Carbon Credit Report"
	options.Subtitle = r.ScenarioName
	g := NewPDFGenerator(options)

	g.AddSection("Scenario")
	g.AddSummary([]SummaryItem{
		{Label: "Name", Value: r.ScenarioName},
		{Label: "Calculated at", Value: formatTime(r.CalculatedAt, options.DateFormat)},
		{Label: "Total area", Value: FormatNumber(r.Input.TotalArea(), 2) + " ha"},
	})

	g.AddSection("Methodologies")
	active := r.Result.Active()
	if len(active) == 0 {
		g.AddParagraph("No methodology has area assigned.")
	} else {
		rows := make([][]string, 0, len(active))
		for _, m := range active {
			rows = append(rows, []string{
				m.Label,
				FormatNumber(m.Area, 2),
				FormatNumber(m.Factor, 1),
				FormatNumber(m.Credits, 2),
			})
		}
		g.AddTable([]Column{
			{Label: "Methodology", Weight: 3},
			{Label: "Area (ha)", Weight: 1, Align: "R"},
			{Label: "Factor (tCO2e/ha/yr)", Weight: 1.4, Align: "R"},
			{Label: "Credits (tCO2e/yr)", Weight: 1.3, Align: "R"},
		}, rows)
	}

	g.AddSection("Totals")
	g.AddSummary([]SummaryItem{
		{Label: "Total credits", Value: FormatNumber(r.Result.Total, 2) + " tCO2e/yr"},
		{Label: "Credit price", Value: FormatBRL(r.CreditPrice) + " / tCO2e"},
		{Label: "Estimated value", Value: FormatBRL(r.EstimatedValue) + " / yr"},
	})

	addImpact(g, r.Result.Total)

	return g.Bytes()
}

// RenderEmissionReport renders a property emission report as PDF
func RenderEmissionReport(r EmissionReport, options PDFOptions) ([]byte, error) {
	options.Title = "Emission Report"
	options.Subtitle = r.PropertyName
	g := NewPDFGenerator(options)

	g.AddSection("Property")
	info := []SummaryItem{{Label: "Name", Value: r.PropertyName}}
	if r.Location != "" {
		info = append(info, SummaryItem{Label: "Location", Value: r.Location})
	}
	info = append(info,
		SummaryItem{Label: "Total area", Value: FormatNumber(r.TotalAreaHa, 2) + " ha"},
		SummaryItem{Label: "Pasture area", Value: FormatNumber(r.PastureAreaHa, 2) + " ha"},
		SummaryItem{Label: "Calculated at", Value: formatTime(r.CalculatedAt, options.DateFormat)},
	)
	g.AddSummary(info)

	g.AddSection("Emissions")
	g.AddTable([]Column{
		{Label: "Source", Weight: 2},
		{Label: "kg CO2e/yr", Weight: 1, Align: "R"},
		{Label: "Share", Weight: 1, Align: "R"},
	}, [][]string{
		emissionRow("Agriculture (fertilizer)", r.Emissions.Agriculture, r.Emissions.Total),
		emissionRow("Livestock (enteric)", r.Emissions.Livestock, r.Emissions.Total),
		emissionRow("Fuel (diesel)", r.Emissions.Fuel, r.Emissions.Total),
		emissionRow("Total", r.Emissions.Total, r.Emissions.Total),
	})
	g.AddSummary([]SummaryItem{
		{Label: "Total", Value: FormatNumber(r.Emissions.TotalTonnes(), 2) + " tCO2e/yr"},
		{Label: "Credit potential", Value: FormatNumber(r.CreditPotential, 2) + " tCO2e/yr"},
	})

	g.AddSection("Recommendations")
	if len(r.Recommendations) == 0 {
		g.AddParagraph("No recommendations.")
	} else {
		rows := make([][]string, 0, len(r.Recommendations))
		for _, rec := range r.Recommendations {
			rows = append(rows, []string{rec.Action, rec.Description, FormatNumber(rec.PotentialReductionKgCo2e, 2)})
		}
		g.AddTable([]Column{
			{Label: "Action", Weight: 1.6},
			{Label: "Description", Weight: 3.4},
			{Label: "Reduction (kg CO2e)", Weight: 1.4, Align: "R"},
		}, rows)
	}

	addImpact(g, r.Emissions.TotalTonnes())

	return g.Bytes()
}

// addImpact appends the everyday equivalents of a tonnage
func addImpact(g *PDFGenerator, tonnes float64) {
	g.AddSection("Equivalent impact")
	var rows [][]string
	for _, cat := range calculation.TranslateImpact(tonnes) {
		for _, m := range cat.Impacts {
			rows = append(rows, []string{cat.Title, m.Name, FormatNumber(m.Value, m.Precision) + " " + m.Unit})
		}
	}
	g.AddTable([]Column{
		{Label: "Category", Weight: 1.2},
		{Label: "Equivalent", Weight: 2.4},
		{Label: "Value", Weight: 1.6, Align: "R"},
	}, rows)
}

func emissionRow(label string, value, total float64) []string {
	share := 0.0
	if total > 0 {
		share = value / total * 100
	}
	return []string{label, FormatNumber(value, 2), strconv.FormatFloat(calculation.Round(share, 1), 'f', 1, 64) + "%"}
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	if layout == "" {
		layout = time.DateOnly
	}
	return t.Format(layout)
}

package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFGenerator lays out report sections on A4 pages
type PDFGenerator struct {
	pdf       *gofpdf.Fpdf
	options   PDFOptions
	translate func(string) string
}

// PDFOptions configures PDF generation
type PDFOptions struct {
	Title          string
	Subtitle       string
	DateFormat     string
	IncludeDate    bool
	IncludePageNum bool
	HeaderColor    PDFColor
	AlternateRows  bool
	AlternateColor PDFColor
	FontFamily     string
	FontSize       float64
	HeaderFontSize float64
	TitleFontSize  float64
	Margins        PDFMargins
	Now            func() time.Time
}

// PDFColor represents an RGB color
type PDFColor struct {
	R int
	G int
	B int
}

// PDFMargins represents page margins
type PDFMargins struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// DefaultPDFOptions returns the report palette: green headers, grey stripes
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		Title:          "Report",
		DateFormat:     "02/01/2006",
		IncludeDate:    true,
		IncludePageNum: true,
		HeaderColor:    PDFColor{R: 40, G: 120, B: 70},
		AlternateRows:  true,
		AlternateColor: PDFColor{R: 242, G: 242, B: 242},
		FontFamily:     "Arial",
		FontSize:       10,
		HeaderFontSize: 10,
		TitleFontSize:  16,
		Margins: PDFMargins{
			Left:   15,
			Right:  15,
			Top:    20,
			Bottom: 20,
		},
		Now: time.Now,
	}
}

// Column is a table column with a relative width
type Column struct {
	Label  string
	Weight float64
	Align  string
}

// SummaryItem is one label/value line of a summary section
type SummaryItem struct {
	Label string
	Value string
}

// NewPDFGenerator creates a generator and opens the first page with the
// title block.
func NewPDFGenerator(options PDFOptions) *PDFGenerator {
	if options.Now == nil {
		options.Now = time.Now
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(options.Margins.Left, options.Margins.Top, options.Margins.Right)
	pdf.SetAutoPageBreak(true, options.Margins.Bottom)
	pdf.SetTitle(options.Title, true)
	pdf.SetCreator("agro-carbon", true)

	g := &PDFGenerator{
		pdf:       pdf,
		options:   options,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
	g.setFooter()

	pdf.AddPage()
	g.addTitle()
	if options.Subtitle != "" {
		g.addSubtitle()
	}
	if options.IncludeDate {
		g.addDate()
	}
	pdf.Ln(4)

	return g
}

// addTitle adds the report title
func (g *PDFGenerator) addTitle() {
	g.pdf.SetFont(g.options.FontFamily, "B", g.options.TitleFontSize)
	g.pdf.SetTextColor(0, 0, 0)
	g.pdf.CellFormat(0, 10, g.translate(g.options.Title), "", 1, "C", false, 0, "")
}

// addSubtitle adds the report subtitle
func (g *PDFGenerator) addSubtitle() {
	g.pdf.SetFont(g.options.FontFamily, "", g.options.FontSize+2)
	g.pdf.SetTextColor(100, 100, 100)
	g.pdf.CellFormat(0, 8, g.translate(g.options.Subtitle), "", 1, "C", false, 0, "")
}

// addDate adds the report generation date
func (g *PDFGenerator) addDate() {
	g.pdf.SetFont(g.options.FontFamily, "", g.options.FontSize-1)
	g.pdf.SetTextColor(128, 128, 128)
	dateStr := fmt.Sprintf("Generated: %s", g.options.Now().Format(g.options.DateFormat))
	g.pdf.CellFormat(0, 6, dateStr, "", 1, "R", false, 0, "")
}

// AddSection starts a titled section
func (g *PDFGenerator) AddSection(title string) {
	g.pdf.Ln(6)
	g.pdf.SetFont(g.options.FontFamily, "B", g.options.FontSize+2)
	g.pdf.SetTextColor(0, 0, 0)
	g.pdf.CellFormat(0, 8, g.translate(title), "", 1, "L", false, 0, "")
	g.pdf.Ln(1)
}

// AddSummary adds label/value lines in the given order
func (g *PDFGenerator) AddSummary(items []SummaryItem) {
	for _, item := range items {
		g.pdf.SetFont(g.options.FontFamily, "B", g.options.FontSize)
		g.pdf.CellFormat(60, 6, g.translate(item.Label+":"), "", 0, "L", false, 0, "")
		g.pdf.SetFont(g.options.FontFamily, "", g.options.FontSize)
		g.pdf.CellFormat(0, 6, g.translate(item.Value), "", 1, "L", false, 0, "")
	}
}

// AddParagraph adds wrapped body text
func (g *PDFGenerator) AddParagraph(text string) {
	g.pdf.SetFont(g.options.FontFamily, "", g.options.FontSize)
	g.pdf.SetTextColor(60, 60, 60)
	g.pdf.MultiCell(0, 5, g.translate(text), "", "L", false)
	g.pdf.SetTextColor(0, 0, 0)
}

// AddTable adds a table with a header row. Rows whose length differs from
// the column count are skipped.
func (g *PDFGenerator) AddTable(columns []Column, rows [][]string) {
	widths := g.columnWidths(columns)
	g.addTableHeader(columns, widths)

	g.pdf.SetFont(g.options.FontFamily, "", g.options.FontSize)
	g.pdf.SetTextColor(0, 0, 0)

	_, pageHeight := g.pdf.GetPageSize()
	for i, row := range rows {
		if len(row) != len(columns) {
			continue
		}

		if g.options.AlternateRows && i%2 == 1 {
			g.pdf.SetFillColor(g.options.AlternateColor.R, g.options.AlternateColor.G, g.options.AlternateColor.B)
		} else {
			g.pdf.SetFillColor(255, 255, 255)
		}

		if g.pdf.GetY()+7 > pageHeight-g.options.Margins.Bottom {
			g.pdf.AddPage()
			g.addTableHeader(columns, widths)
			g.pdf.SetFont(g.options.FontFamily, "", g.options.FontSize)
			g.pdf.SetTextColor(0, 0, 0)
		}

		for j, val := range row {
			g.pdf.CellFormat(widths[j], 7, g.fit(g.translate(val), widths[j]), "1", 0, alignOf(columns[j]), true, 0, "")
		}
		g.pdf.Ln(-1)
	}
}

// Bytes renders the document
func (g *PDFGenerator) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := g.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ===== Helpers =====

func (g *PDFGenerator) addTableHeader(columns []Column, widths []float64) {
	g.pdf.SetFont(g.options.FontFamily, "B", g.options.HeaderFontSize)
	g.pdf.SetFillColor(g.options.HeaderColor.R, g.options.HeaderColor.G, g.options.HeaderColor.B)
	g.pdf.SetTextColor(255, 255, 255)

	for i, col := range columns {
		g.pdf.CellFormat(widths[i], 8, g.translate(col.Label), "1", 0, "C", true, 0, "")
	}
	g.pdf.Ln(-1)
}

// columnWidths spreads the printable width by column weight
func (g *PDFGenerator) columnWidths(columns []Column) []float64 {
	pageWidth, _ := g.pdf.GetPageSize()
	available := pageWidth - g.options.Margins.Left - g.options.Margins.Right

	total := 0.0
	for _, c := range columns {
		total += weightOf(c)
	}

	widths := make([]float64, len(columns))
	for i, c := range columns {
		widths[i] = available * weightOf(c) / total
	}
	return widths
}

// fit truncates val so it stays inside a cell of the given width
func (g *PDFGenerator) fit(val string, width float64) string {
	if g.pdf.GetStringWidth(val) <= width-2 {
		return val
	}
	for len(val) > 0 && g.pdf.GetStringWidth(val+"...") > width-2 {
		val = val[:len(val)-1]
	}
	return val + "..."
}

func (g *PDFGenerator) setFooter() {
	g.pdf.SetFooterFunc(func() {
		if !g.options.IncludePageNum {
			return
		}
		g.pdf.SetY(-15)
		g.pdf.SetFont(g.options.FontFamily, "", 8)
		g.pdf.SetTextColor(128, 128, 128)
		g.pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", g.pdf.PageNo()), "", 0, "C", false, 0, "")
	})
}

func weightOf(c Column) float64 {
	if c.Weight <= 0 {
		return 1
	}
	return c.Weight
}

func alignOf(c Column) string {
	if c.Align == "" {
		return "L"
	}
	return c.Align
}

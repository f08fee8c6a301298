package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	ScenarioSheet    = "Scenarios"
	MethodologySheet = "Methodologies"
)

// ExcelExporter writes workbooks with one styled table per sheet
type ExcelExporter struct {
	file    *excelize.File
	options ExcelOptions

	headerStyle int
	dataStyle   int
	dateStyle   int
	numberStyle int
}

// ExcelOptions configures Excel export behavior
type ExcelOptions struct {
	FreezeHeader bool
	AutoFilter   bool
	AutoWidth    bool
	DateFormat   string
	NumberFormat string
	HeaderStyle  *ExcelStyleConfig
	DataStyle    *ExcelStyleConfig
}

// ExcelStyleConfig defines style for cells
type ExcelStyleConfig struct {
	FontBold  bool
	FontSize  int
	FontColor string
	FillColor string
	Alignment string
	Border    bool
}

// DefaultExcelOptions returns default Excel export options
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		FreezeHeader: true,
		AutoFilter:   true,
		AutoWidth:    true,
		DateFormat:   "dd/mm/yyyy hh:mm",
		NumberFormat: "#,##0.00",
		HeaderStyle: &ExcelStyleConfig{
			FontBold:  true,
			FontSize:  11,
			FillColor: "287846",
			FontColor: "FFFFFF",
			Alignment: "center",
			Border:    true,
		},
		DataStyle: &ExcelStyleConfig{
			FontSize:  11,
			Alignment: "left",
			Border:    true,
		},
	}
}

// NewExcelExporter creates an exporter over an empty workbook
func NewExcelExporter(options ExcelOptions) (*ExcelExporter, error) {
	e := &ExcelExporter{
		file:    excelize.NewFile(),
		options: options,
	}

	var err error
	if options.HeaderStyle != nil {
		if e.headerStyle, err = e.createStyle(options.HeaderStyle, ""); err != nil {
			return nil, fmt.Errorf("failed to create header style: %w", err)
		}
	}
	if options.DataStyle != nil {
		if e.dataStyle, err = e.createStyle(options.DataStyle, ""); err != nil {
			return nil, fmt.Errorf("failed to create data style: %w", err)
		}
		if e.dateStyle, err = e.createStyle(options.DataStyle, options.DateFormat); err != nil {
			return nil, fmt.Errorf("failed to create date style: %w", err)
		}
		if e.numberStyle, err = e.createStyle(options.DataStyle, options.NumberFormat); err != nil {
			return nil, fmt.Errorf("failed to create number style: %w", err)
		}
	}

	return e, nil
}

// WriteSheet writes a header row and data rows to the named sheet. The
// workbook's default sheet is reused for the first call.
func (e *ExcelExporter) WriteSheet(name string, columns []string, rows [][]interface{}) error {
	if err := e.ensureSheet(name); err != nil {
		return err
	}

	widths := make([]float64, len(columns))
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := e.file.SetCellValue(name, cell, col); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if e.headerStyle > 0 {
			e.file.SetCellStyle(name, cell, cell, e.headerStyle)
		}
		widths[i] = estimateCellWidth(col)
	}

	for r, row := range rows {
		for c, val := range row {
			if c >= len(columns) {
				break
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := e.setCellValue(name, cell, val); err != nil {
				return fmt.Errorf("failed to set cell value: %w", err)
			}
			if w := estimateCellWidth(val); w > widths[c] {
				widths[c] = w
			}
		}
	}

	if e.options.FreezeHeader {
		e.file.SetPanes(name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}

	if e.options.AutoFilter && len(rows) > 0 {
		lastCol, _ := excelize.CoordinatesToCellName(len(columns), len(rows)+1)
		e.file.AutoFilter(name, "A1:"+lastCol, nil)
	}

	if e.options.AutoWidth {
		for i, width := range widths {
			col, _ := excelize.ColumnNumberToName(i + 1)
			e.file.SetColWidth(name, col, col, clamp(width, 10, 50))
		}
	}

	return nil
}

// WriteTo writes the workbook to w
func (e *ExcelExporter) WriteTo(w io.Writer) (int64, error) {
	return e.file.WriteTo(w)
}

// Close closes the workbook
func (e *ExcelExporter) Close() error {
	return e.file.Close()
}

// WriteScenarioWorkbook writes the scenario and methodology sheets to w
func WriteScenarioWorkbook(w io.Writer, rows []ScenarioRow) error {
	e, err := NewExcelExporter(DefaultExcelOptions())
	if err != nil {
		return err
	}
	defer e.Close()

	scenarioRows := make([][]interface{}, 0, len(rows))
	var methodologyRows [][]interface{}
	for _, r := range rows {
		scenarioRows = append(scenarioRows, r.values())
		methodologyRows = append(methodologyRows, r.methodologyValues()...)
	}

	if err := e.WriteSheet(ScenarioSheet, scenarioColumns, scenarioRows); err != nil {
		return err
	}
	if err := e.WriteSheet(MethodologySheet, methodologyColumns, methodologyRows); err != nil {
		return err
	}

	if _, err := e.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ===== Helpers =====

// ensureSheet renames the default sheet on first use, then adds new ones
func (e *ExcelExporter) ensureSheet(name string) error {
	sheets := e.file.GetSheetList()
	if len(sheets) == 1 && sheets[0] == "Sheet1" && name != "Sheet1" {
		return e.file.SetSheetName("Sheet1", name)
	}
	if idx, _ := e.file.GetSheetIndex(name); idx >= 0 {
		return nil
	}
	if _, err := e.file.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	return nil
}

// createStyle creates an Excel style from config
func (e *ExcelExporter) createStyle(config *ExcelStyleConfig, numFmt string) (int, error) {
	style := &excelize.Style{
		Font: &excelize.Font{
			Bold:  config.FontBold,
			Size:  float64(config.FontSize),
			Color: config.FontColor,
		},
	}

	if config.FillColor != "" {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{config.FillColor},
		}
	}

	if config.Alignment != "" {
		style.Alignment = &excelize.Alignment{Horizontal: config.Alignment}
	}

	if config.Border {
		style.Border = []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		}
	}

	if numFmt != "" {
		style.CustomNumFmt = &numFmt
	}

	return e.file.NewStyle(style)
}

// setCellValue sets a cell value with the style matching its type
func (e *ExcelExporter) setCellValue(sheet, cell string, val interface{}) error {
	style := e.dataStyle

	switch v := val.(type) {
	case nil:
		val = ""
	case time.Time:
		if v.IsZero() {
			val = ""
		} else {
			style = e.dateStyle
		}
	case float64:
		style = e.numberStyle
	}

	if err := e.file.SetCellValue(sheet, cell, val); err != nil {
		return err
	}
	if style > 0 {
		return e.file.SetCellStyle(sheet, cell, cell, style)
	}
	return nil
}

// estimateCellWidth estimates the display width of a cell value
func estimateCellWidth(val interface{}) float64 {
	switch v := val.(type) {
	case nil:
		return 0
	case time.Time:
		return 18
	case float64:
		return float64(len(FormatNumber(v, 2))) * 1.2
	default:
		return float64(len(fmt.Sprintf("%v", v))) * 1.2
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

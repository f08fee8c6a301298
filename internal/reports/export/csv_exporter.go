package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// CSVExporter exports rows to CSV
type CSVExporter struct {
	writer        *csv.Writer
	options       CSVOptions
	headerWritten bool
}

// CSVOptions configures CSV export behavior
type CSVOptions struct {
	Delimiter       rune
	TimestampFormat string
}

// DefaultCSVOptions returns default CSV export options
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:       ',',
		TimestampFormat: time.RFC3339,
	}
}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter(w io.Writer, options CSVOptions) *CSVExporter {
	writer := csv.NewWriter(w)
	if options.Delimiter != 0 {
		writer.Comma = options.Delimiter
	}

	return &CSVExporter{
		writer:  writer,
		options: options,
	}
}

// WriteHeader writes the header row once
func (e *CSVExporter) WriteHeader(columns []string) error {
	if e.headerWritten {
		return nil
	}
	if err := e.writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	e.headerWritten = true
	return nil
}

// WriteRow writes a single row of data
func (e *CSVExporter) WriteRow(row []interface{}) error {
	record := make([]string, len(row))
	for i, val := range row {
		record[i] = e.formatValue(val)
	}

	if err := e.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// Flush writes any buffered data to the underlying writer
func (e *CSVExporter) Flush() error {
	e.writer.Flush()
	return e.writer.Error()
}

// WriteScenarioCSV writes one row per scenario to w
func WriteScenarioCSV(w io.Writer, rows []ScenarioRow) error {
	e := NewCSVExporter(w, DefaultCSVOptions())
	if err := e.WriteHeader(scenarioColumns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := e.WriteRow(r.values()); err != nil {
			return err
		}
	}
	return e.Flush()
}

// formatValue formats a value for CSV output. Numbers keep a dot decimal
// separator so files stay machine readable.
func (e *CSVExporter) formatValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(e.options.TimestampFormat)
	default:
		return fmt.Sprintf("%v", v)
	}
}

package reports

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrArchiveNotFound is returned when an archive record does not exist
	ErrArchiveNotFound = errors.New("report archive not found")
	// ErrInvalidFormat rejects unsupported export formats
	ErrInvalidFormat = errors.New("invalid export format")
)

// ReportKind identifies what a generated document contains
type ReportKind string

const (
	ReportKindCredit   ReportKind = "credit_report"
	ReportKindEmission ReportKind = "emission_report"
	ReportKindExport   ReportKind = "scenario_export"
)

// ExportFormat represents the file format of a generated document
type ExportFormat string

const (
	ExportFormatPDF   ExportFormat = "pdf"
	ExportFormatCSV   ExportFormat = "csv"
	ExportFormatExcel ExportFormat = "xlsx"
)

// ContentType returns the MIME type served for the format
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatPDF:
		return "application/pdf"
	case ExportFormatCSV:
		return "text/csv"
	case ExportFormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// ParseExportFormat validates a tabular export format
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch f := ExportFormat(raw); f {
	case ExportFormatCSV, ExportFormatExcel:
		return f, nil
	case "excel":
		return ExportFormatExcel, nil
	default:
		return "", ErrInvalidFormat
	}
}

// Document is a rendered report ready to be served or archived
type Document struct {
	Kind     ReportKind
	Format   ExportFormat
	Filename string
	Content  []byte
}

// Archive records a document stored in object storage
type Archive struct {
	ID        uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Kind      ReportKind   `gorm:"size:30;not null" json:"kind"`
	SubjectID *uuid.UUID   `gorm:"type:uuid" json:"subject_id,omitempty"`
	Format    ExportFormat `gorm:"size:10;not null" json:"format"`
	Bucket    string       `gorm:"size:255;not null" json:"bucket"`
	ObjectKey string       `gorm:"size:500;not null" json:"object_key"`
	SizeBytes int64        `gorm:"not null;default:0" json:"size_bytes"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

// TableName overrides the table name
func (Archive) TableName() string {
	return "report_archives"
}

// ArchivedDocument is the response for an archived document
type ArchivedDocument struct {
	Archive      *Archive  `json:"archive"`
	DownloadURL  string    `json:"download_url"`
	URLExpiresAt time.Time `json:"url_expires_at"`
}

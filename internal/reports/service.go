package reports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/properties"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/reports/export"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/scenarios"
	"carbon-scribe/agro-carbon/agro-carbon-backend/pkg/storage"
)

// ScenarioSource reads saved scenarios
type ScenarioSource interface {
	GetScenario(ctx context.Context, id uuid.UUID) (*scenarios.Scenario, error)
	ListScenarios(ctx context.Context) ([]scenarios.Scenario, error)
}

// PropertySource reads registered properties
type PropertySource interface {
	GetProperty(ctx context.Context, id uuid.UUID) (*properties.Property, error)
}

// ArchiveOptions locates archived documents in object storage
type ArchiveOptions struct {
	Bucket         string
	Prefix         string
	PresignExpires time.Duration
}

// Service renders reports and archives them
type Service struct {
	scenarios  ScenarioSource
	properties PropertySource
	repo       Repository
	store      storage.S3Client
	archive    ArchiveOptions
	price      float64
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a new reports service. store may be nil, in which case
// archiving is unavailable.
func NewService(
	scenarioSource ScenarioSource,
	propertySource PropertySource,
	repo Repository,
	store storage.S3Client,
	archive ArchiveOptions,
	price float64,
	logger *zap.Logger,
) *Service {
	if archive.PresignExpires <= 0 {
		archive.PresignExpires = 15 * time.Minute
	}
	return &Service{
		scenarios:  scenarioSource,
		properties: propertySource,
		repo:       repo,
		store:      store,
		archive:    archive,
		price:      price,
		logger:     logger,
		now:        time.Now,
	}
}

// =====================================================
// Rendering
// =====================================================

// CreditReport renders the PDF credit report of a scenario
func (s *Service) CreditReport(ctx context.Context, id uuid.UUID) (*Document, error) {
	sc, err := s.scenarios.GetScenario(ctx, id)
	if err != nil {
		return nil, err
	}

	content, err := export.RenderCreditReport(export.CreditReport{
		ScenarioName:   sc.Name,
		CalculatedAt:   sc.CalculatedAt,
		Input:          sc.Input(),
		Result:         sc.CreditResult(),
		CreditPrice:    calculation.EstimateValue(1, s.price),
		EstimatedValue: sc.EstimatedValue,
	}, s.pdfOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to render credit report: %w", err)
	}

	return &Document{
		Kind:     ReportKindCredit,
		Format:   ExportFormatPDF,
		Filename: fmt.Sprintf("credit-report-%s.pdf", sc.ID),
		Content:  content,
	}, nil
}

// EmissionReport renders the PDF emission report of a property
func (s *Service) EmissionReport(ctx context.Context, id uuid.UUID) (*Document, error) {
	p, err := s.properties.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	report := export.EmissionReport{
		PropertyName:  p.Name,
		Location:      p.Location,
		TotalAreaHa:   p.TotalAreaHa,
		PastureAreaHa: p.PastureAreaHa,
	}

	if p.Emission != nil {
		report.CalculatedAt = p.Emission.CalculatedAt
		report.Emissions = p.Emission.Result()
		report.CreditPotential = p.Emission.CreditPotentialTCO2e
		for _, r := range p.Recommendations {
			report.Recommendations = append(report.Recommendations, calculation.Recommendation{
				Action:                   r.Action,
				Description:              r.Description,
				PotentialReductionKgCo2e: r.PotentialReductionKgCO2e,
			})
		}
	} else {
		a := calculation.Assess(p.EmissionInput(), p.PastureAreaHa)
		report.CalculatedAt = s.now()
		report.Emissions = a.Emissions
		report.CreditPotential = a.CreditPotential
		report.Recommendations = a.Recommendations
	}

	content, err := export.RenderEmissionReport(report, s.pdfOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to render emission report: %w", err)
	}

	return &Document{
		Kind:     ReportKindEmission,
		Format:   ExportFormatPDF,
		Filename: fmt.Sprintf("emission-report-%s.pdf", p.ID),
		Content:  content,
	}, nil
}

// ExportScenarios renders every saved scenario as CSV or Excel
func (s *Service) ExportScenarios(ctx context.Context, format ExportFormat) (*Document, error) {
	list, err := s.scenarios.ListScenarios(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	rows := make([]export.ScenarioRow, 0, len(list))
	for i := range list {
		sc := &list[i]
		rows = append(rows, export.ScenarioRow{
			ID:             sc.ID.String(),
			Name:           sc.Name,
			CalculatedAt:   sc.CalculatedAt,
			Input:          sc.Input(),
			Result:         sc.CreditResult(),
			EstimatedValue: sc.EstimatedValue,
		})
	}

	var buf bytes.Buffer
	switch format {
	case ExportFormatCSV:
		err = export.WriteScenarioCSV(&buf, rows)
	case ExportFormatExcel:
		err = export.WriteScenarioWorkbook(&buf, rows)
	default:
		return nil, ErrInvalidFormat
	}
	if err != nil {
		return nil, fmt.Errorf("failed to export scenarios: %w", err)
	}

	s.logger.Info("Scenarios exported",
		zap.String("format", string(format)),
		zap.Int("scenarios", len(rows)))

	return &Document{
		Kind:     ReportKindExport,
		Format:   format,
		Filename: fmt.Sprintf("scenarios-%s.%s", s.now().Format("20060102"), format),
		Content:  buf.Bytes(),
	}, nil
}

// =====================================================
// Archiving
// =====================================================

// ArchiveEnabled reports whether documents can be archived
func (s *Service) ArchiveEnabled() bool {
	return s.store != nil && s.archive.Bucket != ""
}

// Archive uploads a document, records it and returns a download URL
func (s *Service) Archive(ctx context.Context, doc *Document, subjectID *uuid.UUID) (*ArchivedDocument, error) {
	if !s.ArchiveEnabled() {
		return nil, storage.ErrNotConfigured
	}

	id := uuid.New()
	key := fmt.Sprintf("%s%s/%s.%s", s.archive.Prefix, doc.Kind, id, doc.Format)

	if err := s.store.Upload(ctx, s.archive.Bucket, key, doc.Format.ContentType(), bytes.NewReader(doc.Content)); err != nil {
		s.logger.Error("Failed to upload report", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to archive report: %w", err)
	}

	archive := &Archive{
		ID:        id,
		Kind:      doc.Kind,
		SubjectID: subjectID,
		Format:    doc.Format,
		Bucket:    s.archive.Bucket,
		ObjectKey: key,
		SizeBytes: int64(len(doc.Content)),
	}
	if err := s.repo.CreateArchive(ctx, archive); err != nil {
		// an object without a record is unreachable
		if delErr := s.store.Delete(ctx, s.archive.Bucket, key); delErr != nil {
			s.logger.Error("Failed to remove unrecorded report",
				zap.String("key", key),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to record archive: %w", err)
	}

	s.logger.Info("Report archived",
		zap.String("archive_id", id.String()),
		zap.String("kind", string(doc.Kind)),
		zap.Int64("size_bytes", archive.SizeBytes))

	return s.presign(ctx, archive)
}

// ArchiveURL returns a fresh download URL for an archived document
func (s *Service) ArchiveURL(ctx context.Context, id uuid.UUID) (*ArchivedDocument, error) {
	if !s.ArchiveEnabled() {
		return nil, storage.ErrNotConfigured
	}

	archive, err := s.repo.GetArchive(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.presign(ctx, archive)
}

// OpenArchive streams an archived document from object storage. The caller
// closes the returned reader.
func (s *Service) OpenArchive(ctx context.Context, id uuid.UUID) (*Archive, io.ReadCloser, error) {
	if !s.ArchiveEnabled() {
		return nil, nil, storage.ErrNotConfigured
	}

	archive, err := s.repo.GetArchive(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	body, err := s.store.Download(ctx, archive.Bucket, archive.ObjectKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return archive, body, nil
}

// ListArchives lists archived documents, newest first
func (s *Service) ListArchives(ctx context.Context, subjectID *uuid.UUID, limit int) ([]Archive, error) {
	archives, err := s.repo.ListArchives(ctx, subjectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}
	if archives == nil {
		archives = []Archive{}
	}
	return archives, nil
}

// ===== Helpers =====

func (s *Service) presign(ctx context.Context, archive *Archive) (*ArchivedDocument, error) {
	url, err := s.store.GetPresignedURL(ctx, archive.Bucket, archive.ObjectKey, s.archive.PresignExpires)
	if err != nil {
		return nil, fmt.Errorf("failed to create download url: %w", err)
	}
	return &ArchivedDocument{
		Archive:      archive,
		DownloadURL:  url,
		URLExpiresAt: s.now().Add(s.archive.PresignExpires),
	}, nil
}

func (s *Service) pdfOptions() export.PDFOptions {
	opts := export.DefaultPDFOptions()
	opts.Now = s.now
	return opts
}

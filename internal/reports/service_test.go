package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/properties"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/reports/export"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/scenarios"
)

// ===== Mocks =====

type MockScenarioSource struct {
	mock.Mock
}

func (m *MockScenarioSource) GetScenario(ctx context.Context, id uuid.UUID) (*scenarios.Scenario, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scenarios.Scenario), args.Error(1)
}

func (m *MockScenarioSource) ListScenarios(ctx context.Context) ([]scenarios.Scenario, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scenarios.Scenario), args.Error(1)
}

type MockPropertySource struct {
	mock.Mock
}

func (m *MockPropertySource) GetProperty(ctx context.Context, id uuid.UUID) (*properties.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*properties.Property), args.Error(1)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateArchive(ctx context.Context, archive *Archive) error {
	return m.Called(ctx, archive).Error(0)
}

func (m *MockRepository) GetArchive(ctx context.Context, id uuid.UUID) (*Archive, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Archive), args.Error(1)
}

func (m *MockRepository) ListArchives(ctx context.Context, subjectID *uuid.UUID, limit int) ([]Archive, error) {
	args := m.Called(ctx, subjectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Archive), args.Error(1)
}

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) error {
	return m.Called(ctx, bucket, key, contentType, body).Error(0)
}

func (m *MockS3Client) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockS3Client) Delete(ctx context.Context, bucket, key string) error {
	return m.Called(ctx, bucket, key).Error(0)
}

func (m *MockS3Client) GetPresignedURL(ctx context.Context, bucket, key string, expiration time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, expiration)
	return args.String(0), args.Error(1)
}

// ===== Fixtures =====

func newScenario(name string, in calculation.CreditInput) *scenarios.Scenario {
	sc := scenarios.NewScenario(name, in, calculation.ComputeCredits(in), calculation.DefaultCreditPrice)
	sc.ID = uuid.New()
	sc.CalculatedAt = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return sc
}

type fixture struct {
	scenarios  *MockScenarioSource
	properties *MockPropertySource
	repo       *MockRepository
	store      *MockS3Client
	service    *Service
}

func newFixture(withStore bool) *fixture {
	f := &fixture{
		scenarios:  new(MockScenarioSource),
		properties: new(MockPropertySource),
		repo:       new(MockRepository),
		store:      new(MockS3Client),
	}
	opts := ArchiveOptions{Bucket: "agro-reports", Prefix: "reports/", PresignExpires: 10 * time.Minute}
	if withStore {
		f.service = NewService(f.scenarios, f.properties, f.repo, f.store, opts, 50, zap.NewNop())
	} else {
		f.service = NewService(f.scenarios, f.properties, f.repo, nil, ArchiveOptions{}, 50, zap.NewNop())
	}
	f.service.now = func() time.Time { return time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC) }
	return f
}

// ===== Service =====

func TestCreditReport(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	sc := newScenario("Fazenda Norte", calculation.CreditInput{PastureAreaHa: 100, ForestAreaHa: 50})
	f.scenarios.On("GetScenario", ctx, sc.ID).Return(sc, nil)

	doc, err := f.service.CreditReport(ctx, sc.ID)

	require.NoError(t, err)
	assert.Equal(t, ReportKindCredit, doc.Kind)
	assert.Equal(t, ExportFormatPDF, doc.Format)
	assert.Equal(t, "credit-report-"+sc.ID.String()+".pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF")))
}

func TestCreditReport_NotFound(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	id := uuid.New()
	f.scenarios.On("GetScenario", ctx, id).Return(nil, scenarios.ErrNotFound)

	_, err := f.service.CreditReport(ctx, id)
	assert.ErrorIs(t, err, scenarios.ErrNotFound)
}

func TestEmissionReport_WithoutStoredCalculation(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	p := &properties.Property{ID: uuid.New(), Name: "Sítio Boa Sorte", CattleCount: 10, PastureAreaHa: 20}
	f.properties.On("GetProperty", ctx, p.ID).Return(p, nil)

	doc, err := f.service.EmissionReport(ctx, p.ID)

	require.NoError(t, err)
	assert.Equal(t, ReportKindEmission, doc.Kind)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF")))
}

func TestExportScenarios(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	list := []scenarios.Scenario{
		*newScenario("B", calculation.CreditInput{ForestAreaHa: 1}),
		*newScenario("A", calculation.CreditInput{PastureAreaHa: 10, CropRenewalAreaHa: 10}),
	}
	f.scenarios.On("ListScenarios", ctx).Return(list, nil)

	doc, err := f.service.ExportScenarios(ctx, ExportFormatExcel)
	require.NoError(t, err)
	assert.Equal(t, "scenarios-20260502.xlsx", doc.Filename)

	wb, err := excelize.OpenReader(bytes.NewReader(doc.Content))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(export.MethodologySheet)
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	_, err = f.service.ExportScenarios(ctx, ExportFormat("pdf"))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestArchive(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	subject := uuid.New()
	doc := &Document{Kind: ReportKindCredit, Format: ExportFormatPDF, Filename: "r.pdf", Content: []byte("%PDF-1.3")}

	f.store.On("Upload", ctx, "agro-reports",
		mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "reports/credit_report/") && strings.HasSuffix(key, ".pdf")
		}),
		"application/pdf", mock.Anything).Return(nil)
	f.repo.On("CreateArchive", ctx, mock.AnythingOfType("*reports.Archive")).Return(nil)
	f.store.On("GetPresignedURL", ctx, "agro-reports", mock.Anything, 10*time.Minute).Return("https://s3.example/r.pdf?sig", nil)

	archived, err := f.service.Archive(ctx, doc, &subject)

	require.NoError(t, err)
	assert.Equal(t, "https://s3.example/r.pdf?sig", archived.DownloadURL)
	assert.Equal(t, int64(8), archived.Archive.SizeBytes)
	assert.Equal(t, &subject, archived.Archive.SubjectID)
	assert.Equal(t, time.Date(2026, 5, 2, 8, 10, 0, 0, time.UTC), archived.URLExpiresAt)
	f.store.AssertExpectations(t)
	f.repo.AssertExpectations(t)
}

func TestArchive_RecordFailureRemovesObject(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	doc := &Document{Kind: ReportKindCredit, Format: ExportFormatPDF, Content: []byte("%PDF-1.3")}

	var uploaded string
	f.store.On("Upload", ctx, "agro-reports", mock.Anything, "application/pdf", mock.Anything).
		Run(func(args mock.Arguments) { uploaded = args.String(2) }).
		Return(nil)
	f.repo.On("CreateArchive", ctx, mock.Anything).Return(errors.New("db down"))
	f.store.On("Delete", ctx, "agro-reports", mock.Anything).Return(nil)

	_, err := f.service.Archive(ctx, doc, nil)

	require.ErrorContains(t, err, "failed to record archive: db down")
	f.store.AssertCalled(t, "Delete", ctx, "agro-reports", uploaded)
	f.store.AssertNotCalled(t, "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestArchive_CleanupFailureKeepsRecordError(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	doc := &Document{Kind: ReportKindExport, Format: ExportFormatCSV, Content: []byte("ID\n")}

	f.store.On("Upload", ctx, "agro-reports", mock.Anything, "text/csv", mock.Anything).Return(nil)
	f.repo.On("CreateArchive", ctx, mock.Anything).Return(errors.New("db down"))
	f.store.On("Delete", ctx, "agro-reports", mock.Anything).Return(errors.New("s3 down"))

	_, err := f.service.Archive(ctx, doc, nil)

	assert.ErrorContains(t, err, "db down")
	f.store.AssertExpectations(t)
}

func TestArchive_NotConfigured(t *testing.T) {
	f := newFixture(false)

	_, err := f.service.Archive(context.Background(), &Document{}, nil)
	assert.Error(t, err)
	assert.False(t, f.service.ArchiveEnabled())
}

// ===== Handler =====

func newRouter(f *fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(f.service, zap.NewNop()).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestHandler_CreditReportDownload(t *testing.T) {
	f := newFixture(false)
	sc := newScenario("Download", calculation.CreditInput{IntegratedCropLivestockAreaHa: 5})
	f.scenarios.On("GetScenario", mock.Anything, sc.ID).Return(sc, nil)

	w := httptest.NewRecorder()
	newRouter(f).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/scenarios/"+sc.ID.String()+"/report", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "credit-report-")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestHandler_ArchiveWithoutStorage(t *testing.T) {
	f := newFixture(false)
	sc := newScenario("Archive", calculation.CreditInput{PastureAreaHa: 1})
	f.scenarios.On("GetScenario", mock.Anything, sc.ID).Return(sc, nil)

	w := httptest.NewRecorder()
	newRouter(f).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/scenarios/"+sc.ID.String()+"/report?archive=true", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandler_ExportCSV(t *testing.T) {
	f := newFixture(false)
	f.scenarios.On("ListScenarios", mock.Anything).Return([]scenarios.Scenario{}, nil)
	router := newRouter(f)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/scenarios/export", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "ID,Name,Calculated At"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/scenarios/export?format=json", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_PropertyReportErrors(t *testing.T) {
	f := newFixture(false)
	id := uuid.New()
	f.properties.On("GetProperty", mock.Anything, id).Return(nil, properties.ErrNotFound)
	router := newRouter(f)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/properties/"+id.String()+"/report", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/properties/bad/report", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_DownloadArchive(t *testing.T) {
	f := newFixture(true)
	archive := &Archive{
		ID:        uuid.New(),
		Kind:      ReportKindCredit,
		Format:    ExportFormatPDF,
		Bucket:    "agro-reports",
		ObjectKey: "reports/credit_report/x.pdf",
		SizeBytes: 8,
	}
	f.repo.On("GetArchive", mock.Anything, archive.ID).Return(archive, nil)
	f.store.On("Download", mock.Anything, "agro-reports", archive.ObjectKey).
		Return(io.NopCloser(strings.NewReader("%PDF-1.3")), nil)

	missing := uuid.New()
	f.repo.On("GetArchive", mock.Anything, missing).Return(nil, ErrArchiveNotFound)
	router := newRouter(f)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/archives/"+archive.ID.String()+"/download", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "credit_report-"+archive.ID.String()+".pdf")
	assert.Equal(t, "%PDF-1.3", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/archives/"+missing.String()+"/download", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_ListArchives(t *testing.T) {
	f := newFixture(true)
	subject := uuid.New()
	f.repo.On("ListArchives", mock.Anything, &subject, 5).Return(nil, nil)

	w := httptest.NewRecorder()
	newRouter(f).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/archives?limit=5&subject_id="+subject.String(), nil))

	require.Equal(t, http.StatusOK, w.Code)
	var archives []Archive
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &archives))
	assert.Empty(t, archives)
}

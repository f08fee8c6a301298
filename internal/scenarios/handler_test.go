package scenarios

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
)

func newTestRouter(repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc := NewService(repo, zap.NewNop(), calculation.DefaultCreditPrice)
	NewHandler(svc, zap.NewNop()).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestHandler_CreateScenarioJSON(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*scenarios.Scenario")).Return(nil)
	router := newTestRouter(mockRepo)

	body := `{"name": "Farm A", "pasture_area_ha": "100", "forest_area_ha": 50, "integrated_area_ha": "n/a"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scenarios", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var got Scenario
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Farm A", got.Name)
	assert.Equal(t, 450.0, got.TotalCredits)
	assert.Equal(t, 0.0, got.IntegratedAreaHa)
	assert.Len(t, got.CreditResult().Methodologies, 2)
}

func TestHandler_CreateScenarioForm(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*scenarios.Scenario")).Return(nil)
	router := newTestRouter(mockRepo)

	form := url.Values{}
	form.Set("name", "Form farm")
	form.Set("crop_renewal_area_ha", "10")
	form.Set("forest_area_ha", "abc")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scenarios", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Form farm"`)
}

func TestHandler_CreateScenarioRequiresArea(t *testing.T) {
	router := newTestRouter(new(MockRepository))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scenarios", strings.NewReader(`{"name": "zero"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least one area")
}

func TestHandler_CreateScenarioMalformedBody(t *testing.T) {
	router := newTestRouter(new(MockRepository))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scenarios", strings.NewReader(`{"name": `))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestHandler_GetScenario(t *testing.T) {
	mockRepo := new(MockRepository)
	router := newTestRouter(mockRepo)

	missing := uuid.New()
	mockRepo.On("GetByID", mock.Anything, missing).Return(nil, ErrNotFound)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/scenarios/"+missing.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/scenarios/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ListAndDelete(t *testing.T) {
	mockRepo := new(MockRepository)
	router := newTestRouter(mockRepo)

	in := calculation.CreditInput{PastureAreaHa: 4}
	stored := *NewScenario("one", in, calculation.ComputeCredits(in), 50)
	stored.ID = uuid.New()

	mockRepo.On("List", mock.Anything).Return([]Scenario{stored}, nil)
	mockRepo.On("Delete", mock.Anything, stored.ID).Return(nil)
	mockRepo.On("DeleteAll", mock.Anything).Return(int64(1), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/scenarios", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var list []Scenario
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, stored.ID, list[0].ID)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/scenarios/"+stored.ID.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/scenarios", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted": 1}`, w.Body.String())

	mockRepo.AssertExpectations(t)
}

func TestHandler_ScenarioImpact(t *testing.T) {
	mockRepo := new(MockRepository)
	router := newTestRouter(mockRepo)

	in := calculation.CreditInput{PastureAreaHa: 20}
	stored := NewScenario("impact", in, calculation.ComputeCredits(in), 50)
	stored.ID = uuid.New()
	mockRepo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/scenarios/"+stored.ID.String()+"/impact", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var impact Impact
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &impact))
	assert.Equal(t, 10.0, impact.TotalCredits)
	assert.Len(t, impact.Categories, 4)
}

package calculator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(calculation.DefaultCreditPrice, zap.NewNop()).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCalculateEmissions(t *testing.T) {
	w := postJSON(newRouter(), "/api/v1/calculations/emissions",
		`{"agricultural_area_ha": 10, "fertilizer_use_kg_ha_year": "100", "cattle_count": 50, "fuel_liters_year": 1000, "pasture_area_ha": 100}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp EmissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 77360.0, resp.TotalKgCO2e)
	assert.Equal(t, 70000.0, resp.Details["livestock"])
	assert.Equal(t, 50.0, resp.CreditPotential)
	assert.Len(t, resp.Recommendations, 5)
}

func TestCalculateEmissions_FormWithGarbage(t *testing.T) {
	form := url.Values{}
	form.Set("cattle_count", "ten")
	form.Set("fuel_liters_year", "100")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculations/emissions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp EmissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 268.0, resp.TotalKgCO2e)
	assert.Equal(t, 0.0, resp.Emissions.Livestock)
}

func TestCalculateEmissions_CattleCountSameForJSONAndForm(t *testing.T) {
	router := newRouter()

	for _, raw := range []string{"2.5", "3e9", "1e20", "12"} {
		jsonResp := postJSON(router, "/api/v1/calculations/emissions", `{"cattle_count": "`+raw+`"}`)
		require.Equal(t, http.StatusOK, jsonResp.Code)

		form := url.Values{}
		form.Set("cattle_count", raw)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/calculations/emissions", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		formResp := httptest.NewRecorder()
		router.ServeHTTP(formResp, req)
		require.Equal(t, http.StatusOK, formResp.Code)

		var fromJSON, fromForm EmissionResponse
		require.NoError(t, json.Unmarshal(jsonResp.Body.Bytes(), &fromJSON))
		require.NoError(t, json.Unmarshal(formResp.Body.Bytes(), &fromForm))

		assert.Equal(t, fromForm.Emissions.Livestock, fromJSON.Emissions.Livestock, "cattle_count=%s", raw)
		assert.GreaterOrEqual(t, fromJSON.Input.CattleCount, 0, "cattle_count=%s", raw)
	}
}

func TestCalculateEmissions_HugeCattleNumber(t *testing.T) {
	w := postJSON(newRouter(), "/api/v1/calculations/emissions", `{"cattle_count": 1e20}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp EmissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Input.CattleCount)
	assert.Equal(t, 0.0, resp.Emissions.Livestock)
}

func TestCalculateCredits(t *testing.T) {
	w := postJSON(newRouter(), "/api/v1/calculations/credits", `{"pasture_area_ha": 100, "forest_area_ha": 50}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CreditResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 450.0, resp.Total)
	assert.Equal(t, 22500.0, resp.EstimatedValue)
	assert.Equal(t, 150.0, resp.TotalAreaHa)
	require.Len(t, resp.Active, 2)
	assert.Equal(t, calculation.MethodologyPasture, resp.Active[0].Key)
	assert.Equal(t, calculation.MethodologyForest, resp.Active[1].Key)
}

func TestCalculateCredits_AllZeroRejected(t *testing.T) {
	w := postJSON(newRouter(), "/api/v1/calculations/credits", `{"pasture_area_ha": "x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least one area must be greater than zero")
}

func TestCalculateCredits_MalformedJSON(t *testing.T) {
	w := postJSON(newRouter(), "/api/v1/calculations/credits", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalculateImpact(t *testing.T) {
	w := postJSON(newRouter(), "/api/v1/calculations/impact", `{"total_tco2e": 10}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total      float64                      `json:"total_tco2e"`
		Categories []calculation.ImpactCategory `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 10.0, resp.Total)
	require.Len(t, resp.Categories, 4)
	assert.Equal(t, 150.0, resp.Categories[2].Impacts[0].Value)
}

func TestListMethodologies(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/methodologies", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var table []calculation.Methodology
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &table))
	require.Len(t, table, 4)
	assert.Equal(t, 8.0, table[1].Factor)
}

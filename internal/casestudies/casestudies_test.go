package casestudies

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
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
	NewHandler(zap.NewNop()).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestAll_ResolvesMethodologies(t *testing.T) {
	studies := All()
	require.Len(t, studies, 3)

	codes := []string{"VCS VM0032", "AR-ACM0003", "VCS VM0017"}
	for i, s := range studies {
		assert.Equal(t, i+1, s.ID)
		assert.Equal(t, codes[i], s.Methodology.Code)

		m, ok := calculation.LookupMethodology(s.Methodology.Key)
		require.True(t, ok, "case study %d", s.ID)
		assert.Equal(t, m, s.Methodology)
	}
}

func TestLookup(t *testing.T) {
	s, err := Lookup(2)
	require.NoError(t, err)
	assert.Equal(t, "Paraná", s.Location)
	assert.Equal(t, 200.0, s.AreaHa)
	assert.Equal(t, 2000.0, s.Results.CreditsGenerated)
	assert.Equal(t, 100000.0, s.Results.EstimatedValue)
	assert.Equal(t, "2022-2024", s.Results.Period)
	assert.Equal(t, "contato@florestapr.com.br", s.Contact)

	_, err = Lookup(4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAll_ReturnsCopies(t *testing.T) {
	first := All()
	first[0].Title = "changed"
	first[0].Methodology.Factor = 0

	again := All()
	assert.Equal(t, "Pasture recovery in Minas Gerais", again[0].Title)
	assert.Equal(t, calculation.PastureRecoveryFactor, again[0].Methodology.Factor)
}

func TestHandler_List(t *testing.T) {
	w := get(newRouter(), "/api/v1/case-studies")
	require.Equal(t, http.StatusOK, w.Code)

	var studies []CaseStudy
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &studies))
	require.Len(t, studies, 3)
	assert.Equal(t, "Mato Grosso", studies[2].Location)
	assert.Equal(t, calculation.MethodologyIntegrated, studies[2].Methodology.Key)
}

func TestHandler_Get(t *testing.T) {
	router := newRouter()

	w := get(router, "/api/v1/case-studies/1")
	require.Equal(t, http.StatusOK, w.Code)
	var study CaseStudy
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &study))
	assert.Equal(t, 350.0, study.Results.CreditsGenerated)
	assert.Equal(t, "VCS VM0032", study.Methodology.Code)

	tests := []struct {
		path string
		code int
	}{
		{"/api/v1/case-studies/99", http.StatusNotFound},
		{"/api/v1/case-studies/0", http.StatusNotFound},
		{"/api/v1/case-studies/-1", http.StatusNotFound},
		{"/api/v1/case-studies/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.code, get(router, tt.path).Code)
		})
	}
}

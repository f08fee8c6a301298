package scenarios

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
)

// Handler exposes scenario endpoints
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a scenario handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers scenario routes on the router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/scenarios")
	{
		group.POST("", h.createScenario)
		group.GET("", h.listScenarios)
		group.DELETE("", h.deleteAllScenarios)
		group.GET("/:id", h.getScenario)
		group.DELETE("/:id", h.deleteScenario)
		group.GET("/:id/impact", h.getScenarioImpact)
	}
}

// createScenario handles POST /api/v1/scenarios
func (h *Handler) createScenario(c *gin.Context) {
	req, err := bindCreateRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	scenario, err := h.service.CreateScenario(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, scenario)
}

// listScenarios handles GET /api/v1/scenarios
func (h *Handler) listScenarios(c *gin.Context) {
	scenarios, err := h.service.ListScenarios(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, scenarios)
}

// getScenario handles GET /api/v1/scenarios/:id
func (h *Handler) getScenario(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	scenario, err := h.service.GetScenario(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, scenario)
}

// deleteScenario handles DELETE /api/v1/scenarios/:id
func (h *Handler) deleteScenario(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteScenario(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "scenario deleted"})
}

// deleteAllScenarios handles DELETE /api/v1/scenarios
func (h *Handler) deleteAllScenarios(c *gin.Context) {
	count, err := h.service.DeleteAllScenarios(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": count})
}

// getScenarioImpact handles GET /api/v1/scenarios/:id/impact
func (h *Handler) getScenarioImpact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	impact, err := h.service.ScenarioImpact(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, impact)
}

// ===== Helpers =====

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNoArea):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Scenario request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// bindCreateRequest accepts JSON or form bodies. Numeric fields that do not
// parse are read as zero.
func bindCreateRequest(c *gin.Context) (CreateRequest, error) {
	var req CreateRequest

	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		req.Name = c.PostForm("name")
		req.PastureAreaHa = calculation.Quantity(calculation.ParseQuantity(c.PostForm("pasture_area_ha")))
		req.ForestAreaHa = calculation.Quantity(calculation.ParseQuantity(c.PostForm("forest_area_ha")))
		req.CropRenewalAreaHa = calculation.Quantity(calculation.ParseQuantity(c.PostForm("crop_renewal_area_ha")))
		req.IntegratedAreaHa = calculation.Quantity(calculation.ParseQuantity(c.PostForm("integrated_area_ha")))
		return req, nil
	default:
		err := c.ShouldBindJSON(&req)
		return req, err
	}
}

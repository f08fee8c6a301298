// Package calculator exposes the calculation functions over HTTP without
// persisting anything.
package calculator

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculation"
)

// Handler serves stateless calculation endpoints
type Handler struct {
	price  float64
	logger *zap.Logger
}

// NewHandler creates a calculator handler. price is the credit price used
// for estimated values.
func NewHandler(price float64, logger *zap.Logger) *Handler {
	return &Handler{price: price, logger: logger}
}

// RegisterRoutes registers calculation routes on the router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/methodologies", h.listMethodologies)

	calc := rg.Group("/calculations")
	{
		calc.POST("/emissions", h.calculateEmissions)
		calc.POST("/credits", h.calculateCredits)
		calc.POST("/impact", h.calculateImpact)
	}
}

// EmissionRequest is the body of POST /calculations/emissions
type EmissionRequest struct {
	AgriculturalAreaHa       calculation.Quantity `json:"agricultural_area_ha"`
	FertilizerUseKgPerHaYear calculation.Quantity `json:"fertilizer_use_kg_ha_year"`
	CattleCount              calculation.Quantity `json:"cattle_count"`
	FuelLitersYear           calculation.Quantity `json:"fuel_liters_year"`
	PastureAreaHa            calculation.Quantity `json:"pasture_area_ha"`
}

func (r EmissionRequest) input() calculation.EmissionInput {
	return calculation.EmissionInput{
		AgriculturalAreaHa:        r.AgriculturalAreaHa.Float64(),
		FertilizerUseKgPerHaYear:  r.FertilizerUseKgPerHaYear.Float64(),
		CattleCount:               r.CattleCount.Count(),
		FuelConsumptionLitersYear: r.FuelLitersYear.Float64(),
	}
}

// EmissionResponse carries raw results and two-decimal display values
type EmissionResponse struct {
	calculation.Assessment
	TotalKgCO2e float64            `json:"total_kg_co2e"`
	Details     map[string]float64 `json:"details"`
}

// CreditRequest is the body of POST /calculations/credits
type CreditRequest struct {
	PastureAreaHa     calculation.Quantity `json:"pasture_area_ha"`
	ForestAreaHa      calculation.Quantity `json:"forest_area_ha"`
	CropRenewalAreaHa calculation.Quantity `json:"crop_renewal_area_ha"`
	IntegratedAreaHa  calculation.Quantity `json:"integrated_area_ha"`
}

func (r CreditRequest) input() calculation.CreditInput {
	return calculation.CreditInput{
		PastureAreaHa:                 r.PastureAreaHa.Float64(),
		ForestAreaHa:                  r.ForestAreaHa.Float64(),
		CropRenewalAreaHa:             r.CropRenewalAreaHa.Float64(),
		IntegratedCropLivestockAreaHa: r.IntegratedAreaHa.Float64(),
	}
}

// CreditResponse is a credit result with its ordered view and price estimate
type CreditResponse struct {
	calculation.CreditResult
	Active         []calculation.ActiveMethodology `json:"active_methodologies"`
	TotalAreaHa    float64                         `json:"total_area_ha"`
	EstimatedValue float64                         `json:"estimated_value"`
	CreditPrice    float64                         `json:"credit_price"`
}

// ImpactRequest is the body of POST /calculations/impact
type ImpactRequest struct {
	TotalTCO2e calculation.Quantity `json:"total_tco2e"`
}

// listMethodologies handles GET /api/v1/methodologies
func (h *Handler) listMethodologies(c *gin.Context) {
	c.JSON(http.StatusOK, calculation.Methodologies())
}

// calculateEmissions handles POST /api/v1/calculations/emissions
func (h *Handler) calculateEmissions(c *gin.Context) {
	var req EmissionRequest
	if !bind(c, &req, func() {
		req.AgriculturalAreaHa = formQuantity(c, "agricultural_area_ha")
		req.FertilizerUseKgPerHaYear = formQuantity(c, "fertilizer_use_kg_ha_year")
		req.CattleCount = calculation.Quantity(calculation.ParseCount(c.PostForm("cattle_count")))
		req.FuelLitersYear = formQuantity(c, "fuel_liters_year")
		req.PastureAreaHa = formQuantity(c, "pasture_area_ha")
	}) {
		return
	}

	a := calculation.Assess(req.input(), req.PastureAreaHa.Float64())

	c.JSON(http.StatusOK, EmissionResponse{
		Assessment:  a,
		TotalKgCO2e: calculation.Round(a.Emissions.Total, 2),
		Details: map[string]float64{
			"agriculture": calculation.Round(a.Emissions.Agriculture, 2),
			"livestock":   calculation.Round(a.Emissions.Livestock, 2),
			"fuel":        calculation.Round(a.Emissions.Fuel, 2),
		},
	})
}

// calculateCredits handles POST /api/v1/calculations/credits
func (h *Handler) calculateCredits(c *gin.Context) {
	var req CreditRequest
	if !bind(c, &req, func() {
		req.PastureAreaHa = formQuantity(c, "pasture_area_ha")
		req.ForestAreaHa = formQuantity(c, "forest_area_ha")
		req.CropRenewalAreaHa = formQuantity(c, "crop_renewal_area_ha")
		req.IntegratedAreaHa = formQuantity(c, "integrated_area_ha")
	}) {
		return
	}

	in := req.input()
	if !in.HasArea() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one area must be greater than zero"})
		return
	}

	res := calculation.ComputeCredits(in)
	h.logger.Debug("Credits calculated",
		zap.Float64("total_credits", res.Total),
		zap.Int("methodologies", len(res.Methodologies)))

	c.JSON(http.StatusOK, CreditResponse{
		CreditResult:   res,
		Active:         res.Active(),
		TotalAreaHa:    in.TotalArea(),
		EstimatedValue: calculation.EstimateValue(res.Total, h.price),
		CreditPrice:    h.price,
	})
}

// calculateImpact handles POST /api/v1/calculations/impact
func (h *Handler) calculateImpact(c *gin.Context) {
	var req ImpactRequest
	if !bind(c, &req, func() {
		req.TotalTCO2e = formQuantity(c, "total_tco2e")
	}) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_tco2e": req.TotalTCO2e.Float64(),
		"categories":  calculation.TranslateImpact(req.TotalTCO2e.Float64()),
	})
}

// ===== Helpers =====

// bind decodes JSON bodies into dst, or runs fromForm for form posts.
// It writes a 400 and returns false when a JSON body is malformed.
func bind(c *gin.Context, dst interface{}, fromForm func()) bool {
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		fromForm()
		return true
	}

	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

func formQuantity(c *gin.Context, field string) calculation.Quantity {
	return calculation.Quantity(calculation.ParseQuantity(c.PostForm(field)))
}

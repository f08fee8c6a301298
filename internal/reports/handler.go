package reports

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/properties"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/scenarios"
	"carbon-scribe/agro-carbon/agro-carbon-backend/pkg/storage"
)

// Handler handles HTTP requests for report generation
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new reports handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers report routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/scenarios/export", h.exportScenarios)
	router.GET("/scenarios/:id/report", h.creditReport)
	router.GET("/properties/:id/report", h.emissionReport)

	reports := router.Group("/reports")
	{
		reports.GET("/archives", h.listArchives)
		reports.GET("/archives/:id/url", h.archiveURL)
		reports.GET("/archives/:id/download", h.downloadArchive)
	}
}

// creditReport handles GET /api/v1/scenarios/:id/report
func (h *Handler) creditReport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	doc, err := h.service.CreditReport(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.respond(c, doc, &id)
}

// emissionReport handles GET /api/v1/properties/:id/report
func (h *Handler) emissionReport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	doc, err := h.service.EmissionReport(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.respond(c, doc, &id)
}

// exportScenarios handles GET /api/v1/scenarios/export
func (h *Handler) exportScenarios(c *gin.Context) {
	format, err := ParseExportFormat(c.DefaultQuery("format", string(ExportFormatCSV)))
	if err != nil {
		h.writeError(c, err)
		return
	}

	doc, err := h.service.ExportScenarios(c.Request.Context(), format)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.respond(c, doc, nil)
}

// listArchives handles GET /api/v1/reports/archives
func (h *Handler) listArchives(c *gin.Context) {
	var subjectID *uuid.UUID
	if raw := c.Query("subject_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject_id"})
			return
		}
		subjectID = &id
	}

	archives, err := h.service.ListArchives(c.Request.Context(), subjectID, h.getIntParam(c, "limit", 50))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, archives)
}

// archiveURL handles GET /api/v1/reports/archives/:id/url
func (h *Handler) archiveURL(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	archived, err := h.service.ArchiveURL(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, archived)
}

// downloadArchive handles GET /api/v1/reports/archives/:id/download
func (h *Handler) downloadArchive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	archive, body, err := h.service.OpenArchive(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer body.Close()

	filename := fmt.Sprintf("%s-%s.%s", archive.Kind, archive.ID, archive.Format)
	c.DataFromReader(http.StatusOK, archive.SizeBytes, archive.Format.ContentType(), body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filename),
	})
}

// ===== Helpers =====

// respond streams the document, or archives it when ?archive=true
func (h *Handler) respond(c *gin.Context, doc *Document, subjectID *uuid.UUID) {
	if archive, _ := strconv.ParseBool(c.Query("archive")); archive {
		archived, err := h.service.Archive(c.Request.Context(), doc, subjectID)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, archived)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.Format.ContentType(), doc.Content)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scenarios.ErrNotFound),
		errors.Is(err, properties.ErrNotFound),
		errors.Is(err, ErrArchiveNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Report request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handler) getIntParam(c *gin.Context, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

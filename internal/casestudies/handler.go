package casestudies

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the case study catalogue
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a case study handler
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// RegisterRoutes registers case study routes on the router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	studies := rg.Group("/case-studies")
	{
		studies.GET("", h.list)
		studies.GET("/:id", h.get)
	}
}

// list handles GET /api/v1/case-studies
func (h *Handler) list(c *gin.Context) {
	c.JSON(http.StatusOK, All())
}

// get handles GET /api/v1/case-studies/:id
func (h *Handler) get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	study, err := Lookup(id)
	if errors.Is(err, ErrNotFound) {
		h.logger.Debug("Unknown case study", zap.Int("id", id))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, study)
}

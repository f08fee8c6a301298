// Package v1 wires the services behind the /api/v1 routes.
package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/calculator"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/casestudies"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/config"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/database"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/notifications/websocket"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/properties"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/reports"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/reports/dashboard"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/scenarios"
	"carbon-scribe/agro-carbon/agro-carbon-backend/pkg/storage"
)

// Dependencies are the process-level resources the API is built from.
// Store may be nil when report archiving is not configured.
type Dependencies struct {
	DB     *database.Connections
	Cache  dashboard.Cache
	Store  storage.S3Client
	Config *config.Config
	Logger *zap.Logger
}

// API holds the wired services and their handlers
type API struct {
	Scenarios  *scenarios.Service
	Properties *properties.Service
	Reports    *reports.Service
	Dashboard  *dashboard.Service
	Events     *websocket.Manager

	calculator *calculator.Handler
	caseStudyH *casestudies.Handler
	scenarioH  *scenarios.Handler
	propertyH  *properties.Handler
	reportH    *reports.Handler
	dashboardH *dashboard.Handler
}

// Setup builds every service and subscribes the event sinks
func Setup(deps Dependencies) *API {
	cfg := deps.Config
	logger := deps.Logger
	price := cfg.Pricing.CreditPrice

	scenarioService := scenarios.NewService(scenarios.NewRepository(deps.DB.Gorm), logger.Named("scenarios"), price)
	propertyService := properties.NewService(properties.NewRepository(deps.DB.SQLX), logger.Named("properties"))

	reportService := reports.NewService(
		scenarioService,
		propertyService,
		reports.NewRepository(deps.DB.Gorm),
		deps.Store,
		reports.ArchiveOptions{
			Bucket:         cfg.Storage.Bucket,
			Prefix:         cfg.Storage.Prefix,
			PresignExpires: cfg.Storage.PresignExpires,
		},
		price,
		logger.Named("reports"),
	)

	dashboardService := dashboard.NewService(scenarioService, deps.Cache, logger.Named("dashboard"))
	events := websocket.NewManager(logger.Named("websocket"))

	scenarioService.Subscribe(dashboardService)
	scenarioService.Subscribe(events)

	return &API{
		Scenarios:  scenarioService,
		Properties: propertyService,
		Reports:    reportService,
		Dashboard:  dashboardService,
		Events:     events,

		calculator: calculator.NewHandler(price, logger.Named("calculator")),
		caseStudyH: casestudies.NewHandler(logger.Named("casestudies")),
		scenarioH:  scenarios.NewHandler(scenarioService, logger),
		propertyH:  properties.NewHandler(propertyService, logger),
		reportH:    reports.NewHandler(reportService, logger),
		dashboardH: dashboard.NewHandler(dashboardService, logger),
	}
}

// RegisterRoutes mounts /health, /ws/scenarios and the /api/v1 group
func (a *API) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"timestamp":   time.Now(),
			"subscribers": a.Events.ConnectionCount(),
		})
	})
	a.Events.RegisterRoutes(router)

	api := router.Group("/api/v1")
	{
		a.calculator.RegisterRoutes(api)
		a.caseStudyH.RegisterRoutes(api)
		a.scenarioH.RegisterRoutes(api)
		a.propertyH.RegisterRoutes(api)
		a.reportH.RegisterRoutes(api)
		a.dashboardH.RegisterRoutes(api)
	}
}

// Close stops background components owned by the API
func (a *API) Close() {
	a.Events.Close()
}

// CORS allows browser dashboards on other origins
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

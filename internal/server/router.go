// Package server assembles the HTTP API: middleware, public read routes and
// the key-protected pipeline routes.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "ptrwatch/internal/docs" // Import swagger docs
	"ptrwatch/internal/handlers"
	"ptrwatch/internal/metrics"
	"ptrwatch/internal/middleware"
	"ptrwatch/internal/services"
)

// Deps are the services the router hands to its handlers.
type Deps struct {
	Reports     services.ReportServicer
	Runs        services.IngestRunServicer
	Parser      handlers.ReportParser
	Ingest      handlers.IngestRunner
	Metrics     *metrics.Collector
	PipelineKey middleware.PipelineKey
}

// NewRouter builds the Gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	reportHandler := handlers.NewReportHandler(d.Reports)
	parseHandler := handlers.NewParseHandler(d.Parser, d.Reports, d.Metrics)
	ingestHandler := handlers.NewIngestHandler(d.Ingest, d.Runs)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")

	// Public read routes
	reports := v1.Group("/reports")
	reports.GET("", reportHandler.ListReports)
	reports.GET("/:filing_id", reportHandler.GetReport)
	reports.GET("/:filing_id/export", reportHandler.ExportReport)

	v1.GET("/transactions", reportHandler.ListTransactions)

	// Pipeline routes
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(d.PipelineKey))
	pipeline.POST("/reports/parse", parseHandler.ParseReport)
	pipeline.POST("/ingest", ingestHandler.StartIngest)
	pipeline.GET("/runs", ingestHandler.ListRuns)
	pipeline.GET("/runs/:id", ingestHandler.GetRun)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

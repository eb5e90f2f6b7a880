package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ptrwatch/internal/config"
	"ptrwatch/internal/database"
	"ptrwatch/internal/disclosure"
	"ptrwatch/internal/ingest"
	"ptrwatch/internal/logger"
	"ptrwatch/internal/metrics"
	"ptrwatch/internal/middleware"
	"ptrwatch/internal/pdftext"
	"ptrwatch/internal/ptr"
	"ptrwatch/internal/scheduler"
	"ptrwatch/internal/server"
	"ptrwatch/internal/services"
	"ptrwatch/internal/validator"
)

// @title           ptrwatch API
// @version         1.0
// @description     ptrwatch parses House Periodic Transaction Reports into structured transactions and serves them.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Pipeline API key.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() { _ = dbManager.Close() }()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	reportService := services.NewCachedReportService(services.NewReportService(db), appConfig.ReportCacheTTL)
	runService := services.NewIngestRunService(db)

	// Pipeline
	collector := metrics.NewCollector()
	parser := ptr.NewParser(pdftext.NewExtractor())
	client, err := disclosure.NewClient(disclosure.Options{
		BaseURL:           appConfig.DisclosureBaseURL,
		Timeout:           appConfig.RequestTimeout,
		RequestsPerSecond: appConfig.RequestsPerSecond,
	})
	if err != nil {
		return fmt.Errorf("failed to create disclosure client: %w", err)
	}
	orchestrator := ingest.NewOrchestrator(client, parser, reportService, runService, collector, ingest.Options{
		DownloadDir: appConfig.DownloadDir,
		Workers:     appConfig.ParseWorkers,
	})

	if appConfig.IngestSchedule != "" {
		sched := scheduler.NewScheduler(orchestrator, appConfig.IngestSchedule, func() int { return appConfig.IngestFilingYear })
		if err := sched.Start(); err != nil {
			return err
		}
		defer func() { <-sched.Stop().Done() }()
	}

	router := server.NewRouter(server.Deps{
		Reports: reportService,
		Runs:    runService,
		Parser:  parser,
		Ingest:  orchestrator,
		Metrics: collector,
		PipelineKey: middleware.PipelineKey{
			Key:  appConfig.PipelineAPIKey,
			Hash: appConfig.PipelineAPIKeyHash,
		},
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting ptrwatch server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ptrwatch/internal/config"
	"ptrwatch/internal/database"
	"ptrwatch/internal/disclosure"
	"ptrwatch/internal/ingest"
	"ptrwatch/internal/logger"
	"ptrwatch/internal/models"
	"ptrwatch/internal/pdftext"
	"ptrwatch/internal/ptr"
	"ptrwatch/internal/services"
)

type options struct {
	query    disclosure.Query
	dir      string
	workers  int
	dryRun   bool
	parseDir string
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	appConfig, err := config.Load()
	if err != nil {
		logger.Get().Fatalf("failed to load configuration: %v", err)
	}

	var opts options
	flag.StringVar(&opts.query.LastName, "last-name", "", "member last name to search for")
	flag.IntVar(&opts.query.FilingYear, "year", appConfig.IngestFilingYear, "filing year to search")
	flag.StringVar(&opts.query.State, "state", "", "two-letter state code")
	flag.StringVar(&opts.query.District, "district", "", "congressional district number")
	flag.StringVar(&opts.dir, "dir", appConfig.DownloadDir, "directory reports are downloaded to")
	flag.IntVar(&opts.workers, "workers", appConfig.ParseWorkers, "concurrent parse workers")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "parse without storing anything")
	flag.StringVar(&opts.parseDir, "parse-dir", "", "parse the PDFs already in this directory instead of searching")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appConfig, opts); err != nil {
		logger.Get().Fatalf("Ingest error: %v", err)
	}
}

func run(ctx context.Context, appConfig *config.Config, opts options) error {
	var (
		reports services.ReportServicer
		runs    services.IngestRunServicer
	)
	if !opts.dryRun {
		dbConfig, err := database.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load database configuration: %w", err)
		}
		dbManager, err := database.NewManager(dbConfig)
		if err != nil {
			return fmt.Errorf("failed to create database manager: %w", err)
		}
		defer func() { _ = dbManager.Close() }()

		if err := dbManager.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
		reports = services.NewReportService(dbManager.DB())
		runs = services.NewIngestRunService(dbManager.DB())
	}

	client, err := disclosure.NewClient(disclosure.Options{
		BaseURL:           appConfig.DisclosureBaseURL,
		Timeout:           appConfig.RequestTimeout,
		RequestsPerSecond: appConfig.RequestsPerSecond,
	})
	if err != nil {
		return fmt.Errorf("failed to create disclosure client: %w", err)
	}

	orchestrator := ingest.NewOrchestrator(client, ptr.NewParser(pdftext.NewExtractor()), reports, runs, nil, ingest.Options{
		DownloadDir: opts.dir,
		Workers:     opts.workers,
		DryRun:      opts.dryRun,
	})

	var result *ingest.RunResult
	if opts.parseDir != "" {
		result, err = orchestrator.RunDirectory(ctx, opts.parseDir, models.TriggerCLI)
	} else {
		result, err = orchestrator.Run(ctx, opts.query, models.TriggerCLI)
	}
	if err != nil {
		return err
	}

	for _, docErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "%s\t%s\t%s\n", docErr.Path, docErr.Kind, docErr.Message)
	}
	if opts.dryRun {
		for _, r := range result.Reports {
			fmt.Printf("%d\t%s\t%s\t%d transactions\n", r.FilingID, r.RepresentativeName, r.SignedDate, len(r.Transactions))
		}
	}
	return nil
}

// Package ingest runs batch ingestion: discover filings, download them, parse
// them concurrently and store the reports that are new.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"ptrwatch/internal/disclosure"
	"ptrwatch/internal/logger"
	"ptrwatch/internal/metrics"
	"ptrwatch/internal/models"
	"ptrwatch/internal/ptr"
	"ptrwatch/internal/services"
)

// KindDownloadFailed marks a filing whose PDF could not be fetched.
const KindDownloadFailed = "DOWNLOAD_FAILED"

// ErrSearchFailed is wrapped by Run when the filing search itself fails.
var ErrSearchFailed = errors.New("filing search failed")

// Source discovers and fetches filings.
type Source interface {
	Search(ctx context.Context, q disclosure.Query) ([]disclosure.Filing, error)
	Download(ctx context.Context, f disclosure.Filing, dir string) (path string, fetched bool, err error)
}

// DocumentParser parses one downloaded document.
type DocumentParser interface {
	ParseFile(path string) ptr.DocumentResult
}

// Options configures an Orchestrator.
type Options struct {
	DownloadDir string
	Workers     int
	// DryRun parses without storing reports or run records.
	DryRun bool
}

// DocumentError is one document a run could not download or parse.
type DocumentError struct {
	Path     string `json:"path"`
	FilingID int64  `json:"filing_id,omitempty"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Kind, e.Message)
}

// RunResult contains the outcome of one run.
type RunResult struct {
	RunID      string                `json:"run_id,omitempty"`
	Discovered int                   `json:"discovered"`
	Skipped    int                   `json:"skipped"`
	Downloaded int                   `json:"downloaded"`
	Parsed     int                   `json:"parsed"`
	Failed     int                   `json:"failed"`
	Stored     *services.WriteResult `json:"stored,omitempty"`
	Errors     []DocumentError       `json:"errors,omitempty"`
	Reports    []ptr.Report          `json:"-"`
	Duration   time.Duration         `json:"duration"`
}

// Orchestrator wires a Source, a DocumentParser and the report store into a
// batch ingest.
type Orchestrator struct {
	source  Source
	parser  DocumentParser
	reports services.ReportServicer
	runs    services.IngestRunServicer
	metrics *metrics.Collector
	opts    Options
	log     *zap.SugaredLogger
	today   func() ptr.Date
}

// NewOrchestrator creates a new Orchestrator. source is only needed by Run.
// runs and collector may be nil, and reports may be nil for dry runs.
func NewOrchestrator(source Source, parser DocumentParser, reports services.ReportServicer, runs services.IngestRunServicer, collector *metrics.Collector, opts Options) *Orchestrator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Orchestrator{
		source:  source,
		parser:  parser,
		reports: reports,
		runs:    runs,
		metrics: collector,
		opts:    opts,
		log:     logger.Named("ingest"),
		today:   ptr.Today,
	}
}

// Run executes a full ingest for q: search, skip filings already stored,
// download the rest, parse them and store the new reports. A single
// document's failure never aborts the run; it is counted and recorded.
func (o *Orchestrator) Run(ctx context.Context, q disclosure.Query, trigger models.IngestTrigger) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{}

	run, err := o.startRun(trigger, q)
	if err != nil {
		return nil, err
	}
	if run != nil {
		result.RunID = run.ID
	}

	// 1. Discover filings.
	filings, err := o.source.Search(ctx, q)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrSearchFailed, err)
		o.finishRun(run, result, err)
		return nil, err
	}
	result.Discovered = len(filings)

	// 2. Drop filings already stored.
	filings, err = o.withoutStored(filings)
	if err != nil {
		o.finishRun(run, result, err)
		return nil, err
	}
	result.Skipped = result.Discovered - len(filings)

	if len(filings) == 0 {
		o.log.Infow("no new filings found", "discovered", result.Discovered)
		result.Duration = time.Since(start)
		o.finishRun(run, result, nil)
		return result, nil
	}

	// 3. Download. The source rate-limits its requests.
	paths := make([]string, 0, len(filings))
	for _, f := range filings {
		if err := ctx.Err(); err != nil {
			o.finishRun(run, result, err)
			return nil, err
		}
		path, fetched, err := o.source.Download(ctx, f, o.opts.DownloadDir)
		if err != nil {
			o.log.Warnw("failed to download filing", "filing_id", f.FilingID, "url", f.URL, "error", err)
			o.metrics.ObserveDownload(metrics.DownloadFailed)
			o.fail(run, result, DocumentError{Path: f.URL, FilingID: f.FilingID, Kind: KindDownloadFailed, Message: err.Error()})
			continue
		}
		if fetched {
			result.Downloaded++
			o.metrics.ObserveDownload(metrics.DownloadFetched)
		} else {
			o.metrics.ObserveDownload(metrics.DownloadCached)
		}
		paths = append(paths, path)
	}

	// 4. Parse and store.
	if err := o.process(ctx, run, paths, result); err != nil {
		o.finishRun(run, result, err)
		return nil, err
	}

	result.Duration = time.Since(start)
	o.finishRun(run, result, nil)
	o.logSummary(result)
	return result, nil
}

// RunDirectory parses every PDF in dir and stores the new reports.
func (o *Orchestrator) RunDirectory(ctx context.Context, dir string, trigger models.IngestTrigger) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{}

	paths, err := ListDocuments(dir)
	if err != nil {
		return nil, err
	}
	result.Discovered = len(paths)

	run, err := o.startRun(trigger, disclosure.Query{})
	if err != nil {
		return nil, err
	}
	if run != nil {
		result.RunID = run.ID
	}

	if err := o.process(ctx, run, paths, result); err != nil {
		o.finishRun(run, result, err)
		return nil, err
	}

	result.Duration = time.Since(start)
	o.finishRun(run, result, nil)
	o.logSummary(result)
	return result, nil
}

// ParseFiles parses paths with the configured number of workers. Results
// keep the order of paths. If ctx is cancelled, documents not yet started
// are abandoned and ctx's error is returned.
func (o *Orchestrator) ParseFiles(ctx context.Context, paths []string) ([]ptr.DocumentResult, error) {
	results := make([]ptr.DocumentResult, len(paths))
	workers := min(o.opts.Workers, len(paths))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = o.parseOne(paths[i])
			}
		}()
	}

	var cancelled error
feed:
	for i := range paths {
		if cancelled = ctx.Err(); cancelled != nil {
			break
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return results, nil
}

// ListDocuments returns the PDF files directly inside dir, sorted by name.
func ListDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// process parses paths, records failures and stores the successful reports.
func (o *Orchestrator) process(ctx context.Context, run *models.IngestRun, paths []string, result *RunResult) error {
	docs, err := o.ParseFiles(ctx, paths)
	if err != nil {
		return err
	}

	recordedOn := o.today()
	var stored []models.Report
	for _, doc := range docs {
		if !doc.Success {
			o.fail(run, result, DocumentError{Path: doc.Path, Kind: string(doc.Kind), Message: doc.Message})
			continue
		}
		result.Parsed++
		result.Reports = append(result.Reports, doc.Data)
		stored = append(stored, models.NewReport(doc.Data, doc.Path, recordedOn))
	}

	if o.opts.DryRun || len(stored) == 0 {
		return nil
	}
	written, err := o.reports.SaveReports(stored)
	if err != nil {
		return fmt.Errorf("storing reports: %w", err)
	}
	result.Stored = written
	o.metrics.ObserveStored(written.ReportsWritten)
	return nil
}

func (o *Orchestrator) parseOne(path string) ptr.DocumentResult {
	start := time.Now()
	doc := o.parser.ParseFile(path)
	elapsed := time.Since(start)

	if doc.Success {
		o.log.Infow("parsed report",
			"path", path,
			"filing_id", doc.Data.FilingID,
			"transactions", len(doc.Data.Transactions),
			"elapsed", elapsed,
		)
		o.metrics.ObserveParse("", len(doc.Data.Transactions), elapsed)
	} else {
		o.log.Warnw("failed to parse report",
			"path", path,
			"kind", doc.Kind,
			"message", doc.Message,
			"elapsed", elapsed,
		)
		o.metrics.ObserveParse(string(doc.Kind), 0, elapsed)
	}
	return doc
}

// withoutStored drops filings whose ID is already stored. Filings without a
// known ID are kept; the store deduplicates them after parsing.
func (o *Orchestrator) withoutStored(filings []disclosure.Filing) ([]disclosure.Filing, error) {
	if o.reports == nil {
		return filings, nil
	}
	var ids []int64
	for _, f := range filings {
		if f.FilingID > 0 {
			ids = append(ids, f.FilingID)
		}
	}
	existing, err := o.reports.ExistingFilingIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("checking stored filings: %w", err)
	}

	kept := make([]disclosure.Filing, 0, len(filings))
	for _, f := range filings {
		if f.FilingID > 0 && existing[f.FilingID] {
			continue
		}
		kept = append(kept, f)
	}
	return kept, nil
}

func (o *Orchestrator) fail(run *models.IngestRun, result *RunResult, docErr DocumentError) {
	result.Failed++
	result.Errors = append(result.Errors, docErr)
	if run != nil {
		o.runs.RecordFailure(run.ID, docErr.Path, docErr.Kind, docErr.Message)
	}
}

func (o *Orchestrator) startRun(trigger models.IngestTrigger, q disclosure.Query) (*models.IngestRun, error) {
	if o.runs == nil || o.opts.DryRun {
		return nil, nil
	}
	return o.runs.StartRun(services.IngestRunParams{
		Trigger:    trigger,
		LastName:   q.LastName,
		FilingYear: q.FilingYear,
		State:      q.State,
		District:   q.District,
	})
}

func (o *Orchestrator) finishRun(run *models.IngestRun, result *RunResult, runErr error) {
	if run == nil {
		return
	}
	run.Discovered = result.Discovered
	run.Skipped = result.Skipped
	run.Downloaded = result.Downloaded
	run.Parsed = result.Parsed
	run.Failed = result.Failed
	if result.Stored != nil {
		run.ReportsStored = result.Stored.ReportsWritten
		run.TransactionsStored = result.Stored.TransactionsWritten
	}
	if err := o.runs.FinishRun(run, runErr); err != nil {
		o.log.Errorw("failed to finish ingest run", "run_id", run.ID, "error", err)
	}
}

func (o *Orchestrator) logSummary(result *RunResult) {
	fields := []any{
		"run_id", result.RunID,
		"discovered", result.Discovered,
		"skipped", result.Skipped,
		"downloaded", result.Downloaded,
		"parsed", result.Parsed,
		"failed", result.Failed,
		"duration", result.Duration,
	}
	if result.Stored != nil {
		fields = append(fields,
			"reports_written", result.Stored.ReportsWritten,
			"transactions_written", result.Stored.TransactionsWritten,
		)
	}
	o.log.Infow("ingest run completed", fields...)
}

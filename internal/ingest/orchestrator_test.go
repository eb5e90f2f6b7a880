package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptrwatch/internal/disclosure"
	"ptrwatch/internal/metrics"
	"ptrwatch/internal/models"
	"ptrwatch/internal/pagination"
	"ptrwatch/internal/ptr"
	"ptrwatch/internal/services"
	"ptrwatch/internal/testutil"
)

var signed = ptr.Date{Year: 2024, Month: time.January, Day: 15}

// fakeSource serves a fixed search result and "downloads" by naming a path.
type fakeSource struct {
	filings   []disclosure.Filing
	searchErr error
	failIDs   map[int64]bool
	cachedIDs map[int64]bool

	mu         sync.Mutex
	downloaded []int64
}

func (s *fakeSource) Search(_ context.Context, _ disclosure.Query) ([]disclosure.Filing, error) {
	return s.filings, s.searchErr
}

func (s *fakeSource) Download(_ context.Context, f disclosure.Filing, dir string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failIDs[f.FilingID] {
		return "", false, errors.New("unexpected status 404")
	}
	s.downloaded = append(s.downloaded, f.FilingID)
	return filepath.Join(dir, f.FileName()), !s.cachedIDs[f.FilingID], nil
}

// fakeParser returns canned results keyed by file base name.
type fakeParser struct {
	results map[string]ptr.Result[ptr.Report]
	calls   atomic.Int32
}

func (p *fakeParser) ParseFile(path string) ptr.DocumentResult {
	p.calls.Add(1)
	res, ok := p.results[filepath.Base(path)]
	if !ok {
		res = ptr.Fail[ptr.Report](ptr.KindUnreadableDocument, "no such document %s", path)
	}
	return ptr.DocumentResult{Result: res, Path: path}
}

func filing(id int64) disclosure.Filing {
	return disclosure.Filing{FilingID: id, URL: fmt.Sprintf("https://example.test/public_disc/ptr-pdfs/2024/%d.pdf", id)}
}

func parsed(id int64, txCount int) ptr.Result[ptr.Report] {
	return ptr.Ok(testutil.NewParsedReport(id, "Jane Doe", signed, txCount))
}

func TestRun(t *testing.T) {
	t.Run("stores_new_reports_and_records_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		testutil.CreateTestReport(t, db, 100)

		source := &fakeSource{
			filings:   []disclosure.Filing{filing(100), filing(101), filing(102), filing(103), filing(104)},
			failIDs:   map[int64]bool{104: true},
			cachedIDs: map[int64]bool{102: true},
		}
		parser := &fakeParser{results: map[string]ptr.Result[ptr.Report]{
			"101.pdf": parsed(101, 2),
			"102.pdf": parsed(102, 1),
			"103.pdf": ptr.Fail[ptr.Report](ptr.KindNoFooterFound, "no match was found for the table footer"),
		}}
		reg := prometheus.NewRegistry()
		runs := services.NewIngestRunService(db)
		o := NewOrchestrator(source, parser, services.NewReportService(db), runs, metrics.NewCollectorWith(reg), Options{DownloadDir: "reports", Workers: 3})

		result, err := o.Run(context.Background(), disclosure.Query{FilingYear: 2024}, models.TriggerCLI)
		require.NoError(t, err)

		assert.Equal(t, 5, result.Discovered)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 2, result.Downloaded)
		assert.Equal(t, 2, result.Parsed)
		assert.Equal(t, 2, result.Failed)
		assert.ElementsMatch(t, []int64{101, 102, 103}, source.downloaded)
		require.NotNil(t, result.Stored)
		assert.Equal(t, services.WriteResult{ReportsWritten: 2, TransactionsWritten: 3, TransactionsExpected: 3}, *result.Stored)

		kinds := []string{}
		for _, e := range result.Errors {
			kinds = append(kinds, e.Kind)
		}
		assert.ElementsMatch(t, []string{KindDownloadFailed, string(ptr.KindNoFooterFound)}, kinds)

		run, err := runs.GetRun(result.RunID)
		require.NoError(t, err)
		assert.Equal(t, models.IngestRunCompleted, run.Status)
		assert.Equal(t, models.TriggerCLI, run.Trigger)
		assert.Equal(t, 2, run.ReportsStored)
		assert.Equal(t, 3, run.TransactionsStored)
		assert.Len(t, run.Failures, 2)

		var count int64
		db.Model(&models.Report{}).Count(&count)
		assert.Equal(t, int64(3), count)
	})

	t.Run("search_failure_fails_run", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		runs := services.NewIngestRunService(db)
		o := NewOrchestrator(&fakeSource{searchErr: errors.New("connection refused")}, &fakeParser{},
			services.NewReportService(db), runs, nil, Options{Workers: 2})

		_, err := o.Run(context.Background(), disclosure.Query{FilingYear: 2024}, models.TriggerSchedule)
		require.ErrorIs(t, err, ErrSearchFailed)
		assert.Contains(t, err.Error(), "connection refused")

		page, err := runs.ListRuns(pagination.PageRequest{})
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, models.IngestRunFailed, page.Data[0].Status)
	})

	t.Run("nothing_new", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		testutil.CreateTestReport(t, db, 100)

		parser := &fakeParser{}
		o := NewOrchestrator(&fakeSource{filings: []disclosure.Filing{filing(100)}}, parser,
			services.NewReportService(db), nil, nil, Options{Workers: 2})

		result, err := o.Run(context.Background(), disclosure.Query{FilingYear: 2024}, models.TriggerCLI)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
		assert.Nil(t, result.Stored)
		assert.Equal(t, int32(0), parser.calls.Load())
	})

	t.Run("dry_run_stores_nothing", func(t *testing.T) {
		source := &fakeSource{filings: []disclosure.Filing{filing(201)}}
		parser := &fakeParser{results: map[string]ptr.Result[ptr.Report]{"201.pdf": parsed(201, 1)}}
		o := NewOrchestrator(source, parser, nil, nil, nil, Options{Workers: 1, DryRun: true})

		result, err := o.Run(context.Background(), disclosure.Query{FilingYear: 2024}, models.TriggerCLI)
		require.NoError(t, err)
		assert.Empty(t, result.RunID)
		assert.Equal(t, 1, result.Parsed)
		assert.Nil(t, result.Stored)
		require.Len(t, result.Reports, 1)
		assert.Equal(t, int64(201), result.Reports[0].FilingID)
	})
}

func TestParseFiles(t *testing.T) {
	t.Run("keeps_input_order", func(t *testing.T) {
		results := map[string]ptr.Result[ptr.Report]{}
		var paths []string
		for i := 0; i < 20; i++ {
			id := int64(300 + i)
			results[fmt.Sprintf("%d.pdf", id)] = parsed(id, 1)
			paths = append(paths, fmt.Sprintf("reports/%d.pdf", id))
		}
		parser := &fakeParser{results: results}
		o := NewOrchestrator(nil, parser, nil, nil, nil, Options{Workers: 4})

		docs, err := o.ParseFiles(context.Background(), paths)
		require.NoError(t, err)
		require.Len(t, docs, len(paths))
		for i, doc := range docs {
			assert.Equal(t, paths[i], doc.Path)
			assert.True(t, doc.Success)
			assert.Equal(t, int64(300+i), doc.Data.FilingID)
		}
		assert.Equal(t, int32(20), parser.calls.Load())
	})

	t.Run("empty", func(t *testing.T) {
		o := NewOrchestrator(nil, &fakeParser{}, nil, nil, nil, Options{Workers: 4})
		docs, err := o.ParseFiles(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		o := NewOrchestrator(nil, &fakeParser{}, nil, nil, nil, Options{Workers: 1})
		_, err := o.ParseFiles(ctx, []string{"a.pdf", "b.pdf", "c.pdf"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRunDirectory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	dir := t.TempDir()
	for _, name := range []string{"401.pdf", "402.PDF", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))

	parser := &fakeParser{results: map[string]ptr.Result[ptr.Report]{
		"401.pdf": parsed(401, 2),
		"402.PDF": parsed(402, 1),
	}}
	runs := services.NewIngestRunService(db)
	o := NewOrchestrator(nil, parser, services.NewReportService(db), runs, nil, Options{Workers: 2})

	result, err := o.RunDirectory(context.Background(), dir, models.TriggerCLI)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Discovered)
	assert.Equal(t, 2, result.Parsed)
	require.NotNil(t, result.Stored)
	assert.Equal(t, 2, result.Stored.ReportsWritten)

	stored, err := services.NewReportService(db).GetReport(401)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "401.pdf"), stored.SourcePath)
}

func TestListDocuments_MissingDir(t *testing.T) {
	_, err := ListDocuments(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

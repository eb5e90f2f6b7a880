package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// metricValue returns the counter or histogram-count value of the series
// whose labels match labels. Missing labels count as empty.
func metricValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			match := true
			for k, v := range labels {
				if got[k] != v {
					match = false
				}
			}
			for k, v := range got {
				if labels[k] != v {
					match = false
				}
			}
			if !match {
				continue
			}
			if m.GetHistogram() != nil {
				return float64(m.GetHistogram().GetSampleCount())
			}
			return m.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s %v not found", name, labels)
	return 0
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollectorWith(reg)

	c.ObserveParse("", 3, 20*time.Millisecond)
	c.ObserveParse("", 2, 30*time.Millisecond)
	c.ObserveParse("NO_FOOTER_FOUND", 0, 5*time.Millisecond)
	c.ObserveDownload(DownloadFetched)
	c.ObserveDownload(DownloadCached)
	c.ObserveDownload(DownloadFetched)
	c.ObserveStored(2)
	c.ObserveStored(0)

	assert.Equal(t, 2.0, metricValue(t, reg, "ptr_documents_parsed_total", map[string]string{"outcome": OutcomeParsed, "kind": ""}))
	assert.Equal(t, 1.0, metricValue(t, reg, "ptr_documents_parsed_total", map[string]string{"outcome": OutcomeFailed, "kind": "NO_FOOTER_FOUND"}))
	assert.Equal(t, 5.0, metricValue(t, reg, "ptr_transactions_parsed_total", nil))
	assert.Equal(t, 2.0, metricValue(t, reg, "ptr_downloads_total", map[string]string{"outcome": DownloadFetched}))
	assert.Equal(t, 1.0, metricValue(t, reg, "ptr_downloads_total", map[string]string{"outcome": DownloadCached}))
	assert.Equal(t, 2.0, metricValue(t, reg, "ptr_reports_stored_total", nil))
	assert.Equal(t, 3.0, metricValue(t, reg, "ptr_parse_duration_seconds", nil))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveParse("", 1, time.Millisecond)
	c.ObserveDownload(DownloadFailed)
	c.ObserveStored(1)
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.ObserveStored(1)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "ptr_reports_stored_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}

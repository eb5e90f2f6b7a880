package disclosure

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const landingPage = `<html><body>
<form id="search">
  <input name="__RequestVerificationToken" type="hidden" value="tok-123" />
</form>
</body></html>`

const resultsPage = `<html><body><table>
<thead><tr><th>Name</th><th>Office</th><th>Filing Year</th><th>Filing</th></tr></thead>
<tbody>
<tr>
  <td data-label="Name"><a href="public_disc/ptr-pdfs/2024/20012345.pdf">Doe, Hon.. Jane</a></td>
  <td data-label="Office">CA12</td>
  <td data-label="Filing Year">2024</td>
  <td data-label="Filing"> PTR Original </td>
</tr>
<tr>
  <td data-label="Name"><a href="public_disc/financial-pdfs/2024/10055555.pdf">Doe, Hon.. Jane</a></td>
  <td data-label="Office">CA12</td>
  <td data-label="Filing Year">2024</td>
  <td data-label="Filing">FD Original</td>
</tr>
<tr>
  <td data-label="Name"><a href="public_disc/ptr-pdfs/2024/20012399.pdf">Roe, Hon.. John</a></td>
  <td data-label="Office">NY03</td>
  <td data-label="Filing Year">2024</td>
  <td data-label="Filing">PTR Amendment</td>
</tr>
<tr>
  <td data-label="Name"><a href="https://files.example.com/ptr/scan-7.pdf">Poe, Hon.. Ann</a></td>
  <td data-label="Office">TX07</td>
  <td data-label="Filing Year">2024</td>
  <td data-label="Filing">PTR Original</td>
</tr>
<tr>
  <td data-label="Name">No link</td>
  <td data-label="Filing">PTR Original</td>
</tr>
</tbody></table></body></html>`

func newSiteServer(t *testing.T, withToken bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/FinancialDisclosure", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1", Path: "/"})
		if withToken {
			_, _ = io.WriteString(w, landingPage)
		} else {
			_, _ = io.WriteString(w, "<html><body>maintenance</body></html>")
		}
	})
	mux.HandleFunc("/FinancialDisclosure/ViewMemberSearchResult", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "Doe", r.PostForm.Get("LastName"))
		assert.Equal(t, "2024", r.PostForm.Get("FilingYear"))
		assert.Equal(t, "CA", r.PostForm.Get("State"))
		assert.Equal(t, "", r.PostForm.Get("District"))
		if withToken {
			assert.Equal(t, "tok-123", r.PostForm.Get(tokenField))
		} else {
			_, present := r.PostForm[tokenField]
			assert.False(t, present, "token should not be sent")
		}
		cookie, err := r.Cookie("session")
		if assert.NoError(t, err) {
			assert.Equal(t, "s1", cookie.Value)
		}
		_, _ = io.WriteString(w, resultsPage)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(Options{BaseURL: server.URL, HTTPClient: &http.Client{}})
	require.NoError(t, err)
	return c
}

func TestSearch(t *testing.T) {
	for _, withToken := range []bool{true, false} {
		name := "with_token"
		if !withToken {
			name = "without_token"
		}
		t.Run(name, func(t *testing.T) {
			server := newSiteServer(t, withToken)
			c := newTestClient(t, server)

			filings, err := c.Search(context.Background(), Query{LastName: "Doe", FilingYear: 2024, State: "CA"})
			require.NoError(t, err)
			require.Len(t, filings, 2)

			assert.Equal(t, Filing{
				FilingID: 20012345,
				Member:   "Doe, Hon.. Jane",
				Office:   "CA12",
				Year:     2024,
				URL:      server.URL + "/public_disc/ptr-pdfs/2024/20012345.pdf",
			}, filings[0])

			assert.Equal(t, int64(0), filings[1].FilingID)
			assert.Equal(t, "https://files.example.com/ptr/scan-7.pdf", filings[1].URL)
			assert.Equal(t, "scan-7.pdf", filings[1].FileName())
		})
	}
}

func TestSearch_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClient(t, server)
	_, err := c.Search(context.Background(), Query{FilingYear: 2024})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestDownload(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/public_disc/ptr-pdfs/2024/20012345.pdf" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, "%PDF-1.4 test")
	}))
	defer server.Close()

	c := newTestClient(t, server)
	dir := filepath.Join(t.TempDir(), "reports")
	filing := Filing{FilingID: 20012345, URL: server.URL + "/public_disc/ptr-pdfs/2024/20012345.pdf"}

	t.Run("fetches_new_file", func(t *testing.T) {
		path, fetched, err := c.Download(context.Background(), filing, dir)
		require.NoError(t, err)
		assert.True(t, fetched)
		assert.Equal(t, filepath.Join(dir, "20012345.pdf"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 test", string(data))
	})

	t.Run("skips_existing_file", func(t *testing.T) {
		before := hits.Load()
		path, fetched, err := c.Download(context.Background(), filing, dir)
		require.NoError(t, err)
		assert.False(t, fetched)
		assert.Equal(t, filepath.Join(dir, "20012345.pdf"), path)
		assert.Equal(t, before, hits.Load())
	})

	t.Run("not_found", func(t *testing.T) {
		missing := Filing{FilingID: 1, URL: server.URL + "/public_disc/ptr-pdfs/2024/1.pdf"}
		_, _, err := c.Download(context.Background(), missing, dir)
		require.Error(t, err)

		_, statErr := os.Stat(filepath.Join(dir, "1.pdf"))
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestQueryIsEmpty(t *testing.T) {
	assert.True(t, Query{}.IsEmpty())
	assert.False(t, Query{District: "12"}.IsEmpty())
}

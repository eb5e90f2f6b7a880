// Package disclosure searches the House Clerk financial disclosure site for
// periodic transaction reports and downloads their PDFs.
package disclosure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"ptrwatch/internal/logger"
)

const (
	landingPath = "/FinancialDisclosure"
	searchPath  = "/FinancialDisclosure/ViewMemberSearchResult"

	tokenField = "__RequestVerificationToken"

	// filingTypePTR is the only filing type the search keeps. Amendments and
	// annual reports are listed alongside it.
	filingTypePTR = "PTR Original"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36"
)

// Query holds the member search form fields. Empty fields are sent empty and
// match everything.
type Query struct {
	LastName   string `json:"last_name"`
	FilingYear int    `json:"filing_year"`
	State      string `json:"state"`
	District   string `json:"district"`
}

// IsEmpty reports whether no search field is set.
func (q Query) IsEmpty() bool {
	return q.LastName == "" && q.FilingYear == 0 && q.State == "" && q.District == ""
}

func (q Query) form(token string) url.Values {
	v := url.Values{}
	v.Set("LastName", q.LastName)
	if q.FilingYear > 0 {
		v.Set("FilingYear", strconv.Itoa(q.FilingYear))
	} else {
		v.Set("FilingYear", "")
	}
	v.Set("State", q.State)
	v.Set("District", q.District)
	if token != "" {
		v.Set(tokenField, token)
	}
	return v
}

// Filing is one "PTR Original" row of the search results.
type Filing struct {
	// FilingID is parsed from the PDF file name; zero when the name is not
	// numeric.
	FilingID int64  `json:"filing_id"`
	Member   string `json:"member"`
	Office   string `json:"office"`
	Year     int    `json:"year"`
	URL      string `json:"url"`
}

// FileName returns the local file name a filing is downloaded to.
func (f Filing) FileName() string {
	if f.FilingID > 0 {
		return strconv.FormatInt(f.FilingID, 10) + ".pdf"
	}
	name := path.Base(f.URL)
	if u, err := url.Parse(f.URL); err == nil {
		name = path.Base(u.Path)
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

// Options configures a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	// HTTPClient overrides the default client. Its Jar is replaced when nil.
	HTTPClient *http.Client
}

// Client talks to the disclosure site. Every request waits on a shared rate
// limiter; cookies set by the landing page are kept for the search post.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.SugaredLogger
}

// NewClient creates a Client for opts.BaseURL.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	if _, err := url.ParseRequestURI(base); err != nil || base == "" {
		return nil, fmt.Errorf("invalid disclosure base URL %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		log:        logger.Named("disclosure"),
	}, nil
}

// Search runs a member search and returns the "PTR Original" filings found.
// A missing verification token is tolerated; the search is posted without it.
func (c *Client) Search(ctx context.Context, q Query) ([]Filing, error) {
	token, err := c.verificationToken(ctx)
	if err != nil {
		c.log.Warnw("could not fetch verification token, proceeding without it", "error", err)
	} else if token == "" {
		c.log.Warnw("verification token not found, proceeding without it")
	}

	body := q.form(token).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+landingPath)

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("searching disclosures: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searching disclosures: unexpected status %d", resp.StatusCode)
	}

	filings, err := c.parseResults(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing search results: %w", err)
	}

	c.log.Infow("disclosure search completed",
		"last_name", q.LastName,
		"filing_year", q.FilingYear,
		"state", q.State,
		"district", q.District,
		"filings", len(filings),
	)
	return filings, nil
}

// Download fetches a filing's PDF into dir and returns its path. When the
// file already exists it is not fetched again and fetched is false.
func (c *Client) Download(ctx context.Context, f Filing, dir string) (dest string, fetched bool, err error) {
	dest = filepath.Join(dir, f.FileName())
	if info, statErr := os.Stat(dest); statErr == nil && info.Size() > 0 {
		return dest, false, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating download directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return "", false, fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("Accept", "application/pdf,*/*;q=0.8")

	resp, err := c.do(req)
	if err != nil {
		return "", false, fmt.Errorf("downloading %s: %w", f.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("downloading %s: unexpected status %d", f.URL, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", false, fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return "", false, fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return "", false, fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", false, fmt.Errorf("writing %s: %w", dest, err)
	}
	return dest, true, nil
}

func (c *Client) verificationToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+landingPath, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}
	token, _ := doc.Find(`input[name="` + tokenField + `"]`).First().Attr("value")
	return token, nil
}

// parseResults keeps rows whose Filing cell reads exactly "PTR Original" and
// whose Name cell links somewhere.
func (c *Client) parseResults(r io.Reader) ([]Filing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var filings []Filing
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if cellText(row, "Filing") != filingTypePTR {
			return
		}
		link := row.Find(`td[data-label="Name"] a`).First()
		href, ok := link.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}

		f := Filing{
			Member: strings.TrimSpace(link.Text()),
			Office: cellText(row, "Office"),
			URL:    c.absolute(href),
		}
		if year, err := strconv.Atoi(cellText(row, "Filing Year")); err == nil {
			f.Year = year
		}
		f.FilingID = filingIDFromURL(f.URL)
		filings = append(filings, f)
	})
	return filings, nil
}

// absolute rewrites the site's relative public_disc/ links.
func (c *Client) absolute(href string) string {
	if strings.HasPrefix(href, "public_disc/") {
		return c.baseURL + "/" + href
	}
	if strings.HasPrefix(href, "/") {
		return c.baseURL + href
	}
	return href
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	}
	return c.httpClient.Do(req)
}

func cellText(row *goquery.Selection, label string) string {
	return strings.TrimSpace(row.Find(`td[data-label="` + label + `"]`).First().Text())
}

func filingIDFromURL(raw string) int64 {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	name := strings.TrimSuffix(path.Base(p), path.Ext(p))
	id, err := strconv.ParseInt(name, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

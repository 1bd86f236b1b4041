package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/url-analyzer/internal/analysis"
	"github.com/jonathan/url-analyzer/internal/fetch"
	"github.com/jonathan/url-analyzer/internal/observability"
	"github.com/jonathan/url-analyzer/internal/server/ratelimit"
	"github.com/jonathan/url-analyzer/internal/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher serves canned pages without network access.
type stubFetcher struct {
	pages map[string]string
}

func (f *stubFetcher) FetchHTML(_ context.Context, url string) (string, error) {
	if body, ok := f.pages[url]; ok {
		return body, nil
	}
	return "", &fetch.Error{URL: url, Message: "all 3 relays failed"}
}

func (f *stubFetcher) FetchText(ctx context.Context, url string) (string, error) {
	return f.FetchHTML(ctx, url)
}

func (f *stubFetcher) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := f.FetchHTML(ctx, url)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

func newTestServer(t *testing.T, limits *ratelimit.Config) (*Server, *observability.Metrics) {
	t.Helper()
	f := &stubFetcher{pages: map[string]string{
		"https://example.com/lp/sale": `<html><head><title>今すぐ無料 期間限定</title></head></html>`,
		"https://example.com/sitemap.xml": `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` +
			`<url><loc>https://example.com/blog/a</loc></url>` +
			`<url><loc>https://example.com/contact</loc></url>` +
			`</urlset>`,
	}}
	if limits == nil {
		limits = &ratelimit.Config{Enabled: false}
	}
	m := observability.NewMetrics()
	a := analysis.New(f, analysis.Options{ItemTimeout: time.Second, Metrics: m})
	s := New(a, Config{Port: 0, RateLimit: limits, Metrics: m})
	t.Cleanup(s.rateLimiter.Stop)
	return s, m
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(t, s.Handler(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestAnalyzeEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(t, s.Handler(), http.MethodPost, "/analyze",
		`{"url":"https://example.com/lp/sale?utm_source=google","business_type":"BtoC"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report types.PageReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 5, report.Hypothesis.Ad)
	assert.Equal(t, types.TemperatureHigh, report.Profile.Temperature)
	assert.Len(t, report.AdLibraryLinks, 3)
}

func TestAnalyzeEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{"malformed body", `{"url":`, http.StatusBadRequest},
		{"unknown field", `{"url":"https://example.com/","colour":"red"}`, http.StatusBadRequest},
		{"missing url", `{}`, http.StatusBadRequest},
		{"invalid url", `{"url":"example dot com"}`, http.StatusBadRequest},
		{"unknown site type", `{"url":"https://example.com/lp/sale","site_type":"casino"}`, http.StatusBadRequest},
		{"fetch failure", `{"url":"https://example.com/missing"}`, http.StatusBadGateway},
	}

	s, _ := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s.Handler(), http.MethodPost, "/analyze", tt.body)

			assert.Equal(t, tt.expected, w.Code, w.Body.String())
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestAnalyzeEndpoint_NamesUndecodableField(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(t, s.Handler(), http.MethodPost, "/analyze", `{"url":"https://example.com/","colour":"red"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation error: colour - is not a known field", resp["error"])
}

func TestAnalyzeEndpoint_WrongMethod(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(t, s.Handler(), http.MethodGet, "/analyze", "")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestSiteMapEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(t, s.Handler(), http.MethodPost, "/site-map", `{"domain":"example.com"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var m types.SiteMap
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, types.SourceSitemap, m.Source)
	require.Len(t, m.Entries, 2)
	assert.Equal(t, types.PageTypeContact, m.Entries[0].PageType)
	assert.Equal(t, types.PageTypeBlogArticle, m.Entries[1].PageType)
}

func TestSiteMapEndpoint_InvalidRequest(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(t, s.Handler(), http.MethodPost, "/site-map", `{"domain":"example.com","max_urls":-1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdLibrariesEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(t, s.Handler(), http.MethodGet, "/ad-libraries?domain=https://www.example.com/x", "")
	require.Equal(t, http.StatusOK, w.Code)
	var links []types.AdLibraryLink
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &links))
	require.Len(t, links, 3)
	assert.Contains(t, links[0].URL, "www.example.com")

	w = do(t, s.Handler(), http.MethodGet, "/ad-libraries", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(t, s.Handler(), http.MethodOptions, "/analyze", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	do(t, h, http.MethodGet, "/health", "")
	w := do(t, h, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `url_analyzer_http_requests_total{route="GET /health",status="200"} 1`)
}

func TestMetricsEndpoint_UnknownPathsShareOneSeries(t *testing.T) {
	s, m := newTestServer(t, nil)
	h := s.Handler()

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/random-a", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/random-b/c", "").Code)

	count, err := testutil.GatherAndCount(m.Gatherer(), "url_analyzer_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	w := do(t, h, http.MethodGet, "/metrics", "")
	assert.Contains(t, w.Body.String(), `url_analyzer_http_requests_total{route="unmatched",status="404"} 2`)
	assert.NotContains(t, w.Body.String(), "/random-a")
}

func TestRateLimit(t *testing.T) {
	s, m := newTestServer(t, &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
	})
	h := s.Handler()

	first := do(t, h, http.MethodGet, "/ad-libraries?domain=example.com", "")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := do(t, h, http.MethodGet, "/ad-libraries?domain=example.com", "")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "3600", second.Header().Get("Retry-After"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, "rate_limit_exceeded", resp["error"])

	// health checks are never limited
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)

	w := do(t, h, http.MethodGet, "/metrics", "")
	assert.Contains(t, w.Body.String(), "url_analyzer_http_rate_limited_total 1")
	_ = m
}

func TestExtractClientID(t *testing.T) {
	s, _ := newTestServer(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:54321"
	assert.Equal(t, "192.0.2.1", s.extractClientID(r))

	r.RemoteAddr = "not-an-addr"
	assert.Equal(t, "not-an-addr", s.extractClientID(r))
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t, nil)
	s.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

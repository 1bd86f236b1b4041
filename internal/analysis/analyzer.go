package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/jonathan/url-analyzer/internal/adsignals"
	"github.com/jonathan/url-analyzer/internal/discovery"
	"github.com/jonathan/url-analyzer/internal/observability"
	"github.com/jonathan/url-analyzer/internal/profile"
	"github.com/jonathan/url-analyzer/internal/proposal"
	"github.com/jonathan/url-analyzer/internal/scoring"
	"github.com/jonathan/url-analyzer/internal/signals"
	"github.com/jonathan/url-analyzer/internal/sitemap"
	"github.com/jonathan/url-analyzer/internal/types"
	"go.uber.org/zap"
)

// Fetcher is the network capability the analyzer needs.
type Fetcher interface {
	FetchDocument(ctx context.Context, url string) (*goquery.Document, error)
	FetchHTML(ctx context.Context, url string) (string, error)
	FetchText(ctx context.Context, url string) (string, error)
}

// Options configures an Analyzer.
type Options struct {
	MaxURLs     int
	ItemTimeout time.Duration
	Logger      *zap.Logger
	Metrics     *observability.Metrics
}

// Analyzer runs page analyses and site mappings. It keeps no results between calls.
type Analyzer struct {
	fetcher    Fetcher
	discoverer *discovery.Discoverer
	fetching   *sitemap.Classifier
	pathOnly   *sitemap.Classifier
	logger     *zap.Logger
	metrics    *observability.Metrics
	now        func() time.Time
}

// New creates an Analyzer.
func New(fetcher Fetcher, opts Options) *Analyzer {
	logger := observability.LoggerOrNop(opts.Logger)
	return &Analyzer{
		fetcher:    fetcher,
		discoverer: discovery.NewDiscoverer(fetcher, opts.MaxURLs, logger, opts.Metrics),
		fetching:   sitemap.NewClassifier(fetcher, opts.ItemTimeout, logger, opts.Metrics),
		pathOnly:   sitemap.NewClassifier(nil, opts.ItemTimeout, logger, opts.Metrics),
		logger:     logger,
		metrics:    opts.Metrics,
		now:        time.Now,
	}
}

// AnalyzeURL fetches a page and analyzes it. A malformed URL fails with
// *signals.InvalidURLError; a fetch failure surfaces the fetcher's error.
func (a *Analyzer) AnalyzeURL(ctx context.Context, req types.AnalyzeRequest) (*types.PageReport, error) {
	defer a.metrics.ObserveDuration("analyze", a.now())

	if _, err := signals.ParseURL(req.URL); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, &RequestError{Message: "analyze request", Cause: err}
	}

	a.logger.Info("analyzing page", zap.String("url", req.URL))
	doc, err := a.fetcher.FetchDocument(ctx, req.URL)
	if err != nil {
		a.logger.Warn("page fetch failed", zap.String("url", req.URL), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}

	return a.AnalyzeDocument(doc, req.URL, req.Site(), req.Business())
}

// AnalyzeHTML analyzes HTML that was obtained elsewhere.
func (a *Analyzer) AnalyzeHTML(html, rawURL string, siteType types.SiteType, businessType types.BusinessType) (*types.PageReport, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return a.AnalyzeDocument(doc, rawURL, siteType, businessType)
}

// AnalyzeDocument runs the pure pipeline over a parsed document.
func (a *Analyzer) AnalyzeDocument(doc *goquery.Document, rawURL string, siteType types.SiteType, businessType types.BusinessType) (*types.PageReport, error) {
	s, err := signals.Extract(doc, rawURL)
	if err != nil {
		return nil, err
	}

	indicators := adsignals.Detect(s, rawURL)
	scored := scoring.ScoreDetailed(s, indicators, siteType, businessType)
	p := profile.Estimate(s, scored.Hypothesis, businessType)

	return &types.PageReport{
		ID:             uuid.New(),
		AnalyzedAt:     a.now().UTC().Format(time.RFC3339),
		SiteType:       siteType,
		BusinessType:   businessType,
		Signals:        s,
		Indicators:     indicators,
		Hypothesis:     scored.Hypothesis,
		Profile:        p,
		Proposal:       proposal.Generate(p, scored.Hypothesis),
		AdLibraryLinks: proposal.AdLibraryLinks(s.Domain),
		RuleHits:       scored.Hits,
	}, nil
}

// MapSite discovers candidate URLs for a domain and classifies them, highest
// priority first. With req.Fetch unset, pages are classified from their paths.
func (a *Analyzer) MapSite(ctx context.Context, req types.SiteMapRequest) (*types.SiteMap, error) {
	defer a.metrics.ObserveDuration("site_map", a.now())

	if err := req.Validate(); err != nil {
		return nil, &RequestError{Message: "site map request", Cause: err}
	}
	domain, err := discovery.NormalizeDomain(req.Domain)
	if err != nil {
		return nil, err
	}

	found, err := a.discoverer.Candidates(ctx, domain)
	if err != nil {
		return nil, err
	}
	urls := found.URLs
	if req.MaxURLs > 0 && len(urls) > req.MaxURLs {
		urls = urls[:req.MaxURLs]
	}

	classifier := a.pathOnly
	if req.Fetch {
		classifier = a.fetching
	}
	entries := classifier.Classify(ctx, domain, urls)
	sitemap.SortByPriority(entries)

	degraded := 0
	for _, e := range entries {
		if e.Degraded() {
			degraded++
		}
	}
	a.logger.Info("site map complete",
		zap.String("domain", domain),
		zap.String("source", found.Source),
		zap.Int("entries", len(entries)),
		zap.Int("degraded", degraded))

	return &types.SiteMap{
		Domain:      domain,
		GeneratedAt: a.now().UTC().Format(time.RFC3339),
		Source:      found.Source,
		Entries:     entries,
		Degraded:    degraded,
	}, nil
}

package discovery

import (
	"context"
	"net/url"
	"strings"

	"github.com/jonathan/url-analyzer/internal/observability"
	"github.com/jonathan/url-analyzer/internal/types"
	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
)

// DefaultMaxURLs caps the candidate list handed to the classifier.
const DefaultMaxURLs = 200

// maxChildSitemaps bounds how many sitemap index children are read.
const maxChildSitemaps = 10

// robotsAgent is the user agent matched against robots.txt groups.
const robotsAgent = "URLAnalyzer"

// FallbackPaths are common site sections tried when nothing else is found.
var FallbackPaths = []string{
	"/", "/about", "/company", "/contact", "/faq",
	"/products", "/services", "/blog", "/news", "/column",
	"/pricing", "/price", "/case", "/cases", "/support",
	"/login", "/cart", "/recruit", "/privacy", "/terms",
}

// Fetcher retrieves raw text resources and page HTML.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
	FetchHTML(ctx context.Context, url string) (string, error)
}

// Result is the candidate list and where it came from.
type Result struct {
	URLs   []string
	Source string
}

// Discoverer resolves candidate URLs for a domain.
type Discoverer struct {
	fetcher Fetcher
	maxURLs int
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewDiscoverer creates a Discoverer. maxURLs <= 0 uses DefaultMaxURLs.
func NewDiscoverer(fetcher Fetcher, maxURLs int, logger *zap.Logger, metrics *observability.Metrics) *Discoverer {
	if maxURLs <= 0 {
		maxURLs = DefaultMaxURLs
	}
	return &Discoverer{
		fetcher: fetcher,
		maxURLs: maxURLs,
		logger:  observability.LoggerOrNop(logger),
		metrics: metrics,
	}
}

// NormalizeDomain reduces user input such as "https://www.example.com/x" to
// a bare lower-case host.
func NormalizeDomain(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", &DomainError{Domain: input, Message: "empty"}
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", &DomainError{Domain: input, Message: "cannot parse", Cause: err}
	}
	host := strings.ToLower(u.Host)
	if host == "" || strings.ContainsAny(host, " /") {
		return "", &DomainError{Domain: input, Message: "missing host"}
	}
	return host, nil
}

// Candidates returns up to maxURLs same-site URLs for domain. Discovery
// failures fall through to the next strategy; the fixed path list always
// produces a result, so only an invalid domain is an error.
func (d *Discoverer) Candidates(ctx context.Context, domain string) (Result, error) {
	host, err := NormalizeDomain(domain)
	if err != nil {
		return Result{}, err
	}
	root := "https://" + host

	robots := d.loadRobots(ctx, root)

	sitemaps := []string{root + "/sitemap.xml"}
	if robots != nil && len(robots.Sitemaps) > 0 {
		sitemaps = robots.Sitemaps
	}
	if urls := d.filter(host, robots, d.fromSitemaps(ctx, sitemaps)); len(urls) > 0 {
		return d.result(urls, types.SourceSitemap), nil
	}

	if urls := d.filter(host, robots, d.fromHomepage(ctx, root)); len(urls) > 0 {
		return d.result(urls, types.SourceLinks), nil
	}

	fallback := make([]string, 0, len(FallbackPaths))
	for _, p := range FallbackPaths {
		fallback = append(fallback, root+p)
	}
	return d.result(d.filter(host, nil, fallback), types.SourceFallback), nil
}

func (d *Discoverer) result(urls []string, source string) Result {
	d.logger.Info("discovered candidate URLs",
		zap.String("source", source),
		zap.Int("count", len(urls)))
	d.metrics.ObserveDiscovery(source, len(urls))
	return Result{URLs: urls, Source: source}
}

func (d *Discoverer) loadRobots(ctx context.Context, root string) *robotstxt.RobotsData {
	body, err := d.fetcher.FetchText(ctx, root+"/robots.txt")
	if err != nil {
		d.logger.Debug("robots.txt unavailable", zap.String("root", root), zap.Error(err))
		return nil
	}
	robots, err := robotstxt.FromString(body)
	if err != nil {
		d.logger.Debug("robots.txt unparsable", zap.String("root", root), zap.Error(err))
		return nil
	}
	return robots
}

// fromSitemaps reads each sitemap, following index children one level deep.
func (d *Discoverer) fromSitemaps(ctx context.Context, sitemaps []string) []string {
	var urls []string
	for _, loc := range sitemaps {
		parsed := d.readSitemap(ctx, loc)
		if parsed == nil {
			continue
		}
		urls = append(urls, parsed.URLs...)
		for i, child := range parsed.Children {
			if i >= maxChildSitemaps || len(urls) >= d.maxURLs {
				break
			}
			if cp := d.readSitemap(ctx, child); cp != nil {
				urls = append(urls, cp.URLs...)
			}
		}
		if len(urls) >= d.maxURLs {
			break
		}
	}
	return urls
}

func (d *Discoverer) readSitemap(ctx context.Context, loc string) *ParsedSitemap {
	body, err := d.fetcher.FetchText(ctx, loc)
	if err != nil {
		d.logger.Debug("sitemap unavailable", zap.String("sitemap", loc), zap.Error(err))
		return nil
	}
	parsed, err := ParseSitemap(body)
	if err != nil {
		d.logger.Debug("sitemap unparsable", zap.String("sitemap", loc), zap.Error(err))
		return nil
	}
	return parsed
}

func (d *Discoverer) fromHomepage(ctx context.Context, root string) []string {
	html, err := d.fetcher.FetchHTML(ctx, root+"/")
	if err != nil {
		d.logger.Debug("homepage unavailable", zap.String("root", root), zap.Error(err))
		return nil
	}
	links, err := ExtractLinks(html, root+"/")
	if err != nil {
		return nil
	}
	return append([]string{root + "/"}, links...)
}

// filter keeps same-site http(s) URLs allowed by robots, deduplicated and capped.
func (d *Discoverer) filter(host string, robots *robotstxt.RobotsData, urls []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, min(len(urls), d.maxURLs))
	for _, raw := range urls {
		if len(out) >= d.maxURLs {
			break
		}
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			continue
		}
		if !SameSite(u.Hostname(), (&url.URL{Host: host}).Hostname()) {
			continue
		}
		if robots != nil && !robots.TestAgent(pathWithQuery(u), robotsAgent) {
			continue
		}
		u.Fragment = ""
		key := Canonical(u.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

func pathWithQuery(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return p
}

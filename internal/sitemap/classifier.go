package sitemap

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/url-analyzer/internal/observability"
	"github.com/jonathan/url-analyzer/internal/signals"
	"github.com/jonathan/url-analyzer/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchSize is the number of pages fetched concurrently. A batch must settle
// completely before the next one starts.
const BatchSize = 5

// DefaultItemTimeout bounds the fetch of a single page.
const DefaultItemTimeout = 10 * time.Second

// DocumentFetcher retrieves and parses one page. Implementations should return
// once ctx is done; the classifier stops waiting at the item timeout either way.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, url string) (*goquery.Document, error)
}

// Classifier assigns page types to candidate URLs of a site.
type Classifier struct {
	fetcher     DocumentFetcher
	itemTimeout time.Duration
	logger      *zap.Logger
	metrics     *observability.Metrics
}

// NewClassifier creates a Classifier. A nil fetcher classifies from paths only.
func NewClassifier(fetcher DocumentFetcher, itemTimeout time.Duration, logger *zap.Logger, metrics *observability.Metrics) *Classifier {
	if itemTimeout <= 0 {
		itemTimeout = DefaultItemTimeout
	}
	return &Classifier{
		fetcher:     fetcher,
		itemTimeout: itemTimeout,
		logger:      observability.LoggerOrNop(logger),
		metrics:     metrics,
	}
}

// Classify returns one entry per URL, in input order. Relative URLs are
// resolved against https://<domain>. A page whose fetch fails or times out
// yields a low-confidence entry typed from its path; it never fails the batch.
func (c *Classifier) Classify(ctx context.Context, domain string, urls []string) []types.SiteURLEntry {
	entries := make([]types.SiteURLEntry, len(urls))
	base := &url.URL{Scheme: "https", Host: domain, Path: "/"}

	for start := 0; start < len(urls); start += BatchSize {
		end := min(start+BatchSize, len(urls))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				entries[i] = c.classifyOne(ctx, resolve(base, urls[i]))
				return nil
			})
		}
		_ = g.Wait()
	}

	for _, e := range entries {
		c.metrics.ObserveClassification(string(e.PageType), string(e.Confidence))
	}
	return entries
}

func (c *Classifier) classifyOne(ctx context.Context, rawURL string) types.SiteURLEntry {
	pathType := DetectPageType(PathOf(rawURL))
	if c.fetcher == nil {
		return NewEntry(rawURL, pathType, types.ConfidenceMedium)
	}

	itemCtx, cancel := context.WithTimeout(ctx, c.itemTimeout)
	defer cancel()

	doc, err := c.fetch(itemCtx, rawURL)
	if err == nil && doc == nil {
		err = context.DeadlineExceeded
	}
	if err != nil {
		c.logger.Debug("page fetch failed, using path classification",
			zap.String("url", rawURL),
			zap.Error(err))
		entry := NewEntry(rawURL, pathType, types.ConfidenceLow)
		entry.Error = err.Error()
		return entry
	}

	pageType := pathType
	if pageType == types.PageTypeOther {
		if refined, ok := RefineFromDocument(doc); ok {
			pageType = refined
		}
	}
	entry := NewEntry(rawURL, pageType, types.ConfidenceHigh)
	entry.Title = strings.TrimSpace(doc.Find("title").First().Text())
	return entry
}

type fetchResult struct {
	doc *goquery.Document
	err error
}

// fetch waits for the fetcher until ctx is done. A fetcher that ignores ctx
// is abandoned and finishes in the background.
func (c *Classifier) fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	done := make(chan fetchResult, 1)
	go func() {
		doc, err := c.fetcher.FetchDocument(ctx, rawURL)
		done <- fetchResult{doc: doc, err: err}
	}()

	select {
	case res := <-done:
		return res.doc, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// schemaTypes maps schema.org types to page types.
var schemaTypes = map[string]types.PageType{
	"faqpage":        types.PageTypeFAQ,
	"qapage":         types.PageTypeFAQ,
	"contactpage":    types.PageTypeContact,
	"product":        types.PageTypeProductDetail,
	"productgroup":   types.PageTypeProductDetail,
	"article":        types.PageTypeBlogArticle,
	"blogposting":    types.PageTypeBlogArticle,
	"newsarticle":    types.PageTypeBlogArticle,
	"aboutpage":      types.PageTypeCompanyInfo,
	"store":          types.PageTypeStore,
	"collectionpage": types.PageTypeCategory,
	"checkoutpage":   types.PageTypeCheckout,
}

var ogTypes = map[string]types.PageType{
	"article":      types.PageTypeBlogArticle,
	"product":      types.PageTypeProductDetail,
	"og:product":   types.PageTypeProductDetail,
	"product.item": types.PageTypeProductDetail,
}

// RefineFromDocument infers a page type from JSON-LD @type values, then og:type.
func RefineFromDocument(doc *goquery.Document) (types.PageType, bool) {
	if doc == nil {
		return "", false
	}
	data, _ := signals.ExtractStructuredData(doc)
	for _, name := range schemaTypeNames(data) {
		if t, ok := schemaTypes[strings.ToLower(name)]; ok {
			return t, true
		}
	}
	if og, ok := doc.Find(`meta[property="og:type"]`).First().Attr("content"); ok {
		if t, ok := ogTypes[strings.ToLower(strings.TrimSpace(og))]; ok {
			return t, true
		}
	}
	return "", false
}

// schemaTypeNames collects @type values from decoded JSON-LD, descending into
// arrays and @graph, in document order.
func schemaTypeNames(v any) []string {
	var names []string
	switch x := v.(type) {
	case []any:
		for _, item := range x {
			names = append(names, schemaTypeNames(item)...)
		}
	case map[string]any:
		switch t := x["@type"].(type) {
		case string:
			names = append(names, t)
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok {
					names = append(names, s)
				}
			}
		}
		if graph, ok := x["@graph"]; ok {
			names = append(names, schemaTypeNames(graph)...)
		}
	}
	return names
}

func resolve(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return base.ResolveReference(ref).String()
}

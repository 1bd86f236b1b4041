package signals

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/url-analyzer/internal/keywords"
	"github.com/jonathan/url-analyzer/internal/types"
)

// ogProperties and twitterNames are the only social tags captured.
var (
	ogProperties = []string{"title", "description", "image", "url", "type", "site_name"}
	twitterNames = []string{"card", "title", "description", "image", "site"}
)

// Extract builds PageSignals from a parsed document and the URL it was fetched from.
func Extract(doc *goquery.Document, rawURL string) (*types.PageSignals, error) {
	parsed, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	s := &types.PageSignals{
		URL:          rawURL,
		Domain:       parsed.Hostname(),
		URLPath:      parsed.Path,
		QueryParams:  ParseQuery(parsed.RawQuery),
		AllH1s:       []string{},
		OGTags:       map[string]string{},
		TwitterCards: map[string]string{},
		MetaTags:     types.MetaTags{Hreflangs: []types.Hreflang{}},
		Keywords:     []string{},
	}
	if doc == nil {
		s.StructuredData = []any{}
		return s, nil
	}

	s.Title = strings.TrimSpace(doc.Find("title").First().Text())
	s.MetaDescription = attr(doc.Find(`meta[name="description"]`), "content")
	s.H1 = strings.TrimSpace(doc.Find("h1").First().Text())
	doc.Find("h1").Each(func(_ int, h *goquery.Selection) {
		s.AllH1s = append(s.AllH1s, strings.TrimSpace(h.Text()))
	})

	s.OGTags = extractOGPTags(doc)
	s.TwitterCards = extractTwitterCards(doc)
	s.StructuredData, _ = ExtractStructuredData(doc)
	s.MetaTags = extractMetaTags(doc)
	s.Keywords = ExtractKeywords(ContentText(s))

	return s, nil
}

// ParseURL parses a page URL, requiring an absolute URL with scheme and host.
func ParseURL(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, &InvalidURLError{URL: rawURL, Cause: err}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &InvalidURLError{URL: rawURL}
	}
	return parsed, nil
}

// ContentText is the haystack every content rule searches: title, description and first h1.
func ContentText(s *types.PageSignals) string {
	if s == nil {
		return ""
	}
	return s.Title + " " + s.MetaDescription + " " + s.H1
}

// ParseQuery splits a raw query string into ordered pairs, keeping duplicates.
// Keys and values that fail to unescape are kept verbatim.
func ParseQuery(rawQuery string) []types.QueryParam {
	params := make([]types.QueryParam, 0)
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		params = append(params, types.QueryParam{
			Key:   unescape(key),
			Value: unescape(value),
		})
	}
	return params
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

// attr returns the trimmed attribute of the first element in sel.
func attr(sel *goquery.Selection, name string) string {
	v, _ := sel.First().Attr(name)
	return strings.TrimSpace(v)
}

func extractOGPTags(doc *goquery.Document) map[string]string {
	tags := make(map[string]string)
	for _, prop := range ogProperties {
		el := doc.Find(`meta[property="og:` + prop + `"]`).First()
		if el.Length() == 0 {
			continue
		}
		content, _ := el.Attr("content")
		tags[prop] = content
	}
	return tags
}

func extractTwitterCards(doc *goquery.Document) map[string]string {
	cards := make(map[string]string)
	for _, name := range twitterNames {
		el := doc.Find(`meta[name="twitter:` + name + `"]`).First()
		if el.Length() == 0 {
			continue
		}
		content, _ := el.Attr("content")
		cards[name] = content
	}
	return cards
}

// ExtractStructuredData decodes every JSON-LD block in document order. Blocks
// that fail to decode are dropped and reported in the returned ParseErrors,
// which callers are free to ignore.
func ExtractStructuredData(doc *goquery.Document) ([]any, []*ParseError) {
	data := make([]any, 0)
	var parseErrs []*ParseError
	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, script *goquery.Selection) {
		var v any
		if err := json.Unmarshal([]byte(script.Text()), &v); err != nil {
			parseErrs = append(parseErrs, &ParseError{Index: i, Cause: err})
			return
		}
		data = append(data, v)
	})
	return data, parseErrs
}

func extractMetaTags(doc *goquery.Document) types.MetaTags {
	tags := types.MetaTags{
		Robots:    attr(doc.Find(`meta[name="robots"]`), "content"),
		Canonical: attr(doc.Find(`link[rel="canonical"]`), "href"),
		Author:    attr(doc.Find(`meta[name="author"]`), "content"),
		Keywords:  attr(doc.Find(`meta[name="keywords"]`), "content"),
		Viewport:  attr(doc.Find(`meta[name="viewport"]`), "content"),
		Hreflangs: []types.Hreflang{},
	}
	doc.Find(`link[rel="alternate"][hreflang]`).Each(func(_ int, link *goquery.Selection) {
		lang, _ := link.Attr("hreflang")
		href, _ := link.Attr("href")
		tags.Hreflangs = append(tags.Hreflangs, types.Hreflang{Lang: lang, Href: href})
	})
	return tags
}

// keywordTable is the bilingual concept table; each concept is reported by
// its Japanese name the first time any synonym matches.
var keywordTable = keywords.NewTable(
	keywords.Group{Name: "無料", Terms: []string{"無料", "free"}},
	keywords.Group{Name: "資料請求", Terms: []string{"資料請求", "お問い合わせ"}},
	keywords.Group{Name: "キャンペーン", Terms: []string{"キャンペーン", "campaign"}},
	keywords.Group{Name: "限定", Terms: []string{"限定", "limited"}},
	keywords.Group{Name: "ブログ", Terms: []string{"ブログ", "blog"}},
	keywords.Group{Name: "コラム", Terms: []string{"コラム", "column"}},
	keywords.Group{Name: "記事", Terms: []string{"記事", "article"}},
	keywords.Group{Name: "比較", Terms: []string{"比較", "compare"}},
	keywords.Group{Name: "選び方", Terms: []string{"選び方", "how to choose"}},
)

// ExtractKeywords returns the concepts found in text, in table order.
func ExtractKeywords(text string) []string {
	return keywordTable.Match(text)
}

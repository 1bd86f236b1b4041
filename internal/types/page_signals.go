// Package types provides type definitions for structured data used throughout the url-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// QueryParam is a single key/value pair from a URL query string, in source order.
type QueryParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Hreflang is an alternate-language link declared by the page.
type Hreflang struct {
	Lang string `json:"lang"`
	Href string `json:"href"`
}

// MetaTags holds the recognized <meta>/<link> values of a page.
type MetaTags struct {
	Robots    string     `json:"robots"`
	Canonical string     `json:"canonical"`
	Author    string     `json:"author"`
	Keywords  string     `json:"keywords"`
	Viewport  string     `json:"viewport"`
	Hreflangs []Hreflang `json:"hreflangs"`
}

// PageSignals is the flat bag of signals extracted from one fetched page.
// It is built once per analysis and treated as read-only afterwards.
type PageSignals struct {
	URL             string            `json:"url"`
	Domain          string            `json:"domain"`
	URLPath         string            `json:"url_path"`
	QueryParams     []QueryParam      `json:"query_params"`
	Title           string            `json:"title"`
	MetaDescription string            `json:"meta_description"`
	H1              string            `json:"h1"`
	AllH1s          []string          `json:"all_h1s"`
	OGTags          map[string]string `json:"og_tags"`
	TwitterCards    map[string]string `json:"twitter_cards"`
	StructuredData  []any             `json:"structured_data"`
	MetaTags        MetaTags          `json:"meta_tags"`
	Keywords        []string          `json:"keywords"`
}

// HasKeyword reports whether the extracted keyword list contains kw.
func (s *PageSignals) HasKeyword(kw string) bool {
	for _, k := range s.Keywords {
		if k == kw {
			return true
		}
	}
	return false
}

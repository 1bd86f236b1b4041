package discovery

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// urlSet is the root element of a standard sitemap.
type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

// sitemapIndex is the root element of a sitemap index.
type sitemapIndex struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

// ParsedSitemap is either a list of page URLs or a list of child sitemaps.
type ParsedSitemap struct {
	URLs     []string
	Children []string
}

// ParseSitemap parses a urlset or a sitemapindex document.
func ParseSitemap(body string) (*ParsedSitemap, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return nil, fmt.Errorf("parse sitemap: empty document")
	}

	var set urlSet
	if err := xml.Unmarshal([]byte(trimmed), &set); err == nil {
		out := &ParsedSitemap{URLs: make([]string, 0, len(set.URLs))}
		for _, u := range set.URLs {
			if loc := strings.TrimSpace(u.Loc); loc != "" {
				out.URLs = append(out.URLs, loc)
			}
		}
		return out, nil
	}

	var index sitemapIndex
	if err := xml.Unmarshal([]byte(trimmed), &index); err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}
	out := &ParsedSitemap{Children: make([]string, 0, len(index.Sitemaps))}
	for _, s := range index.Sitemaps {
		if loc := strings.TrimSpace(s.Loc); loc != "" {
			out.Children = append(out.Children, loc)
		}
	}
	return out, nil
}

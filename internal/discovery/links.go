package discovery

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// skippedExtensions are linked files that are never pages.
var skippedExtensions = []string{
	".pdf", ".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp",
	".zip", ".mp4", ".mp3", ".css", ".js", ".xml", ".ico",
}

// ExtractLinks extracts all same-site links from HTML content, in document order.
// Hosts that differ only by a leading "www." count as the same site.
func ExtractLinks(htmlContent string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, &LinkExtractionError{
			Message: "failed to parse base URL",
			Cause:   err,
		}
	}

	if base.Scheme == "" || base.Host == "" {
		return nil, &LinkExtractionError{
			Message: fmt.Sprintf("invalid base URL: %s (must have scheme and host)", baseURL),
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &LinkExtractionError{
			Message: "failed to parse HTML",
			Cause:   err,
		}
	}

	linkSet := make(map[string]bool)
	links := make([]string, 0)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		href = strings.TrimSpace(href)
		if !exists || href == "" || strings.HasPrefix(href, "#") {
			return
		}

		linkURL, err := url.Parse(href)
		if err != nil {
			return
		}

		absoluteURL := base.ResolveReference(linkURL)
		if absoluteURL.Scheme != "http" && absoluteURL.Scheme != "https" {
			return
		}
		if !SameSite(absoluteURL.Hostname(), base.Hostname()) {
			return
		}
		if hasSkippedExtension(absoluteURL.Path) {
			return
		}

		absoluteURL.Fragment = ""
		urlString := Canonical(absoluteURL.String())

		if !linkSet[urlString] {
			linkSet[urlString] = true
			links = append(links, urlString)
		}
	})

	return links, nil
}

// SameSite compares hosts case-insensitively, ignoring a leading "www.".
func SameSite(a, b string) bool {
	return stripWWW(a) == stripWWW(b)
}

func stripWWW(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// Canonical trims a trailing slash from non-root URLs so duplicates collapse.
func Canonical(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return rawURL
	}
	return strings.TrimSuffix(rawURL, "/")
}

func hasSkippedExtension(path string) bool {
	p := strings.ToLower(path)
	for _, ext := range skippedExtensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// Package discovery resolves the starter set of candidate URLs for a site:
// sitemaps advertised in robots.txt, /sitemap.xml, links on the homepage, and
// finally a fixed list of common section paths.
package discovery

import "fmt"

// DomainError reports a domain that cannot be turned into a site root.
type DomainError struct {
	Domain  string
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid domain %q: %s: %v", e.Domain, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid domain %q: %s", e.Domain, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// LinkExtractionError represents a failure in extracting links from HTML
type LinkExtractionError struct {
	Message string
	Cause   error
}

func (e *LinkExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("link extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("link extraction error: %s", e.Message)
}

func (e *LinkExtractionError) Unwrap() error {
	return e.Cause
}

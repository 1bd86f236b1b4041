// Package signals extracts typed page signals from a parsed HTML document.
package signals

import "fmt"

// InvalidURLError represents a malformed page URL. It is the only error the
// extractor returns; missing page elements never fail extraction.
type InvalidURLError struct {
	URL   string
	Cause error
}

func (e *InvalidURLError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid URL %q: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("invalid URL %q: must have scheme and host", e.URL)
}

func (e *InvalidURLError) Unwrap() error {
	return e.Cause
}

// ParseError represents a structured-data block that could not be decoded.
// Extraction recovers from it by dropping the block.
type ParseError struct {
	Index int
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("structured data block %d: %v", e.Index, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Package analysis wires the page analysis pipeline (signals, ad indicators,
// scoring, profile, proposal) and the site mapping pipeline (discovery,
// classification, priority ordering) behind one Analyzer.
package analysis

import "fmt"

// RequestError reports a request that failed validation.
type RequestError struct {
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid request: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid request: %s", e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// Package server provides the HTTP API for the URL analyzer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/url-analyzer/internal/analysis"
	"github.com/jonathan/url-analyzer/internal/discovery"
	"github.com/jonathan/url-analyzer/internal/fetch"
	"github.com/jonathan/url-analyzer/internal/signals"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

const unknownFieldPrefix = "json: unknown field "

// decodeError describes a request body that could not be decoded, naming the
// offending field when the decoder reports one.
func decodeError(err error) *ErrValidation {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		sizeErr   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return &ErrValidation{Field: typeErr.Field, Message: "must be a " + typeErr.Type.String()}
	case strings.HasPrefix(err.Error(), unknownFieldPrefix):
		return &ErrValidation{
			Field:   strings.Trim(strings.TrimPrefix(err.Error(), unknownFieldPrefix), `"`),
			Message: "is not a known field",
		}
	case errors.As(err, &sizeErr):
		return &ErrValidation{Field: "body", Message: fmt.Sprintf("exceeds %d bytes", sizeErr.Limit)}
	case errors.Is(err, io.EOF):
		return &ErrValidation{Field: "body", Message: "is empty"}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &ErrValidation{Field: "body", Message: "is not valid JSON"}
	default:
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		requestErr    *analysis.RequestError
		invalidURL    *signals.InvalidURLError
		domainErr     *discovery.DomainError
		fieldErrs     validator.ValidationErrors
		fetchErr      *fetch.Error
	)
	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &requestErr),
		errors.As(err, &invalidURL),
		errors.As(err, &domainErr),
		errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

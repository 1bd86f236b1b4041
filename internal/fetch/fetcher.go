package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v5"
	"github.com/jonathan/url-analyzer/internal/observability"
	"go.uber.org/zap"
)

// MinContentLength is the shortest response a relay may return before it
// counts as a failure. Relays answer blocked or empty pages with short stubs.
const MinContentLength = 100

// DefaultMaxRetries is how many times a relay is retried after a transient failure.
const DefaultMaxRetries = 2

// ErrShortContent reports a relay response below MinContentLength.
var ErrShortContent = errors.New("response too short")

// Fetcher retrieves pages through an ordered relay chain.
type Fetcher struct {
	relays     []Relay
	text       *Options
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithRetries sets the retry count and backoff bounds for each relay.
func WithRetries(maxRetries int, baseDelay, maxDelay time.Duration) Option {
	return func(f *Fetcher) {
		f.maxRetries = max(0, maxRetries)
		if baseDelay > 0 {
			f.baseDelay = baseDelay
		}
		if maxDelay > 0 {
			f.maxDelay = maxDelay
		}
	}
}

// WithLogger sets the logger used for attempt diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) {
		f.logger = observability.LoggerOrNop(l)
	}
}

// WithMetrics records every attempt outcome.
func WithMetrics(m *observability.Metrics) Option {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// WithTextOptions sets the HTTP options used by FetchText.
func WithTextOptions(opts *Options) Option {
	return func(f *Fetcher) {
		if opts != nil {
			f.text = opts
		}
	}
}

// NewFetcher creates a Fetcher that tries relays in the given order.
func NewFetcher(relays []Relay, opts ...Option) *Fetcher {
	f := &Fetcher{
		relays:     relays,
		text:       DefaultOptions(),
		maxRetries: DefaultMaxRetries,
		baseDelay:  200 * time.Millisecond,
		maxDelay:   2 * time.Second,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Relays returns the relay names in the order they are tried.
func (f *Fetcher) Relays() []string {
	names := make([]string, 0, len(f.relays))
	for _, r := range f.relays {
		names = append(names, r.Name())
	}
	return names
}

// FetchHTML returns the first usable HTML any relay produces for target.
// When every relay fails, the returned *Error joins each relay's failure.
func (f *Fetcher) FetchHTML(ctx context.Context, target string) (string, error) {
	if len(f.relays) == 0 {
		return "", &Error{URL: target, Message: "no relays configured"}
	}

	var errs []error
	for _, relay := range f.relays {
		html, err := f.tryRelay(ctx, relay, target)
		if err == nil {
			return html, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", relay.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}

	return "", &Error{
		URL:     target,
		Message: fmt.Sprintf("all %d relays failed", len(f.relays)),
		Cause:   errors.Join(errs...),
	}
}

// FetchDocument fetches target and parses it into a goquery document.
func (f *Fetcher) FetchDocument(ctx context.Context, target string) (*goquery.Document, error) {
	html, err := f.FetchHTML(ctx, target)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &Error{URL: target, Message: "failed to parse HTML", Cause: err}
	}
	return doc, nil
}

// FetchText retrieves a raw text resource such as robots.txt or a sitemap.
// Only the direct route is used and short bodies are accepted.
func (f *Fetcher) FetchText(ctx context.Context, target string) (string, error) {
	res, err := backoff.Retry(ctx, func() (*Result, error) {
		res, err := URL(ctx, target, f.text)
		if err != nil && !retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return res, err
	}, f.retryOptions(RelayDirect, target)...)
	if err != nil {
		f.metrics.ObserveFetch(RelayDirect, observability.OutcomeError)
		return "", err
	}
	f.metrics.ObserveFetch(RelayDirect, observability.OutcomeSuccess)
	return res.HTML, nil
}

func (f *Fetcher) tryRelay(ctx context.Context, relay Relay, target string) (string, error) {
	html, err := backoff.Retry(ctx, func() (string, error) {
		html, err := relay.Fetch(ctx, target)
		if err == nil && len(strings.TrimSpace(html)) < MinContentLength {
			err = backoff.Permanent(fmt.Errorf("%w: %d bytes", ErrShortContent, len(html)))
		} else if err != nil && !retryable(err) {
			err = backoff.Permanent(err)
		}
		return html, err
	}, f.retryOptions(relay.Name(), target)...)

	switch {
	case err == nil:
		f.metrics.ObserveFetch(relay.Name(), observability.OutcomeSuccess)
	case errors.Is(err, ErrShortContent):
		f.metrics.ObserveFetch(relay.Name(), observability.OutcomeShort)
	default:
		f.metrics.ObserveFetch(relay.Name(), observability.OutcomeError)
	}
	if err != nil {
		f.logger.Debug("relay failed",
			zap.String("relay", relay.Name()),
			zap.String("url", target),
			zap.Error(err))
		return "", err
	}
	return html, nil
}

func (f *Fetcher) retryOptions(relay, target string) []backoff.RetryOption {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     f.baseDelay,
		RandomizationFactor: 0.1,
		Multiplier:          2,
		MaxInterval:         f.maxDelay,
	}
	return []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(f.maxRetries) + 1),
		backoff.WithNotify(func(err error, next time.Duration) {
			f.logger.Debug("retrying fetch",
				zap.String("relay", relay),
				zap.String("url", target),
				zap.Duration("backoff", next),
				zap.Error(err))
		}),
	}
}

// retryable reports whether a failure is worth another attempt: transport
// errors, server errors and rate limiting.
func retryable(err error) bool {
	var fe *Error
	if !errors.As(err, &fe) {
		return true
	}
	if fe.Message == msgInvalidURL {
		return false
	}
	switch fe.StatusCode {
	case 0,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests:
		return true
	default:
		return false
	}
}

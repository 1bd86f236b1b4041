package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Relay names accepted in configuration.
const (
	RelayDirect     = "direct"
	RelayAllOrigins = "allorigins"
	RelayCorsProxy  = "corsproxy"
	RelayBrowser    = "browser"
)

// Relay retrieves the HTML of a target URL by some route.
type Relay interface {
	Name() string
	Fetch(ctx context.Context, target string) (string, error)
}

// HTTPRelay fetches through an HTTP endpoint derived from the target URL.
type HTTPRelay struct {
	RelayName string
	// Endpoint builds the request URL for a target.
	Endpoint func(target string) string
	// Decode extracts the page HTML from the response body.
	Decode  func(body string) (string, error)
	Options *Options
}

// Name implements Relay.
func (r *HTTPRelay) Name() string {
	return r.RelayName
}

// Fetch implements Relay.
func (r *HTTPRelay) Fetch(ctx context.Context, target string) (string, error) {
	endpoint := target
	if r.Endpoint != nil {
		endpoint = r.Endpoint(target)
	}
	res, err := URL(ctx, endpoint, r.Options)
	if err != nil {
		return "", err
	}
	if r.Decode == nil {
		return res.HTML, nil
	}
	return r.Decode(res.HTML)
}

// Direct fetches the target itself.
func Direct(opts *Options) *HTTPRelay {
	return &HTTPRelay{RelayName: RelayDirect, Options: opts}
}

// AllOrigins fetches through api.allorigins.win, which wraps the page in JSON.
func AllOrigins(opts *Options) *HTTPRelay {
	return &HTTPRelay{
		RelayName: RelayAllOrigins,
		Endpoint: func(target string) string {
			return "https://api.allorigins.win/get?url=" + url.QueryEscape(target)
		},
		Decode:  decodeAllOrigins,
		Options: opts,
	}
}

// CorsProxy fetches through corsproxy.io, which returns the page as is.
func CorsProxy(opts *Options) *HTTPRelay {
	return &HTTPRelay{
		RelayName: RelayCorsProxy,
		Endpoint: func(target string) string {
			return "https://corsproxy.io/?" + url.QueryEscape(target)
		},
		Options: opts,
	}
}

type allOriginsResponse struct {
	Contents string `json:"contents"`
}

func decodeAllOrigins(body string) (string, error) {
	var resp allOriginsResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return "", fmt.Errorf("failed to decode allorigins response: %w", err)
	}
	return resp.Contents, nil
}

// DefaultRelayNames is the fallback order used when none is configured.
var DefaultRelayNames = []string{RelayDirect, RelayAllOrigins, RelayCorsProxy}

// NewRelays builds relays by name, in order. Unknown names are an error.
func NewRelays(names []string, opts *Options, browser *BrowserRelay) ([]Relay, error) {
	relays := make([]Relay, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case RelayDirect:
			relays = append(relays, Direct(opts))
		case RelayAllOrigins:
			relays = append(relays, AllOrigins(opts))
		case RelayCorsProxy:
			relays = append(relays, CorsProxy(opts))
		case RelayBrowser:
			if browser == nil {
				browser = &BrowserRelay{}
			}
			relays = append(relays, browser)
		default:
			return nil, &Error{Message: fmt.Sprintf("unknown relay %q", name)}
		}
	}
	return relays, nil
}

// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/url-analyzer/internal/fetch"
	"github.com/jonathan/url-analyzer/internal/types"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Analysis
	SiteType     string `json:"site_type,omitempty"`     // EC, SaaS, メディア, コーポレート or an English alias
	BusinessType string `json:"business_type,omitempty"` // BtoB or BtoC

	// Fetching
	Relays              []string `json:"relays,omitempty"`                // Relay order: direct, allorigins, corsproxy, browser
	FetchTimeoutSeconds int      `json:"fetch_timeout_seconds,omitempty"` // Per-request HTTP timeout
	ItemTimeoutSeconds  int      `json:"item_timeout_seconds,omitempty"`  // Per-page budget during site mapping
	MaxRetries          int      `json:"max_retries,omitempty"`           // Retries per relay on transient failures
	MaxURLs             int      `json:"max_urls,omitempty"`              // Candidate cap for site mapping
	UseBrowser          bool     `json:"use_browser,omitempty"`           // Append the headless browser relay

	// Output
	LogLevel string `json:"log_level,omitempty"` // debug, info, warn, error
	Verbose  bool   `json:"verbose,omitempty"`   // Print detailed debug information

	// Server
	Port         int     `json:"port,omitempty"`           // HTTP listen port
	RateLimitRPS float64 `json:"rate_limit_rps,omitempty"` // Requests per second per client
}

// Environment variables read by ApplyEnv.
const (
	EnvSiteType     = "URL_ANALYZER_SITE_TYPE"
	EnvBusinessType = "URL_ANALYZER_BUSINESS_TYPE"
	EnvRelays       = "URL_ANALYZER_RELAYS"
	EnvLogLevel     = "URL_ANALYZER_LOG_LEVEL"
	EnvPort         = "PORT"
)

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Relays:              append([]string(nil), fetch.DefaultRelayNames...),
		FetchTimeoutSeconds: 15,
		ItemTimeoutSeconds:  10,
		MaxRetries:          fetch.DefaultMaxRetries,
		MaxURLs:             200,
		LogLevel:            "info",
		Port:                8080,
		RateLimitRPS:        2,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides string fields from the environment when set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvSiteType); v != "" {
		c.SiteType = v
	}
	if v := os.Getenv(EnvBusinessType); v != "" {
		c.BusinessType = v
	}
	if v := os.Getenv(EnvRelays); v != "" {
		c.Relays = splitList(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be a number: %w", EnvPort, err)
		}
		c.Port = port
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if _, ok := types.ParseSiteType(c.SiteType); !ok {
		return fmt.Errorf("config error: unknown 'site_type' %q", c.SiteType)
	}
	if _, ok := types.ParseBusinessType(c.BusinessType); !ok {
		return fmt.Errorf("config error: unknown 'business_type' %q", c.BusinessType)
	}

	if c.FetchTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'fetch_timeout_seconds' must be non-negative")
	}
	if c.ItemTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'item_timeout_seconds' must be non-negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("config error: 'max_retries' must be non-negative")
	}
	if c.MaxURLs < 0 || c.MaxURLs > 1000 {
		return fmt.Errorf("config error: 'max_urls' must be between 0 and 1000")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("config error: 'rate_limit_rps' must be non-negative")
	}

	for _, r := range c.Relays {
		switch strings.ToLower(strings.TrimSpace(r)) {
		case fetch.RelayDirect, fetch.RelayAllOrigins, fetch.RelayCorsProxy, fetch.RelayBrowser:
		default:
			return fmt.Errorf("config error: unknown relay %q", r)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.SiteType == "" {
		result.SiteType = defaults.SiteType
	}
	if result.BusinessType == "" {
		result.BusinessType = defaults.BusinessType
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if len(result.Relays) == 0 {
		result.Relays = append([]string(nil), defaults.Relays...)
	}

	if result.FetchTimeoutSeconds == 0 {
		result.FetchTimeoutSeconds = defaults.FetchTimeoutSeconds
	}
	if result.ItemTimeoutSeconds == 0 {
		result.ItemTimeoutSeconds = defaults.ItemTimeoutSeconds
	}
	if result.MaxRetries == 0 {
		result.MaxRetries = defaults.MaxRetries
	}
	if result.MaxURLs == 0 {
		result.MaxURLs = defaults.MaxURLs
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RateLimitRPS == 0 {
		result.RateLimitRPS = defaults.RateLimitRPS
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// FetchTimeout is the per-request timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// ItemTimeout is the per-page budget during site mapping.
func (c *Config) ItemTimeout() time.Duration {
	return time.Duration(c.ItemTimeoutSeconds) * time.Second
}

// RelayNames returns the relay order, with the browser relay appended when
// UseBrowser is set and it is not already listed.
func (c *Config) RelayNames() []string {
	names := append([]string(nil), c.Relays...)
	if len(names) == 0 {
		names = append(names, fetch.DefaultRelayNames...)
	}
	if c.UseBrowser {
		for _, n := range names {
			if strings.EqualFold(strings.TrimSpace(n), fetch.RelayBrowser) {
				return names
			}
		}
		names = append(names, fetch.RelayBrowser)
	}
	return names
}

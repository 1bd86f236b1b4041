package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonathan/url-analyzer/internal/analysis"
	"github.com/jonathan/url-analyzer/internal/config"
	"github.com/jonathan/url-analyzer/internal/fetch"
	"github.com/jonathan/url-analyzer/internal/observability"
	"go.uber.org/zap"
)

const (
	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 5 * time.Second
)

// runtime bundles the resolved configuration and shared services of one command.
type runtime struct {
	cfg     config.Config
	logger  *zap.Logger
	metrics *observability.Metrics
}

// loadRuntime resolves configuration from defaults, the --config file, the
// environment and persistent flags, in increasing precedence.
func loadRuntime() (*runtime, error) {
	cfg := config.Defaults()
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if verbose {
		cfg.Verbose = true
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return nil, err
	}

	return &runtime{cfg: cfg, logger: logger, metrics: observability.NewMetrics()}, nil
}

// fetcher builds the relay chain from configuration.
func (rt *runtime) fetcher() (*fetch.Fetcher, error) {
	opts := &fetch.Options{
		Timeout:   rt.cfg.FetchTimeout(),
		UserAgent: fetch.DefaultUserAgent,
	}
	relays, err := fetch.NewRelays(rt.cfg.RelayNames(), opts, &fetch.BrowserRelay{Logger: rt.logger})
	if err != nil {
		return nil, err
	}
	return fetch.NewFetcher(relays,
		fetch.WithRetries(rt.cfg.MaxRetries, retryBaseDelay, retryMaxDelay),
		fetch.WithLogger(rt.logger),
		fetch.WithMetrics(rt.metrics),
		fetch.WithTextOptions(opts),
	), nil
}

func (rt *runtime) analyzer() (*analysis.Analyzer, error) {
	f, err := rt.fetcher()
	if err != nil {
		return nil, err
	}
	return analysis.New(f, analysis.Options{
		MaxURLs:     rt.cfg.MaxURLs,
		ItemTimeout: rt.cfg.ItemTimeout(),
		Logger:      rt.logger,
		Metrics:     rt.metrics,
	}), nil
}

func (rt *runtime) close() {
	_ = rt.logger.Sync()
}

// writeOutput runs write against stdout, or against path when one is given.
// The file is closed on every path and a close failure is reported.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()
	return write(f)
}

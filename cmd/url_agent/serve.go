package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/url-analyzer/internal/server"
	"github.com/jonathan/url-analyzer/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server exposing POST /analyze, POST /site-map, GET /ad-libraries, GET /health and GET /metrics.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if servePort != 0 {
		rt.cfg.Port = servePort
	}

	a, err := rt.analyzer()
	if err != nil {
		return err
	}

	srv := server.New(a, server.Config{
		Port:      rt.cfg.Port,
		RateLimit: ratelimit.LoadConfig(rt.cfg.RateLimitRPS),
		Logger:    rt.logger,
		Metrics:   rt.metrics,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}

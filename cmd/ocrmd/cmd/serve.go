package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tsawler/layoutmd/internal/document"
	"github.com/tsawler/layoutmd/internal/metrics"
	"github.com/tsawler/layoutmd/internal/server"
	"github.com/tsawler/layoutmd/ocr"
	"github.com/tsawler/layoutmd/pipeline"
)

var (
	serveAddr     string
	serveLanguage string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an HTTP server exposing a progress-streaming WebSocket and Prometheus metrics",
	Long: `serve starts an HTTP server with two endpoints:

  GET /ws       WebSocket: accepts one job request (language + page
                images), streams a page_done event per page recognized,
                then a completed event carrying the rendered Markdown.
  GET /metrics  Prometheus scrape endpoint.

Example:
  ocrmd serve --addr :8080`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
	serveCmd.Flags().StringVarP(&serveLanguage, "language", "l", "eng", "default Tesseract language code(s) for the adapter")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := cfgManager.Get()

	adapter := ocr.NewTesseractAdapter()
	defer adapter.Close()
	if err := adapter.SetLanguage(serveLanguage); err != nil {
		return fmt.Errorf("setting OCR language: %w", err)
	}

	driver := document.New(adapter, cfg, logger)
	driver.Metrics = metrics.NewRegistry(prometheus.DefaultRegisterer)
	srv := server.New(driver, logger)

	cfgManager.OnChange(func(newCfg pipeline.Config) {
		logger.Info("config file changed, reloading pipeline settings")
		driver.Config = newCfg
	})
	cfgManager.WatchConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("serving", "addr", serveAddr)
	if err := server.Serve(ctx, serveAddr, srv); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

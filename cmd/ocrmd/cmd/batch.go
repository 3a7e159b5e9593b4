package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tsawler/layoutmd/internal/batch"
	"github.com/tsawler/layoutmd/internal/document"
	"github.com/tsawler/layoutmd/internal/metrics"
	"github.com/tsawler/layoutmd/ocr"
)

var (
	batchLanguage   string
	batchWorkers    int
	batchOutputDir  string
	batchWatch      bool
	batchExtensions = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff"}
)

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "OCR every single-page image in a directory in parallel",
	Long: `batch treats every image file directly inside the given directory as its
own single-page document, recognizes them concurrently across a worker
pool, and writes one Markdown file per input into --output-dir.

With --watch, batch keeps running and processes each new image as it
arrives instead of exiting once the initial directory listing drains.

Examples:
  ocrmd batch ./scans --workers 4 --output-dir ./out
  ocrmd batch ./inbox --watch`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchLanguage, "language", "l", "eng", "Tesseract language code(s), \"+\"-joined")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "worker pool size (0 selects runtime.NumCPU())")
	batchCmd.Flags().StringVarP(&batchOutputDir, "output-dir", "o", ".", "directory to write <name>.md files into")
	batchCmd.Flags().BoolVar(&batchWatch, "watch", false, "keep running and process new files as they arrive")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	cfg := cfgManager.Get()
	reg := metrics.NewRegistry(prometheus.DefaultRegisterer)

	newDriver := func() (*document.Driver, error) {
		adapter := ocr.NewTesseractAdapter()
		if err := adapter.SetLanguage(batchLanguage); err != nil {
			return nil, fmt.Errorf("setting OCR language: %w", err)
		}
		d := document.New(adapter, cfg, logger)
		d.Metrics = reg
		return d, nil
	}

	driver, err := newDriver()
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %q: %w", dir, err)
	}

	docs := make(map[string][]document.PageImage)
	for _, entry := range entries {
		if entry.IsDir() || !hasBatchExtension(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		docs[entry.Name()] = []document.PageImage{{Number: 1, Bytes: data}}
	}

	results := batch.Run(cmd.Context(), driver, batch.Config{MaxWorkers: batchWorkers, Language: batchLanguage}, reg, docs, logger)
	for _, r := range results {
		if err := writeBatchResult(r); err != nil {
			return err
		}
	}

	if !batchWatch {
		return nil
	}

	watcher, err := batch.NewWatcher(dir, logger)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	ctx := cmd.Context()
	go func() {
		<-ctx.Done()
		watcher.Close()
	}()

	watcher.Run(batchExtensions, func(path string) {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("reading new file", "path", path, "error", err)
			return
		}
		md, err := driver.Process(context.Background(), batchLanguage, []document.PageImage{{Number: 1, Bytes: data}})
		result := batch.Result{Name: filepath.Base(path), Markdown: md, Err: err}
		if err := writeBatchResult(result); err != nil {
			logger.Error("writing result", "path", path, "error", err)
		}
	})
	return nil
}

func hasBatchExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range batchExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func writeBatchResult(r batch.Result) error {
	if r.Err != nil {
		logger.Error("document failed", "document", r.Name, "error", r.Err)
		return nil
	}
	outPath := filepath.Join(batchOutputDir, strings.TrimSuffix(r.Name, filepath.Ext(r.Name))+".md")
	return os.WriteFile(outPath, []byte(r.Markdown), 0o644)
}

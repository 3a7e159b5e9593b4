package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tsawler/layoutmd/internal/document"
	"github.com/tsawler/layoutmd/internal/metrics"
	"github.com/tsawler/layoutmd/ocr"
)

var (
	processLanguage string
	processOutput   string
)

var processCmd = &cobra.Command{
	Use:   "process [page-image...]",
	Short: "OCR a sequence of already-rasterized page images into one Markdown document",
	Long: `process recognizes each page image (PNG/JPEG/TIFF, one file per page, in
reading order) and emits a single reconstructed Markdown document.

Rasterizing a PDF into page images is not this command's job — pipe the
output of a tool like pdftoppm or pdfcpu's image export in as positional
arguments.

Example:
  ocrmd process page-001.png page-002.png page-003.png -o report.md`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringVarP(&processLanguage, "language", "l", "eng", "Tesseract language code(s), \"+\"-joined (e.g. eng+chi_sim)")
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "output file (default: stdout)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := cfgManager.Get()

	adapter := ocr.NewTesseractAdapter()
	defer adapter.Close()
	if err := adapter.SetLanguage(processLanguage); err != nil {
		return fmt.Errorf("setting OCR language: %w", err)
	}

	driver := document.New(adapter, cfg, logger)
	driver.Metrics = metrics.NewRegistry(prometheus.NewRegistry())

	pages := make([]document.PageImage, 0, len(args))
	for i, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading page image %q: %w", path, err)
		}
		pages = append(pages, document.PageImage{Number: i + 1, Bytes: data})
	}

	md, err := driver.Process(context.Background(), processLanguage, pages)
	if err != nil {
		return fmt.Errorf("processing document: %w", err)
	}

	if processOutput == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), md)
		return err
	}
	return os.WriteFile(processOutput, []byte(md), 0o644)
}

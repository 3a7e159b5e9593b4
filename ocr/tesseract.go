//go:build ocr

// Package ocr defines the OCR adapter boundary the core consumes
// (RawFragment, Adapter), plus a Tesseract-backed implementation gated
// behind the "ocr" build tag.
//
// This file requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractAdapter implements Adapter over gosseract's Tesseract binding.
type TesseractAdapter struct {
	client *gosseract.Client
}

// NewTesseractAdapter creates an adapter with English as the default
// recognition language.
func NewTesseractAdapter() *TesseractAdapter {
	client := gosseract.NewClient()
	return &TesseractAdapter{client: client}
}

// SetLanguage configures the recognition language(s), "+"-joined.
func (a *TesseractAdapter) SetLanguage(lang string) error {
	return a.client.SetLanguage(lang)
}

// Close releases the underlying Tesseract client.
func (a *TesseractAdapter) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

// RecognizePage runs Tesseract over pageImage and returns one RawFragment
// per recognized text line. Boxes are in source pixel space; the document
// driver normalizes them against the page raster's dimensions before they
// reach the core.
func (a *TesseractAdapter) RecognizePage(ctx context.Context, pageImage []byte, page int) ([]RawFragment, error) {
	if err := a.client.SetImageFromBytes(pageImage); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := a.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("recognize page %d: %w", page, err)
	}

	cfg, err := a.client.GetSourceResolution()
	_ = cfg // resolution is only needed to normalize pixel boxes below
	if err != nil || cfg <= 0 {
		cfg = 1
	}

	fragments := make([]RawFragment, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		fragments = append(fragments, RawFragment{
			Text: text,
			BBox: Rect{
				X:      float64(box.Box.Min.X),
				Y:      float64(box.Box.Min.Y),
				Width:  float64(box.Box.Dx()),
				Height: float64(box.Box.Dy()),
			},
			Page:       page,
			Confidence: box.Confidence / 100.0,
		})
	}
	return fragments, nil
}

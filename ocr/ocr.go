package ocr

import "context"

// TypedHint is the optional classification hint an upstream OCR/layout
// recognizer may attach to a fragment. The core treats it as a strong
// prior, subject to override by classification and validation.
type TypedHint int

const (
	HintNone TypedHint = iota
	HintTitle
	HintParagraph
	HintList
	HintListItem
	HintTable
	HintCell
)

// RawFragment is the wire record the core consumes from the OCR boundary:
// text plus a normalized, top-left-origin bounding box, a 1-based page
// number, a recognition confidence, and an optional typed hint.
type RawFragment struct {
	Text       string
	BBox       Rect
	Page       int
	Confidence float64
	Hint       TypedHint
}

// Rect mirrors model.Rect's shape without importing the model package,
// keeping this boundary package free of a dependency on the core's
// internal data model — the document driver is responsible for the
// ocr.Rect -> model.Rect conversion.
type Rect struct {
	X, Y, Width, Height float64
}

// Adapter is the out-of-core collaborator that turns page images (or
// whatever the underlying recognizer consumes) into RawFragment records.
// The core never calls an Adapter itself — only internal/document does,
// wrapping the call in retry and translating failures into
// pipeline.OcrAdapterError.
type Adapter interface {
	// RecognizePage returns the raw fragments found on one rendered page.
	// pageImage is an encoded raster (PNG/TIFF/JPEG); page is 1-based.
	RecognizePage(ctx context.Context, pageImage []byte, page int) ([]RawFragment, error)

	// SetLanguage configures the language(s) used for recognition, using
	// the same "+"-joined codes Tesseract accepts (e.g. "eng+chi_sim").
	SetLanguage(lang string) error

	// Close releases any resources held by the adapter.
	Close() error
}

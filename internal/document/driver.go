// Package document drives a single document through OCR, the layout
// pipeline, and Markdown emission, one page at a time.
package document

import (
	"context"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/tsawler/layoutmd/internal/metrics"
	"github.com/tsawler/layoutmd/markdown"
	"github.com/tsawler/layoutmd/model"
	"github.com/tsawler/layoutmd/ocr"
	"github.com/tsawler/layoutmd/pipeline"
)

// Driver processes one document: recognizing each page image via an OCR
// adapter, running the layout pipeline over the resulting fragments, and
// emitting the final Markdown.
type Driver struct {
	Adapter ocr.Adapter
	Config  pipeline.Config
	Logger  *slog.Logger
	Clock   func() time.Time

	// Metrics, if non-nil, receives elements-merged, stitch-iteration, and
	// per-page latency observations as each page runs through the pipeline.
	Metrics *metrics.Registry
}

// New constructs a Driver with a real wall clock and a discard logger if
// logger is nil.
func New(adapter ocr.Adapter, cfg pipeline.Config, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(nopWriter{}, nil))
	}
	return &Driver{Adapter: adapter, Config: cfg, Logger: logger, Clock: time.Now}
}

// PageImage is one page's rasterized image bytes, supplied by the caller
// (rasterization itself is out of scope for this package).
type PageImage struct {
	Number int
	Bytes  []byte
}

// Process recognizes every page image, reconstructs layout, and renders
// the final Markdown. A page whose OCR recognition fails after retries is
// logged and skipped rather than aborting the whole document — a single
// damaged scan should not sink the rest of the report.
func (d *Driver) Process(ctx context.Context, language string, pages []PageImage) (string, error) {
	return d.ProcessWithProgress(ctx, language, pages, nil)
}

// ProcessWithProgress behaves like Process, additionally invoking onPage
// (if non-nil) immediately after each page's OCR recognition completes —
// used by the WebSocket server to stream progress before the full
// document's layout pass and Markdown rendering finish.
func (d *Driver) ProcessWithProgress(ctx context.Context, language string, pages []PageImage, onPage func(pageNumber, total int)) (string, error) {
	doc := model.NewDocument(language)

	for _, pi := range pages {
		fragments, err := d.recognizeWithRetry(ctx, pi)
		if err != nil {
			d.Logger.Error("skipping page after OCR failure", "page", pi.Number, "error", err)
			if onPage != nil {
				onPage(pi.Number, len(pages))
			}
			continue
		}

		page := model.NewPage(pi.Number)
		for _, f := range fragments {
			page.Elements = append(page.Elements, fragmentToElement(f, pi.Number))
		}
		doc.Pages = append(doc.Pages, page)

		if onPage != nil {
			onPage(pi.Number, len(pages))
		}
	}

	isChinese := doc.IsChineseLanguage()
	for _, page := range doc.Pages {
		start := d.Clock()
		_, stats := pipeline.RunPage(page, d.Config, start, isChinese)
		if d.Metrics != nil {
			d.Metrics.ElementsMerged.Add(float64(stats.ElementsMerged))
			d.Metrics.StitchIterations.Add(float64(stats.StitchIterations))
			d.Metrics.PageLatency.Observe(d.Clock().Sub(start).Seconds())
		}
	}
	pipeline.FinishDocument(doc)

	return markdown.Render(doc, markdown.Config{AddTableOfContents: d.Config.MarkdownGeneration.AddTableOfContents}), nil
}

// recognizeWithRetry wraps the OCR adapter call in a bounded exponential
// retry: transient adapter errors (a busy Tesseract worker, a momentary
// I/O hiccup) are common enough in batch runs to warrant a few attempts
// before giving up on a page.
func (d *Driver) recognizeWithRetry(ctx context.Context, pi PageImage) ([]ocr.RawFragment, error) {
	var fragments []ocr.RawFragment
	err := retry.Do(
		func() error {
			f, err := d.Adapter.RecognizePage(ctx, pi.Bytes, pi.Number)
			if err != nil {
				return &pipeline.OcrAdapterError{Inner: err}
			}
			fragments = f
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
	)
	return fragments, err
}

// fragmentToElement converts one OCR fragment into a fresh, uniquely
// identified, text-normalized Element. Normalization folds Unicode
// compatibility forms (NFKC) and collapses fullwidth/halfwidth variants
// before classification ever sees the text, so pattern matching doesn't
// have to account for OCR's inconsistent glyph width choices.
func fragmentToElement(f ocr.RawFragment, page int) model.Element {
	text := width.Fold.String(f.Text)
	text = norm.NFKC.String(text)

	e := model.Element{
		ID:         uuid.NewString(),
		Kind:       hintToKind(f.Hint),
		BBox:       model.NewRect(f.BBox.X, f.BBox.Y, f.BBox.Width, f.BBox.Height),
		Page:       page,
		Text:       text,
		Confidence: f.Confidence,
	}
	return e
}

func hintToKind(h ocr.TypedHint) model.Kind {
	switch h {
	case ocr.HintTitle:
		return model.KindTitle
	case ocr.HintParagraph:
		return model.KindParagraph
	case ocr.HintList, ocr.HintListItem:
		return model.KindListItem
	case ocr.HintTable:
		return model.KindTable
	case ocr.HintCell:
		return model.KindTableCell
	default:
		return model.KindUnknown
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

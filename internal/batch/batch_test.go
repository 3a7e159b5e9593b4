package batch

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tsawler/layoutmd/internal/document"
	"github.com/tsawler/layoutmd/ocr"
	"github.com/tsawler/layoutmd/pipeline"
)

type stubAdapter struct {
	text string
}

func (s *stubAdapter) RecognizePage(_ context.Context, _ []byte, page int) ([]ocr.RawFragment, error) {
	return []ocr.RawFragment{{Text: s.text, BBox: ocr.Rect{X: 0.1, Y: 0.1, Width: 0.4, Height: 0.02}, Page: page}}, nil
}
func (s *stubAdapter) SetLanguage(string) error { return nil }
func (s *stubAdapter) Close() error             { return nil }

func TestRunProcessesAllDocumentsConcurrently(t *testing.T) {
	driver := document.New(&stubAdapter{text: "Shared paragraph text."}, pipeline.DefaultConfig(), nil)
	driver.Clock = func() time.Time { return time.Unix(0, 0) }

	docs := map[string][]document.PageImage{
		"a.pdf": {{Number: 1, Bytes: []byte("a")}},
		"b.pdf": {{Number: 1, Bytes: []byte("b")}},
		"c.pdf": {{Number: 1, Bytes: []byte("c")}},
	}

	results := Run(context.Background(), driver, Config{MaxWorkers: 2, Language: "en"}, nil, docs, nil)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	seen := map[string]bool{}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("document %s: unexpected error %v", r.Name, r.Err)
		}
		if !strings.Contains(r.Markdown, "Shared paragraph text.") {
			t.Errorf("document %s: missing expected content in %q", r.Name, r.Markdown)
		}
		seen[r.Name] = true
	}
	for name := range docs {
		if !seen[name] {
			t.Errorf("document %s missing from results", name)
		}
	}
}

package document

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tsawler/layoutmd/internal/metrics"
	"github.com/tsawler/layoutmd/ocr"
	"github.com/tsawler/layoutmd/pipeline"
)

type fakeAdapter struct {
	pages map[int][]ocr.RawFragment
	fail  map[int]int // page -> number of remaining failures before success
}

func (f *fakeAdapter) RecognizePage(_ context.Context, _ []byte, page int) ([]ocr.RawFragment, error) {
	if n, ok := f.fail[page]; ok && n > 0 {
		f.fail[page]--
		return nil, errTransient
	}
	return f.pages[page], nil
}

func (f *fakeAdapter) SetLanguage(string) error { return nil }
func (f *fakeAdapter) Close() error             { return nil }

type transientError string

func (e transientError) Error() string { return string(e) }

const errTransient = transientError("transient adapter failure")

func TestProcessRendersClassifiedHeader(t *testing.T) {
	adapter := &fakeAdapter{
		pages: map[int][]ocr.RawFragment{
			1: {
				{Text: "5.1 Access Control", BBox: ocr.Rect{X: 0.1, Y: 0.1, Width: 0.4, Height: 0.02}, Page: 1, Confidence: 0.95},
			},
		},
	}
	d := New(adapter, pipeline.DefaultConfig(), nil)
	d.Clock = func() time.Time { return time.Unix(0, 0) }

	got, err := d.Process(context.Background(), "en", []PageImage{{Number: 1, Bytes: []byte("fake")}})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(got, "Access Control") {
		t.Errorf("rendered output missing header text, got %q", got)
	}
}

func TestProcessWithProgressReportsEveryPage(t *testing.T) {
	adapter := &fakeAdapter{
		pages: map[int][]ocr.RawFragment{
			1: {{Text: "First page.", BBox: ocr.Rect{X: 0.1, Y: 0.1, Width: 0.4, Height: 0.02}, Page: 1}},
			2: {{Text: "Second page.", BBox: ocr.Rect{X: 0.1, Y: 0.1, Width: 0.4, Height: 0.02}, Page: 2}},
		},
	}
	d := New(adapter, pipeline.DefaultConfig(), nil)
	d.Clock = func() time.Time { return time.Unix(0, 0) }

	var reported []int
	_, err := d.ProcessWithProgress(context.Background(), "en",
		[]PageImage{{Number: 1, Bytes: []byte("x")}, {Number: 2, Bytes: []byte("y")}},
		func(pageNumber, total int) {
			if total != 2 {
				t.Errorf("total = %d, want 2", total)
			}
			reported = append(reported, pageNumber)
		})
	if err != nil {
		t.Fatalf("ProcessWithProgress: %v", err)
	}
	if len(reported) != 2 || reported[0] != 1 || reported[1] != 2 {
		t.Errorf("reported pages = %v, want [1 2]", reported)
	}
}

func TestProcessWithProgressRecordsMetrics(t *testing.T) {
	adapter := &fakeAdapter{
		pages: map[int][]ocr.RawFragment{
			1: {
				{Text: "The requirements herein shall", BBox: ocr.Rect{X: 0.1, Y: 0.2, Width: 0.65, Height: 0.02}, Page: 1},
				{Text: "apply to every deployment.", BBox: ocr.Rect{X: 0.1, Y: 0.22, Width: 0.65, Height: 0.02}, Page: 1},
			},
		},
	}
	d := New(adapter, pipeline.DefaultConfig(), nil)
	d.Clock = func() time.Time { return time.Unix(0, 0) }
	reg := prometheus.NewRegistry()
	d.Metrics = metrics.NewRegistry(reg)

	if _, err := d.ProcessWithProgress(context.Background(), "en", []PageImage{{Number: 1, Bytes: []byte("x")}}, nil); err != nil {
		t.Fatalf("ProcessWithProgress: %v", err)
	}

	if got := testutil.ToFloat64(d.Metrics.StitchIterations); got != 1 {
		t.Errorf("StitchIterations = %v, want 1", got)
	}
	if count := testutil.CollectAndCount(d.Metrics.PageLatency); count != 1 {
		t.Errorf("PageLatency observation count = %d, want 1", count)
	}
}

func TestProcessSkipsPageAfterRepeatedOCRFailure(t *testing.T) {
	adapter := &fakeAdapter{
		pages: map[int][]ocr.RawFragment{
			1: {{Text: "Paragraph text.", BBox: ocr.Rect{X: 0.1, Y: 0.1, Width: 0.4, Height: 0.02}, Page: 1}},
			2: {{Text: "Second page text.", BBox: ocr.Rect{X: 0.1, Y: 0.1, Width: 0.4, Height: 0.02}, Page: 2}},
		},
		fail: map[int]int{1: 10},
	}
	d := New(adapter, pipeline.DefaultConfig(), nil)
	d.Clock = func() time.Time { return time.Unix(0, 0) }

	got, err := d.Process(context.Background(), "en", []PageImage{{Number: 1, Bytes: []byte("x")}, {Number: 2, Bytes: []byte("y")}})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if strings.Contains(got, "Paragraph text.") {
		t.Errorf("expected page 1 to be skipped after repeated failure, got %q", got)
	}
	if !strings.Contains(got, "Second page text.") {
		t.Errorf("expected page 2 to render, got %q", got)
	}
}

package pipeline

import (
	"testing"
	"time"

	"github.com/tsawler/layoutmd/model"
)

func TestRunPageClassifiesNumberedHeader(t *testing.T) {
	page := &model.Page{
		Number: 1,
		Elements: []model.Element{
			{Kind: model.KindUnknown, Text: "5.1.2 Access Control", BBox: model.NewRect(0.1, 0.1, 0.4, 0.02), Page: 1},
		},
	}

	got, _ := RunPage(page, DefaultConfig(), time.Unix(0, 0), false)

	if len(got.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(got.Elements))
	}
	if got.Elements[0].Kind != model.KindHeader {
		t.Fatalf("want Header, got %v", got.Elements[0].Kind)
	}
	if got.Elements[0].HeaderLevel != 3 {
		t.Errorf("want HeaderLevel 3, got %d", got.Elements[0].HeaderLevel)
	}
}

func TestRunPageDropsOverlappingDuplicate(t *testing.T) {
	page := &model.Page{
		Number: 1,
		Elements: []model.Element{
			{Kind: model.KindUnknown, Text: "Paragraph text here.", BBox: model.NewRect(0.1, 0.1, 0.5, 0.02), Page: 1, Confidence: 0.6},
			{Kind: model.KindUnknown, Text: "Paragraph text here.", BBox: model.NewRect(0.1, 0.1, 0.5, 0.02), Page: 1, Confidence: 0.9},
		},
	}

	got, _ := RunPage(page, DefaultConfig(), time.Unix(0, 0), false)

	if len(got.Elements) != 1 {
		t.Fatalf("expected duplicate dropped down to 1 element, got %d", len(got.Elements))
	}
}

func TestRunPageStitchesTrailingFragments(t *testing.T) {
	page := &model.Page{
		Number: 1,
		Elements: []model.Element{
			{Kind: model.KindUnknown, Text: "The system shall provide", BBox: model.NewRect(0.1, 0.2, 0.65, 0.02), Page: 1},
			{Kind: model.KindUnknown, Text: "continuous monitoring of", BBox: model.NewRect(0.1, 0.22, 0.65, 0.02), Page: 1},
			{Kind: model.KindUnknown, Text: "the control plane.", BBox: model.NewRect(0.1, 0.24, 0.65, 0.02), Page: 1},
		},
	}

	got, _ := RunPage(page, DefaultConfig(), time.Unix(0, 0), false)

	if len(got.Elements) != 1 {
		t.Fatalf("expected fragments fused/stitched into 1 element, got %d: %+v", len(got.Elements), got.Elements)
	}
}

func TestRunDocumentStitchesAcrossPageBoundary(t *testing.T) {
	prev := &model.Page{
		Number: 1,
		Elements: []model.Element{
			{Kind: model.KindParagraph, Text: "The requirements herein shall apply to all deployments that", BBox: model.NewRect(0.1, 0.9, 0.75, 0.02), Page: 1},
		},
	}
	next := &model.Page{
		Number: 2,
		Elements: []model.Element{
			{Kind: model.KindParagraph, Text: "operate in production environments.", BBox: model.NewRect(0.1, 0.05, 0.7, 0.02), Page: 2},
		},
	}
	doc := &model.Document{Language: "en", Pages: []*model.Page{prev, next}}

	got, _ := RunDocument(doc, DefaultConfig(), time.Unix(0, 0))

	if len(got.Pages[0].Elements) != 1 {
		t.Fatalf("expected page 1 to retain its stitched element, got %d", len(got.Pages[0].Elements))
	}
	if len(got.Pages[1].Elements) != 0 {
		t.Fatalf("expected page 2's fragment to be consumed by cross-page stitching, got %d", len(got.Pages[1].Elements))
	}
}

func TestRunDocumentLeavesTOCPageUnstitched(t *testing.T) {
	prev := &model.Page{
		Number: 1,
		Elements: []model.Element{
			{Kind: model.KindParagraph, Text: "An incomplete trailing line that runs", BBox: model.NewRect(0.1, 0.9, 0.75, 0.02), Page: 1},
		},
	}
	next := &model.Page{
		Number: 2,
		Elements: []model.Element{
			{Kind: model.KindHeader, Text: "1 Scope", BBox: model.NewRect(0.1, 0.1, 0.3, 0.02), Page: 2},
			{Kind: model.KindHeader, Text: "2 References", BBox: model.NewRect(0.1, 0.2, 0.3, 0.02), Page: 2},
			{Kind: model.KindHeader, Text: "3 Terms", BBox: model.NewRect(0.1, 0.3, 0.3, 0.02), Page: 2},
		},
	}
	doc := &model.Document{Language: "en", Pages: []*model.Page{prev, next}}

	_, _ = RunDocument(doc, DefaultConfig(), time.Unix(0, 0))

	if len(doc.Pages[1].Elements) != 3 {
		t.Fatalf("TOC page should be left unstitched, got %d elements", len(doc.Pages[1].Elements))
	}
}

package pipeline

import (
	"strings"
	"testing"

	"github.com/tsawler/layoutmd/model"
)

func headerAt(marker, text string, y float64, level int) model.Element {
	e := model.Element{
		Kind:        model.KindHeader,
		Text:        marker + " " + text,
		HeaderLevel: level,
		BBox:        model.NewRect(0.1, y, 0.3, 0.02),
		Page:        1,
	}
	return e.WithMetadata("marker", marker)
}

func TestValidatePageRejectsMonotonicityBreak(t *testing.T) {
	// 3.1, 3.2, 7.9, 3.3 at the same header level: only 7.9 breaks the
	// sequence and must be reclassified as a Paragraph.
	page := &model.Page{
		Number: 1,
		Elements: []model.Element{
			headerAt("3.1", "Scope", 0.10, 2),
			headerAt("3.2", "Terms", 0.20, 2),
			headerAt("7.9", "Stray", 0.30, 2),
			headerAt("3.3", "Conformance", 0.40, 2),
		},
	}

	got := ValidatePage(page)

	if len(got) != 4 {
		t.Fatalf("expected 4 elements (no stitching eligible), got %d", len(got))
	}
	if got[0].Kind != model.KindHeader {
		t.Errorf("3.1: want Header, got %v", got[0].Kind)
	}
	if got[1].Kind != model.KindHeader {
		t.Errorf("3.2: want Header, got %v", got[1].Kind)
	}
	if got[2].Kind != model.KindParagraph {
		t.Errorf("7.9: want Paragraph (rejected), got %v", got[2].Kind)
	}
	if got[3].Kind != model.KindHeader {
		t.Errorf("3.3: want Header (compared against last valid 3.2, not rejected 7.9), got %v", got[3].Kind)
	}
}

func TestValidatePageAcceptsChapterIncrement(t *testing.T) {
	page := &model.Page{
		Number: 1,
		Elements: []model.Element{
			headerAt("1", "Scope", 0.10, 1),
			headerAt("2", "References", 0.20, 1),
			headerAt("3", "Terms", 0.30, 1),
		},
	}

	got := ValidatePage(page)
	for i, e := range got {
		if e.Kind != model.KindHeader {
			t.Errorf("element %d: want Header, got %v", i, e.Kind)
		}
	}
}

func TestIsAcceptableSuccessor(t *testing.T) {
	cases := []struct {
		prev, next string
		want       bool
	}{
		{"3.1", "3.2", true},
		{"3.2", "7.9", false},
		{"3.2", "3.3", true},
		{"1", "2", true},
		{"1", "7", false},
	}
	for _, c := range cases {
		if got := isAcceptableSuccessor(c.prev, c.next); got != c.want {
			t.Errorf("isAcceptableSuccessor(%q, %q) = %v, want %v", c.prev, c.next, got, c.want)
		}
	}
}

func TestValidatePageRejectsDescriptiveHeaderText(t *testing.T) {
	e := model.Element{
		Kind: model.KindHeader,
		Text: "本标准适用于" + strings.Repeat("工业控制系统安全评估", 4),
		BBox: model.NewRect(0.1, 0.1, 0.6, 0.02),
		Page: 1,
	}
	page := &model.Page{Number: 1, Elements: []model.Element{e}}

	got := ValidatePage(page)
	if got[0].Kind != model.KindParagraph {
		t.Errorf("descriptive header text: want Paragraph, got %v", got[0].Kind)
	}
}

func TestValidatePageRejectsFalseListItem(t *testing.T) {
	e := model.Element{
		Kind: model.KindListItem,
		Text: "this fragment runs far longer than a typical list marker line would and carries no terminal punctuation at all",
		BBox: model.NewRect(0.1, 0.1, 0.6, 0.02),
		Page: 1,
	}
	page := &model.Page{Number: 1, Elements: []model.Element{e}}

	got := ValidatePage(page)
	if got[0].Kind != model.KindParagraph {
		t.Errorf("oversized unterminated list item: want Paragraph, got %v", got[0].Kind)
	}
}

package pipeline

import (
	"testing"
	"time"

	"github.com/tsawler/layoutmd/model"
)

func headerSeedAt(marker, text string, y float64) model.Element {
	e := model.Element{Kind: model.KindHeader, Text: text, BBox: model.NewRect(0.1, y, 0.3, 0.02), Page: 1}
	return e.WithMetadata("marker", marker)
}

func listItemAt(marker, text string, y float64) model.Element {
	e := model.Element{Kind: model.KindListItem, Text: text, BBox: model.NewRect(0.1, y, 0.6, 0.02), Page: 1}
	return e.WithMetadata("marker", marker)
}

func TestMergeHeadersAbsorbsTrailingContinuation(t *testing.T) {
	seed := headerSeedAt("5.1", "5.1 Access Control", 0.10)
	cont := model.Element{Kind: model.KindParagraph, Text: "policy and procedures.", BBox: model.NewRect(0.1, 0.115, 0.3, 0.02), Page: 1}

	got := MergeHeadersAndLists([]model.Element{seed, cont}, DefaultConfig(), NowISO8601(time.Unix(0, 0)))

	if len(got) != 1 {
		t.Fatalf("expected continuation absorbed into 1 header, got %d: %+v", len(got), got)
	}
	if got[0].Kind != model.KindHeader {
		t.Errorf("want Header, got %v", got[0].Kind)
	}
	want := "5.1 Access Control policy and procedures."
	if got[0].Text != want {
		t.Errorf("Text = %q, want %q", got[0].Text, want)
	}
	if _, ok := got[0].Metadata["merge_timestamp"]; !ok {
		t.Errorf("expected merge_timestamp metadata to be stamped")
	}
}

func TestMergeListItemsNormalizesMarkerAfterAbsorption(t *testing.T) {
	seed := listItemAt("1", "1) First requirement", 0.10)

	got := MergeHeadersAndLists([]model.Element{seed}, DefaultConfig(), NowISO8601(time.Unix(0, 0)))

	if len(got) != 1 {
		t.Fatalf("expected 1 list item, got %d", len(got))
	}
	if got[0].Metadata["marker"] != "1)" {
		t.Errorf("marker = %q, want %q", got[0].Metadata["marker"], "1)")
	}
}

func TestMergeListItemsStopsAtNextMarker(t *testing.T) {
	a := listItemAt("1", "1) First requirement", 0.10)
	b := listItemAt("2", "2) Second requirement", 0.12)

	got := MergeHeadersAndLists([]model.Element{a, b}, DefaultConfig(), NowISO8601(time.Unix(0, 0)))

	if len(got) != 2 {
		t.Fatalf("expected both list items to remain separate, got %d: %+v", len(got), got)
	}
}

func TestMergeListItemsRepositionsDoubledMarkerUsingNeighbors(t *testing.T) {
	a := listItemAt("1", "1) First requirement shall apply.", 0.10)
	doubled := model.Element{Kind: model.KindListItem, Text: "22 Second requirement shall apply.", BBox: model.NewRect(0.1, 0.12, 0.6, 0.02), Page: 1}
	doubled = doubled.WithMetadata("marker", "22")
	c := listItemAt("3", "3) Third requirement shall apply.", 0.14)

	got := MergeHeadersAndLists([]model.Element{a, doubled, c}, DefaultConfig(), NowISO8601(time.Unix(0, 0)))

	if len(got) != 3 {
		t.Fatalf("expected 3 list items, got %d: %+v", len(got), got)
	}
	if got[1].Metadata["marker"] != "2)" {
		t.Errorf("middle marker = %q, want %q (repaired using neighbors 1 and 3)", got[1].Metadata["marker"], "2)")
	}
}

func TestMergeHeadersAndListsIsNoOpWhenMergingDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Processing.EnableElementMerging = false
	seed := headerSeedAt("5.1", "5.1 Access Control", 0.10)
	cont := model.Element{Kind: model.KindParagraph, Text: "policy and procedures.", BBox: model.NewRect(0.1, 0.115, 0.3, 0.02), Page: 1}

	got := MergeHeadersAndLists([]model.Element{seed, cont}, cfg, NowISO8601(time.Unix(0, 0)))

	if len(got) != 2 {
		t.Fatalf("expected merging disabled to leave both elements untouched, got %d", len(got))
	}
}

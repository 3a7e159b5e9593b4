// Package pipeline implements the layout-reconstruction stages that turn a
// page's raw OCR fragments into classified, merged, and stitched elements
// ready for Markdown emission: dedup, same-line fusion, classification,
// header/list merging, sentence stitching, page-context validation, and
// cross-page stitching.
package pipeline

import (
	"time"

	"github.com/tsawler/layoutmd/model"
)

// Stats records the per-run counters a caller may aggregate for
// observability: how many elements the header/list merger absorbed into a
// seed, and how many fragments the sentence stitcher glued onto one. Both
// are derived from element-count deltas around each stage rather than a
// clock read, so computing them never compromises this package's
// never-touch-the-system-clock invariant.
type Stats struct {
	ElementsMerged   int
	StitchIterations int
}

func (s *Stats) add(other Stats) {
	s.ElementsMerged += other.ElementsMerged
	s.StitchIterations += other.StitchIterations
}

// RunPage applies the full single-page pipeline to one page's elements, in
// order: dedup, same-line fusion, per-element classification, header/list
// merging, sentence stitching, and page-context validation (which
// re-stitches internally after reclassifying false headers and list
// items). now is stamped onto merge_timestamp metadata wherever elements
// are merged; isChinese selects the same-line fuser's join separator.
func RunPage(page *model.Page, cfg Config, now time.Time, isChinese bool) (*model.Page, Stats) {
	page.SortReadingOrder()

	deduped := Dedup(page.Elements, cfg.Processing.OverlapThreshold)
	elements := deduped.Elements

	if cfg.SameLineMerging.Enabled {
		elements = FuseSameLine(elements, cfg.SameLineMerging.VerticalTolerance,
			isChinese, cfg.SameLineMerging.SeparatorForChinese, cfg.SameLineMerging.SeparatorForEnglish)
	}

	for i, e := range elements {
		elements[i] = Classify(e, cfg)
	}

	beforeMerge := len(elements)
	elements = MergeHeadersAndLists(elements, cfg, NowISO8601(now))
	stats := Stats{ElementsMerged: beforeMerge - len(elements)}

	beforeStitch := len(elements)
	elements = StitchSentences(elements)
	stats.StitchIterations = beforeStitch - len(elements)

	page.Elements = elements
	page.Elements = ValidatePage(page)

	return page, stats
}

// FinishDocument stitches incomplete trailing sentences across adjacent
// page boundaries and normalizes any table-of-contents pages (trailing
// page-number stripping and missing leading-number prediction). It is the
// document-wide tail end of RunDocument, split out so a caller that needs
// to instrument each RunPage call individually (e.g. per-page latency) can
// still reuse this part unchanged.
func FinishDocument(doc *model.Document) *model.Document {
	for i := 0; i+1 < len(doc.Pages); i++ {
		StitchAcrossPages(doc.Pages[i], doc.Pages[i+1])
	}

	for _, page := range doc.Pages {
		NormalizeTOCPage(page)
	}

	return doc
}

// RunDocument applies RunPage to every page, then FinishDocument, and
// returns the aggregated Stats across every page.
func RunDocument(doc *model.Document, cfg Config, now time.Time) (*model.Document, Stats) {
	isChinese := doc.IsChineseLanguage()
	var total Stats
	for _, page := range doc.Pages {
		_, stats := RunPage(page, cfg, now, isChinese)
		total.add(stats)
	}

	FinishDocument(doc)

	return doc, total
}

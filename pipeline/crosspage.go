package pipeline

import "github.com/tsawler/layoutmd/model"

// StitchAcrossPages attempts to glue the last element of page n onto the
// first element of page n+1 when the trailing fragment is an incomplete
// sentence and neither page looks like a table of contents. Pages whose
// header ratio marks them as a TOC are left untouched: a TOC's trailing
// fragment is a heading, not prose, and a false positive there would
// corrupt the outline.
func StitchAcrossPages(prev, next *model.Page) {
	if prev == nil || next == nil || len(prev.Elements) == 0 || len(next.Elements) == 0 {
		return
	}
	if prev.IsTOCPage() || next.IsTOCPage() {
		return
	}

	lastIdx := len(prev.Elements) - 1
	last := prev.Elements[lastIdx]
	first := next.Elements[0]

	if !IsIncompleteSentence(last) {
		return
	}
	if !SafeContinuation(last, first, true) {
		return
	}

	prev.Elements[lastIdx] = stitchOne(last, first)
	next.Elements = next.Elements[1:]
}

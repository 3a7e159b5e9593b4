package pipeline

import (
	"strings"

	"github.com/tsawler/layoutmd/model"
)

// FuseSameLine merges maximal runs of elements whose vertical centers lie
// within tolerance into a single Element per run. Merging is
// mandatory for co-linear elements — there is no horizontal-gap cutoff.
// isChinese selects the same-line join separator; chineseSep/englishSep
// come from SameLineMergingConfig.
func FuseSameLine(elements []model.Element, tolerance float64, isChinese bool, chineseSep, englishSep string) []model.Element {
	if len(elements) == 0 {
		return nil
	}

	sorted := make([]model.Element, len(elements))
	copy(sorted, elements)
	// Elements are assumed already reading-order sorted by the caller; we
	// only need a stable grouping by vertical tolerance here.

	result := make([]model.Element, 0, len(sorted))
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sorted[j].Page == sorted[i].Page && model.SameLine(sorted[i], sorted[j], tolerance) {
			j++
		}
		run := sorted[i:j]
		result = append(result, fuseRun(run, isChinese, chineseSep, englishSep))
		i = j
	}
	return result
}

// fuseRun merges one maximal same-line run into a single Element.
func fuseRun(run []model.Element, isChinese bool, chineseSep, englishSep string) model.Element {
	if len(run) == 1 {
		return run[0]
	}

	sep := englishSep
	if isChinese {
		sep = chineseSep
	}

	leading := run[0]
	bbox := run[0].BBox
	var sb strings.Builder
	confidenceSum := 0.0

	for idx, e := range run {
		if idx > 0 {
			separator := sep
			if leading.Kind == model.KindHeader {
				// Force a space after the leading header fragment so the
				// marker and its text don't glue together downstream.
				separator = " "
			}
			sb.WriteString(separator)
		}
		sb.WriteString(e.Text)
		bbox = bbox.Union(e.BBox)
		confidenceSum += e.Confidence
	}

	merged := leading
	merged.BBox = bbox
	merged.Text = sb.String()
	merged.Confidence = confidenceSum / float64(len(run))
	return merged
}

package pipeline

import "github.com/tsawler/layoutmd/model"

// DedupResult is the output of Dedup: the deduplicated element sequence and
// how many incoming elements were dropped as duplicates.
type DedupResult struct {
	Elements []model.Element
	Dropped  int
}

// Dedup removes OCR duplicates from an ordered element sequence by area
// overlap. It performs a linear scan keeping a kept-list K; an
// incoming element is a duplicate iff it overlaps some k in K by more than
// threshold, where the percentage is computed relative to the incoming
// element — deliberately asymmetric, so the outcome depends on scan order:
// a small box inside a kept large box is dropped, while a large box
// arriving after a small one inside it is kept whenever the small box
// covers no more than threshold of the large one. The first occurrence of
// an overlapping pair wins; order is preserved. Never fails: a degenerate
// or empty input yields a (possibly empty) result.
func Dedup(elements []model.Element, threshold float64) DedupResult {
	kept := make([]model.Element, 0, len(elements))
	dropped := 0

	for _, incoming := range elements {
		isDuplicate := false
		for _, k := range kept {
			if incoming.Page != k.Page {
				continue
			}
			if incoming.BBox.OverlapPercentage(k.BBox) > threshold {
				isDuplicate = true
				break
			}
		}
		if isDuplicate {
			dropped++
			continue
		}
		kept = append(kept, incoming)
	}

	return DedupResult{Elements: kept, Dropped: dropped}
}

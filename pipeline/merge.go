package pipeline

import (
	"strings"
	"time"

	"github.com/tsawler/layoutmd/model"
)

// completenessIndicators is the small domain-specific vocabulary used to
// recognize a list item's text as already complete.
var completenessIndicators = []string{"应当", "应该", "必须", "shall", "must", "required"}

// MergeHeadersAndLists runs the two-phase header/list merger: a
// tight-tolerance pass followed by a loose-tolerance pass, each
// greedily absorbing trailing continuation fragments into Header and
// ListItem seeds. nowISO8601 is stamped onto merge_timestamp metadata.
func MergeHeadersAndLists(elements []model.Element, cfg Config, nowISO8601 string) []model.Element {
	if !cfg.Processing.EnableElementMerging {
		return elements
	}

	pass1 := mergePass(elements, cfg.HeaderDetection.SameLineTolerance, cfg.ListDetection.SameLineTolerance, cfg, nowISO8601)
	pass2 := mergePass(pass1, cfg.HeaderMergeTolerance(), cfg.ListMergeTolerance(), cfg, nowISO8601)
	return pass2
}

func mergePass(elements []model.Element, headerTolerance, listTolerance float64, cfg Config, nowISO8601 string) []model.Element {
	result := make([]model.Element, 0, len(elements))
	i := 0
	for i < len(elements) {
		seed := elements[i]
		switch seed.Kind {
		case model.KindHeader:
			if !cfg.HeaderDetection.EnableHeaderMerging {
				result = append(result, seed)
				i++
				continue
			}
			merged, consumed := absorbGroup(elements, i, headerTolerance, false, nowISO8601)
			result = append(result, merged)
			i += consumed
		case model.KindListItem:
			if !cfg.ListDetection.EnableListItemMerging {
				result = append(result, seed)
				i++
				continue
			}
			merged, consumed := absorbGroup(elements, i, listTolerance, true, nowISO8601)
			merged = NormalizeMarker(merged, precedingListMarker(result), followingListMarker(elements, i+consumed))
			result = append(result, merged)
			i += consumed
		default:
			result = append(result, seed)
			i++
		}
	}
	return result
}

// absorbGroup greedily absorbs trailing continuations into elements[seed],
// returning the merged element and how many source elements it consumed.
func absorbGroup(elements []model.Element, seed int, tolerance float64, isListMerge bool, nowISO8601 string) (model.Element, int) {
	current := elements[seed]
	consumed := 1

	for seed+consumed < len(elements) {
		next := elements[seed+consumed]

		if next.Page != current.Page {
			break
		}
		if !model.SameLine(current, next, tolerance) && current.BBox.VerticalGap(next.BBox) > tolerance {
			break
		}
		if isListMerge {
			if startsWithListMarker(next.Text) {
				break
			}
			if isCompleteListItem(current.Text) {
				break
			}
		}

		current = absorbOne(current, next, consumed+1, isListMerge, nowISO8601)
		consumed++

		if hasSentenceEnding(next.Text) {
			break
		}
	}

	return current, consumed
}

func absorbOne(current, next model.Element, groupSize int, isListMerge bool, nowISO8601 string) model.Element {
	merged := current
	merged.BBox = current.BBox.Union(next.BBox)
	merged.Text = strings.TrimSpace(current.Text) + " " + strings.TrimSpace(next.Text)
	merged.Confidence = (current.Confidence + next.Confidence) / 2

	key := "merged_headers"
	levelKey := "header_level"
	levelVal := current.HeaderLevel
	if isListMerge {
		key = "merged_list_items"
		levelKey = "list_level"
		if lvl, ok := current.MetadataInt("list_level"); ok {
			levelVal = lvl
		} else {
			levelVal = 0
		}
	}

	merged = merged.WithMetadata(key, itoa(groupSize))
	merged = merged.WithMetadata(levelKey, itoa(levelVal))
	merged = merged.WithMetadata("merge_timestamp", nowISO8601)

	return merged
}

// precedingListMarker returns the marker metadata of the last element
// already placed into result, if it is itself a list item, or "" — used to
// supply NormalizeMarker with neighbor context for OCR-doubled-marker
// repair.
func precedingListMarker(result []model.Element) string {
	if len(result) == 0 {
		return ""
	}
	last := result[len(result)-1]
	if last.Kind != model.KindListItem {
		return ""
	}
	return last.Metadata["marker"]
}

// followingListMarker returns the marker metadata of elements[idx], if
// that element is a list item and idx is in range, or "".
func followingListMarker(elements []model.Element, idx int) string {
	if idx < 0 || idx >= len(elements) {
		return ""
	}
	if elements[idx].Kind != model.KindListItem {
		return ""
	}
	return elements[idx].Metadata["marker"]
}

// startsWithListMarker reports whether text begins with a numbered or
// lettered list marker, used to reject merging a continuation line that
// is actually the start of the next list item.
func startsWithListMarker(text string) bool {
	patterns := DefaultListPatterns()
	if _, ok := firstMatch(patterns.Numbered, text); ok {
		return true
	}
	if _, ok := firstMatch(patterns.Lettered, text); ok {
		return true
	}
	return false
}

// isCompleteListItem reports whether a list item's text already reads as
// complete: length >= 10, ends in completion punctuation, and contains a
// domain-specific completeness indicator.
func isCompleteListItem(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < 10 {
		return false
	}
	if !hasCompletionPunctuation(trimmed) {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, indicator := range completenessIndicators {
		if strings.Contains(lower, strings.ToLower(indicator)) {
			return true
		}
	}
	return false
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// NowISO8601 returns the current time formatted for merge_timestamp
// metadata. Callers at the document-driver boundary supply the clock;
// the pipeline package itself never reads the system clock directly so
// that merge behavior stays a pure function of its inputs.
func NowISO8601(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

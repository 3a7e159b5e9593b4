package pipeline

import (
	"strings"

	"github.com/tsawler/layoutmd/model"
)

// crossPageDistanceTolerance is the same-page vertical distance limit for
// stitching; the cross-page variant skips this check entirely.
const crossPageDistanceTolerance = 0.05

// IsIncompleteSentence reports whether e is eligible for stitching: not a
// Header, and its trimmed text does not end in sentence-ending
// punctuation.
func IsIncompleteSentence(e model.Element) bool {
	if e.Kind == model.KindHeader {
		return false
	}
	return !hasSentenceEnding(strings.TrimSpace(e.Text))
}

// StitchSentences iteratively glues incomplete-sentence fragments to their
// safe continuations. It is a fixed point: applying it twice yields the
// same result as applying it once, because each successful merge is
// re-evaluated for further absorption until no safe continuation remains.
func StitchSentences(elements []model.Element) []model.Element {
	result := make([]model.Element, 0, len(elements))
	i := 0
	for i < len(elements) {
		current := elements[i]
		consumed := 1

		for IsIncompleteSentence(current) && i+consumed < len(elements) {
			next := elements[i+consumed]
			if next.Page != current.Page {
				break
			}
			if !SafeContinuation(current, next, false) {
				break
			}
			current = stitchOne(current, next)
			consumed++
		}

		result = append(result, current)
		i += consumed
	}
	return result
}

func stitchOne(current, next model.Element) model.Element {
	merged := current
	merged.BBox = current.BBox.Union(next.BBox)
	// The stitcher concatenates without a separator — deliberately
	// asymmetric with the same-line fuser's space/empty-string join, since
	// a stitched fragment is a word or clause split mid-line by OCR, not
	// two genuinely separate runs of text.
	merged.Text = current.Text + next.Text
	merged.Confidence = (current.Confidence + next.Confidence) / 2
	return merged
}

// SafeContinuation implements the ordered rejection/acceptance cascade
// that decides whether next may be stitched onto current. crossPage
// skips the same-page vertical-distance test and is set only by the
// cross-page stitcher.
func SafeContinuation(current, next model.Element, crossPage bool) bool {
	if !crossPage {
		if current.BBox.VerticalGap(next.BBox) > crossPageDistanceTolerance {
			return false
		}
	}

	completes := SentenceCompletionTest(current, next)
	if completes {
		return true
	}

	if current.BBox.Right() < 0.7 {
		return false
	}
	if next.Kind == model.KindHeader {
		return false
	}
	if startsWithListMarker(strings.TrimSpace(next.Text)) {
		return false
	}
	if next.Kind == model.KindHeader && startsWithNumberedHeaderOrMergedForm(strings.TrimSpace(next.Text)) {
		return false
	}
	if startsWithDangerousPhrase(next.Text) {
		return false
	}

	trimmedNext := strings.TrimSpace(next.Text)
	return !isDangerousPattern(trimmedNext, next.Kind)
}

// SentenceCompletionTest is the positive continuation test: true iff next
// ends with completion punctuation, is short, doesn't start a dangerous
// pattern, current isn't already complete/a Header, and the pair either
// looks like a plain continuation or matches a known split-CJK bigram.
func SentenceCompletionTest(current, next model.Element) bool {
	trimmedNext := strings.TrimSpace(next.Text)
	if !hasCompletionPunctuation(trimmedNext) {
		return false
	}
	if len([]rune(trimmedNext)) > 25 {
		return false
	}
	if isDangerousPattern(trimmedNext, next.Kind) {
		return false
	}
	if current.Kind == model.KindHeader {
		return false
	}
	if hasSentenceEnding(strings.TrimSpace(current.Text)) {
		return false
	}

	if trimmedNext != "" {
		return true
	}
	return splitCJKBigramMatch(current.Text, next.Text)
}

func splitCJKBigramMatch(currentText, nextText string) bool {
	cr := []rune(strings.TrimSpace(currentText))
	nr := []rune(strings.TrimSpace(nextText))
	if len(cr) == 0 || len(nr) == 0 {
		return false
	}
	pair := [2]rune{cr[len(cr)-1], nr[0]}
	return splitCJKBigrams[pair]
}

// isDangerousPattern reports whether text opens with any lettered list
// marker, a known dangerous phrase, or — only when the element it belongs
// to is itself a header — a numbered header marker. The numbered-header
// criterion is meaningless against a paragraph fragment that merely starts
// with digits and a dot (e.g. a continuation reading "3.2 of this clause
// applies further."), so it only fires for kind=Header, per the glossary's
// "dangerous pattern" definition.
func isDangerousPattern(text string, kind model.Kind) bool {
	if startsWithDangerousPhrase(text) {
		return true
	}
	if _, ok := firstMatch(DefaultListPatterns().Lettered, text); ok {
		return true
	}
	if kind == model.KindHeader && startsWithNumberedHeaderOrMergedForm(text) {
		return true
	}
	return false
}

func startsWithDangerousPhrase(text string) bool {
	for _, phrase := range dangerousOpeningPhrases {
		if strings.HasPrefix(text, phrase) {
			return true
		}
	}
	return false
}

func startsWithNumberedHeaderOrMergedForm(text string) bool {
	if _, ok := firstMatch(DefaultHeaderPatterns().Numbered, text); ok {
		return true
	}
	return mergedHeaderForm.MatchString(text)
}

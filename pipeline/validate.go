package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tsawler/layoutmd/model"
)

// PageContext is the per-page summary the validator consults to reject
// headers that conflict with the page's overall character.
type PageContext struct {
	HasChapterHeaders  bool
	HasAppendixHeaders bool
	HasNamedHeaders    bool
	PageNumber         int
}

var (
	chapterHeaderPattern  = regexp.MustCompile(`^\d+\s+\p{Han}+$`)
	appendixHeaderPattern = regexp.MustCompile(`^附录[A-Z]`)
	namedHeaderPattern    = regexp.MustCompile(`^(前言|引言|参考文献)`)
	descriptiveYearPrefix = regexp.MustCompile(`^\d{4}\s+\p{Han}`)
)

// descriptivePhrases is a small set of explanatory phrases treated as
// evidence that a long "header" is actually descriptive prose.
var descriptivePhrases = []string{"本标准适用于", "本文件规定了", "下列术语和定义适用于"}

// BuildPageContext scans a page's elements (post classify+merge) and
// computes the page-wide booleans the validator's conflict check needs.
func BuildPageContext(page *model.Page) PageContext {
	ctx := PageContext{PageNumber: page.Number}

	for _, e := range page.Elements {
		if e.Kind != model.KindHeader {
			continue
		}
		text := strings.TrimSpace(e.Text)
		if chapterHeaderPattern.MatchString(text) {
			ctx.HasChapterHeaders = true
		}
		if appendixHeaderPattern.MatchString(text) {
			ctx.HasAppendixHeaders = true
		}
		if namedHeaderPattern.MatchString(text) {
			ctx.HasNamedHeaders = true
		}
	}

	return ctx
}

func headerMarkerOf(text string) (string, bool) {
	return firstMatch(DefaultHeaderPatterns().Numbered, text)
}

// ValidatePage reclassifies false headers and list items as Paragraph,
// then re-runs the sentence stitcher over the result. Headers
// are walked in reading order with a running "last accepted marker per
// level" table, so a header rejected for breaking the sequence does not
// itself become the predecessor the next header is compared against.
func ValidatePage(page *model.Page) []model.Element {
	ctx := BuildPageContext(page)
	lastAcceptedByLevel := map[int]string{}
	validated := make([]model.Element, 0, len(page.Elements))

	for _, e := range page.Elements {
		switch e.Kind {
		case model.KindHeader:
			marker, hasMarker := e.Metadata["marker"]
			if !hasMarker {
				marker, hasMarker = headerMarkerOf(strings.TrimSpace(e.Text))
			}

			rejected := isDescriptiveHeaderText(strings.TrimSpace(e.Text)) ||
				conflictsWithPageContext(strings.TrimSpace(e.Text), ctx)

			if !rejected && hasMarker {
				if prev, ok := lastAcceptedByLevel[e.HeaderLevel]; ok {
					if !isAcceptableSuccessor(prev, marker) {
						rejected = true
					}
				}
			}

			if rejected {
				e.Kind = model.KindParagraph
				e.HeaderLevel = 0
			} else if hasMarker {
				lastAcceptedByLevel[e.HeaderLevel] = marker
			}
		case model.KindListItem:
			if isFalseListItem(e) {
				e.Kind = model.KindParagraph
			}
		}
		validated = append(validated, e)
	}

	return StitchSentences(validated)
}

// isAcceptableSuccessor checks marker monotonicity by comparing the
// dot-separated numeric components of two same-level
// markers, allowing either a same-prefix increment of 1..5 in the last
// component, or a bare gap of 1..5 when both markers are single
// components (top-level chapter numbers).
func isAcceptableSuccessor(prev, next string) bool {
	prevParts := numericComponents(prev)
	nextParts := numericComponents(next)
	if len(prevParts) == 0 || len(nextParts) == 0 {
		return true // non-numeric markers are not monotonicity-checked
	}

	commonPrefix := 0
	for commonPrefix < len(prevParts)-1 && commonPrefix < len(nextParts)-1 && prevParts[commonPrefix] == nextParts[commonPrefix] {
		commonPrefix++
	}

	sameLength := len(prevParts) == len(nextParts)
	prefixMatches := sameLength && commonPrefix == len(prevParts)-1
	if prefixMatches {
		gap := nextParts[len(nextParts)-1] - prevParts[len(prevParts)-1]
		return gap >= 1 && gap <= 5
	}

	if len(prevParts) == 1 && len(nextParts) == 1 {
		gap := nextParts[0] - prevParts[0]
		return gap >= 1 && gap <= 5
	}

	return false
}

func numericComponents(marker string) []int {
	marker = strings.Trim(marker, ". \t")
	if marker == "" {
		return nil
	}
	parts := strings.Split(marker, ".")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		out = append(out, n)
	}
	return out
}

func isDescriptiveHeaderText(text string) bool {
	if len([]rune(text)) > 30 {
		for _, phrase := range descriptivePhrases {
			if strings.Contains(text, phrase) {
				return true
			}
		}
	}
	return descriptiveYearPrefix.MatchString(text)
}

func conflictsWithPageContext(text string, ctx PageContext) bool {
	isChapter := chapterHeaderPattern.MatchString(text)
	isAppendix := appendixHeaderPattern.MatchString(text)
	_, isNumbered := headerMarkerOf(text)

	if isChapter && ctx.HasAppendixHeaders {
		return true
	}
	if isAppendix && ctx.HasChapterHeaders {
		return true
	}
	if isNumbered && ctx.HasNamedHeaders {
		return true
	}
	return false
}

func isFalseListItem(e model.Element) bool {
	text := strings.TrimSpace(e.Text)
	return len([]rune(text)) > 60 && !hasSentenceEnding(text)
}

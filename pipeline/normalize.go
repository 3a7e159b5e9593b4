package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tsawler/layoutmd/model"
)

// markerSeparators are the glyphs a raw OCR marker may be followed by
// before the list or header body text begins.
var markerSeparators = []rune{')', '）', '〉', '.', '-', '*', '、'}

// chineseNumerals and chineseStems are the two Chinese marker grammars
// recognized verbatim (kept as-is, no separator appended).
const (
	chineseNumerals = "一二三四五六七八九十"
	chineseStems    = "甲乙丙丁戊己庚辛壬癸"
)

// doubledCharPattern catches a common OCR artifact: a marker digit or
// letter doubled by a scanning glitch, e.g. "11" for "1" or "AA" for "A".
var doubledCharPattern = regexp.MustCompile(`^([0-9A-Za-z])\1$`)

// NormalizeMarker rewrites a list item's "marker" metadata (if present)
// into its canonical form, branching on the marker's grammar: a Latin
// letter or digit marker is rewritten "<marker>)"; a Chinese ordinal
// numeral or stem is kept verbatim; a bullet glyph becomes a literal "-".
// An OCR-doubled single character (e.g. "gg", "33") is first collapsed to
// one copy, then repositioned within the monotone sequence implied by
// prevMarker/nextMarker when the three form an unambiguous run (e.g. "a",
// "gg", "c" repairs to "b" rather than "g"). prevMarker and nextMarker are
// the already-captured (possibly still-canonical) markers of the
// preceding and following list items, or "" when absent.
func NormalizeMarker(e model.Element, prevMarker, nextMarker string) model.Element {
	marker, ok := e.Metadata["marker"]
	if !ok || marker == "" {
		return e
	}

	marker = strings.TrimRight(marker, string(markerSeparators))
	marker = strings.TrimSpace(marker)
	if marker == "" {
		return e
	}

	if doubledCharPattern.MatchString(marker) {
		marker = repairDoubledMarker(marker, prevMarker, nextMarker)
	}

	return e.WithMetadata("marker", canonicalizeMarker(marker))
}

// repairDoubledMarker collapses a doubled marker to its single character,
// then tries to reposition it using the neighboring markers' sequence.
func repairDoubledMarker(marker, prevMarker, nextMarker string) string {
	collapsed := marker[:1]
	if repositioned, ok := repositionInSequence(prevMarker, nextMarker); ok {
		return repositioned
	}
	return collapsed
}

// repositionInSequence looks at the bare previous and next markers and, if
// they form an unambiguous gap of exactly one missing step (numeric or
// single Latin letter), returns the value that belongs between them.
func repositionInSequence(prevMarker, nextMarker string) (string, bool) {
	prev := bareMarkerValue(prevMarker)
	next := bareMarkerValue(nextMarker)
	if prev == "" || next == "" {
		return "", false
	}

	if prevN, err1 := strconv.Atoi(prev); err1 == nil {
		if nextN, err2 := strconv.Atoi(next); err2 == nil {
			if nextN-prevN == 2 {
				return strconv.Itoa(prevN + 1), true
			}
			return "", false
		}
	}

	pr := []rune(prev)
	nr := []rune(next)
	if len(pr) == 1 && len(nr) == 1 && isLatinLetter(pr[0]) && isLatinLetter(nr[0]) {
		if nr[0]-pr[0] == 2 {
			return string(pr[0] + 1), true
		}
	}
	return "", false
}

// bareMarkerValue strips any trailing separator and the canonical ")" this
// package appends, leaving the comparable marker value.
func bareMarkerValue(marker string) string {
	marker = strings.TrimRight(marker, string(markerSeparators))
	return strings.TrimSpace(marker)
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// canonicalizeMarker applies the three canonical forms of the marker
// grammar: bullet glyph -> "-", Chinese numeral/stem -> verbatim, and
// everything else (Latin letters, digits, and the Latin-letter roman
// numerals) -> "<marker>)".
func canonicalizeMarker(marker string) string {
	runes := []rune(marker)

	if len(runes) == 1 && isBulletGlyph(runes[0]) {
		return "-"
	}

	allChinese := true
	for _, r := range runes {
		if !strings.ContainsRune(chineseNumerals, r) && !strings.ContainsRune(chineseStems, r) {
			allChinese = false
			break
		}
	}
	if allChinese {
		return marker
	}

	return marker + ")"
}

func isBulletGlyph(r rune) bool {
	for _, g := range bulletGlyphs {
		if r == g {
			return true
		}
	}
	return false
}

// tocTrailingNumber matches a TOC header's trailing page-number suffix,
// e.g. "范围   3" -> text "范围", page number "3".
var tocTrailingNumber = regexp.MustCompile(`^(.+?)\s+(\d+)\s*$`)

// NormalizeTOCPage rewrites a table-of-contents page's headers: strips
// trailing page-number suffixes, and predicts a missing leading number
// for a header sandwiched between two correctly numbered neighbors.
func NormalizeTOCPage(page *model.Page) {
	if !page.IsTOCPage() {
		return
	}

	for i, e := range page.Elements {
		if e.Kind != model.KindHeader && e.Kind != model.KindTocItem {
			continue
		}
		if m := tocTrailingNumber.FindStringSubmatch(strings.TrimSpace(e.Text)); m != nil {
			e.Text = strings.TrimSpace(m[1])
			e = e.WithMetadata("toc_page_number", m[2])
		}
		e.Kind = model.KindTocItem
		page.Elements[i] = e
	}

	predictMissingTOCNumbers(page)
}

// predictMissingTOCNumbers fills in a leading chapter number for a TOC
// entry that lacks one, interpolating from its numbered neighbors — e.g.
// "规范性引用文件" flanked by "1 范围" and "3 术语" becomes "2 规范性引用文件".
func predictMissingTOCNumbers(page *model.Page) {
	leadingNumber := regexp.MustCompile(`^(\d+)\s+(.+)$`)

	for i, e := range page.Elements {
		if e.Kind != model.KindTocItem {
			continue
		}
		if leadingNumber.MatchString(strings.TrimSpace(e.Text)) {
			continue
		}
		if _, hasPageNumber := e.Metadata["toc_page_number"]; hasPageNumber {
			continue
		}

		prevNum, prevOK := precedingTOCNumber(page.Elements, i, leadingNumber)
		nextNum, nextOK := followingTOCNumber(page.Elements, i, leadingNumber)
		if !prevOK || !nextOK || nextNum-prevNum != 2 {
			continue
		}

		predicted := prevNum + 1
		updated := e
		updated.Text = strconv.Itoa(predicted) + " " + strings.TrimSpace(e.Text)
		updated = updated.WithMetadata("predicted_number", "true")
		page.Elements[i] = updated
	}
}

func precedingTOCNumber(elements []model.Element, i int, pattern *regexp.Regexp) (int, bool) {
	for j := i - 1; j >= 0; j-- {
		if elements[j].Kind != model.KindTocItem {
			continue
		}
		if m := pattern.FindStringSubmatch(strings.TrimSpace(elements[j].Text)); m != nil {
			n, err := strconv.Atoi(m[1])
			return n, err == nil
		}
		return 0, false
	}
	return 0, false
}

func followingTOCNumber(elements []model.Element, i int, pattern *regexp.Regexp) (int, bool) {
	for j := i + 1; j < len(elements); j++ {
		if elements[j].Kind != model.KindTocItem {
			continue
		}
		if m := pattern.FindStringSubmatch(strings.TrimSpace(elements[j].Text)); m != nil {
			n, err := strconv.Atoi(m[1])
			return n, err == nil
		}
		return 0, false
	}
	return 0, false
}

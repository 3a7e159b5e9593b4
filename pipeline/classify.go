package pipeline

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/tsawler/layoutmd/model"
)

// contentHeaderKeywords is the small keyword set consulted by the
// content-based header fallback consulted when no header pattern matches.
var contentHeaderKeywords = []string{"introduction", "conclusion", "summary", "overview", "abstract"}

// Classify assigns element one of the page-layout roles below. Table,
// TableCell, and Image elements arrive already typed from the OCR adapter
// hint and pass through unchanged, as does Title (with its confidence set
// to 0.9); everything else runs the
// pattern-then-geometry cascade.
func Classify(e model.Element, cfg Config) model.Element {
	switch e.Kind {
	case model.KindTable, model.KindTableCell, model.KindImage, model.KindTitle:
		if e.Kind == model.KindTitle {
			e.Confidence = 0.9
		}
		return e
	}

	if region, ok := classifyRegion(e, cfg); ok {
		return region
	}

	text := strings.TrimSpace(e.Text)
	e.Text = text

	// Step 1: short-circuit on a prior typed kind.
	if e.IsHeaderLike() {
		e.Confidence = 0.9
		return e
	}

	if cfg.HeaderDetection.Enabled {
		if classified, ok := classifyHeader(e, text, cfg); ok {
			return classified
		}
	}

	if cfg.ListDetection.Enabled {
		if classified, ok := classifyList(e, text, cfg); ok {
			return classified
		}
	}

	e.Kind = model.KindParagraph
	return e
}

func classifyRegion(e model.Element, cfg Config) (model.Element, bool) {
	if !cfg.Processing.EnableHeaderFooterDetection {
		return e, false
	}
	center := e.BBox.Center().Y
	hr := cfg.Processing.HeaderRegion
	fr := cfg.Processing.FooterRegion
	if center >= hr[0] && center < hr[1] {
		e.Kind = model.KindHeaderRegion
		return e, true
	}
	if center >= fr[0] && center < fr[1] {
		e.Kind = model.KindFooterRegion
		return e, true
	}
	return e, false
}

// classifyHeader runs the numbered -> lettered -> roman -> named cascade,
// then the content-based fallbacks.
func classifyHeader(e model.Element, text string, cfg Config) (model.Element, bool) {
	if hasSentenceEnding(text) {
		return e, false
	}

	patterns := cfg.HeaderDetection.Patterns

	if marker, ok := firstMatch(patterns.Numbered, text); ok {
		return finishHeader(e, marker, text, cfg, false), true
	}
	if marker, ok := firstMatch(patterns.Lettered, text); ok {
		return finishHeader(e, marker, text, cfg, false), true
	}
	if marker, ok := firstMatch(patterns.Roman, text); ok {
		return finishHeader(e, marker, text, cfg, false), true
	}
	if marker, ok := firstMatch(patterns.Named, text); ok {
		return finishHeader(e, marker, text, cfg, true), true
	}

	if cfg.HeaderFooterDetection.EnableContentBasedDetection &&
		len(text) <= cfg.HeaderFooterDetection.MaxHeaderFooterLength {
		if isAllCaps(text) && len(text) > 3 {
			e.Kind = model.KindHeader
			e.HeaderLevel = 1 + cfg.HeaderDetection.MarkdownLevelOffset
			e.Confidence = headerConfidence(text, false)
			return e, true
		}
		if isTitleCase(text) && !hasSentenceEnding(text) {
			e.Kind = model.KindHeader
			e.HeaderLevel = 2 + cfg.HeaderDetection.MarkdownLevelOffset
			e.Confidence = headerConfidence(text, false)
			return e, true
		}
		lower := strings.ToLower(text)
		for _, kw := range contentHeaderKeywords {
			if strings.Contains(lower, kw) {
				e.Kind = model.KindHeader
				e.HeaderLevel = 2 + cfg.HeaderDetection.MarkdownLevelOffset
				e.Confidence = headerConfidence(text, false)
				return e, true
			}
		}
	}

	return e, false
}

func finishHeader(e model.Element, marker, text string, cfg Config, named bool) model.Element {
	e.Kind = model.KindHeader
	e.Confidence = headerConfidence(text, named)
	e = e.WithMetadata("marker", marker)

	if named {
		level, ok := cfg.HeaderDetection.CustomLevels[strings.ToLower(strings.TrimSpace(marker))]
		if !ok {
			level = 1
		}
		e.HeaderLevel = level + cfg.HeaderDetection.MarkdownLevelOffset
		return e
	}

	components := dotComponents(marker)
	if components > cfg.HeaderDetection.MaxLevel {
		components = cfg.HeaderDetection.MaxLevel
	}
	if components < 1 {
		components = 1
	}
	e.HeaderLevel = components + cfg.HeaderDetection.MarkdownLevelOffset
	return e
}

// dotComponents counts the non-empty dot-separated components of a header
// marker, e.g. "5.1.2" -> 3, "A" -> 1.
func dotComponents(marker string) int {
	marker = strings.Trim(marker, ". \t")
	if marker == "" {
		return 1
	}
	parts := strings.Split(marker, ".")
	count := 0
	for _, p := range parts {
		if p != "" {
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return count
}

func headerConfidence(text string, named bool) float64 {
	conf := 0.85
	if len(text) < 10 {
		conf += 0.1
	} else if len(text) > 50 {
		conf -= 0.2
	}
	if named {
		conf += 0.1
	} else {
		conf += 0.06
	}
	return capConfidence(conf)
}

// classifyList runs the numbered -> lettered -> bullet -> roman -> custom
// cascade, then the content-based fallback.
func classifyList(e model.Element, text string, cfg Config) (model.Element, bool) {
	patterns := cfg.ListDetection.Patterns

	if marker, ok := firstMatch(patterns.Numbered, text); ok {
		return finishList(e, marker, text, false), true
	}
	if marker, ok := firstMatch(patterns.Lettered, text); ok {
		return finishList(e, marker, text, false), true
	}
	if marker, ok := firstMatch(patterns.Bullet, text); ok {
		return finishList(e, marker, text, true), true
	}
	if marker, ok := firstMatch(patterns.Roman, text); ok {
		return finishList(e, marker, text, false), true
	}
	if marker, ok := firstMatch(patterns.Custom, text); ok {
		return finishList(e, marker, text, false), true
	}

	if startsWithBulletGlyph(text) {
		return finishList(e, string([]rune(text)[0]), text, true), true
	}
	if len([]rune(text)) <= 3 && !containsCJK(text) {
		return finishList(e, "", text, false), true
	}

	return e, false
}

func finishList(e model.Element, marker, text string, bullet bool) model.Element {
	e.Kind = model.KindListItem
	e.HeaderLevel = 0
	e.Confidence = listConfidence(text, bullet)
	e = e.WithMetadata("marker", marker)
	return e
}

func listConfidence(text string, bullet bool) float64 {
	conf := 0.80
	if len(text) < 20 {
		conf += 0.1
	} else if len(text) > 100 {
		conf -= 0.2
	}
	if bullet {
		conf += 0.1
	} else {
		conf += 0.06
	}
	return capConfidence(conf)
}

func capConfidence(c float64) float64 {
	if c > 1.0 {
		return 1.0
	}
	if c < 0 {
		return 0
	}
	return c
}

// firstMatch scans patterns in order and returns the matched marker (the
// pattern's first capture group, or the whole match if it has none) from
// the first pattern that matches text.
func firstMatch(patterns []*regexp.Regexp, text string) (string, bool) {
	for _, p := range patterns {
		loc := p.FindStringSubmatch(text)
		if loc == nil {
			continue
		}
		if len(loc) > 1 {
			return loc[1], true
		}
		return loc[0], true
	}
	return "", false
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isTitleCase(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 {
		return false
	}
	capitalized := 0
	for _, w := range words {
		r := []rune(w)
		if len(r) > 0 && unicode.IsUpper(r[0]) {
			capitalized++
		}
	}
	return float64(capitalized)/float64(len(words)) >= 0.6
}

func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

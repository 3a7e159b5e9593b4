package pipeline

import "regexp"

// mustCompileAll compiles a list of pattern strings, panicking on the first
// failure. It is only ever called from DefaultConfig and DefaultXPatterns,
// never on user-supplied input — the InvalidPattern boundary error is used
// for that path (see config.Resolve in the top-level config package).
func mustCompileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// DefaultHeaderPatterns returns the built-in numbered/lettered/roman/named
// header pattern sets consulted in order by the classifier.
func DefaultHeaderPatterns() HeaderPatterns {
	return HeaderPatterns{
		Numbered: mustCompileAll([]string{
			`^(\d+(?:\.\d+)*)\.?\s+`,
		}),
		Lettered: mustCompileAll([]string{
			`^([A-Z])\.\s+`,
			`^附录([A-Z])\s*`,
		}),
		Roman: mustCompileAll([]string{
			`^([IVXLCDM]+)\.\s+`,
		}),
		Named: mustCompileAll([]string{
			`^(前言|引言|参考文献|摘要|目录)\s*`,
			`^(Introduction|Conclusion|Abstract|Preface|Foreword)\b`,
		}),
	}
}

// DefaultNamedHeaderLevels maps the keywords matched by the Named pattern
// set to a fixed header level, overriding the dot-component calculation.
func DefaultNamedHeaderLevels() map[string]int {
	return map[string]int{
		"前言":           1,
		"引言":           1,
		"参考文献":         1,
		"摘要":           1,
		"目录":           1,
		"introduction": 1,
		"conclusion":   1,
		"abstract":     1,
		"preface":      1,
		"foreword":     1,
	}
}

// DefaultListPatterns returns the built-in numbered/lettered/bullet/roman/
// custom list-marker pattern sets consulted in order by the classifier.
func DefaultListPatterns() ListPatterns {
	return ListPatterns{
		Numbered: mustCompileAll([]string{
			`^(\d+)[\.\)]\s+`,
		}),
		Lettered: mustCompileAll([]string{
			`^([a-zA-Z])[\.\)）]\s*`,
		}),
		Bullet: mustCompileAll([]string{
			`^([-•●○■▪‣→☐☑✓*])\s+`,
		}),
		Roman: mustCompileAll([]string{
			`^([ivxlcdm]+)\)\s+`,
		}),
		Custom: mustCompileAll([]string{
			`^([一二三四五六七八九十]+)[、.]\s*`,
			`^([甲乙丙丁戊己庚辛壬癸])[、.]\s*`,
		}),
	}
}

// bulletGlyphs is the content-based list fallback glyph set consulted when
// no list pattern matches.
var bulletGlyphs = []rune{'-', '•', '·', '▪', '▫', '◦', '‣', '⁃'}

// sentenceEndingPunctuation is the single, full character set used
// consistently everywhere a "does this text end a sentence" check is
// needed, across both Latin and CJK punctuation.
var sentenceEndingPunctuation = []rune{'.', '!', '?', '。', '！', '？', '；', ';'}

// completionPunctuation is the glossary's narrower "completion punctuation"
// set, used by the sentence-completion positive test.
var completionPunctuation = []rune{'.', ';', '!', '?', '。', '；', '！', '？'}

func endsWithAny(s string, runes []rune) bool {
	if s == "" {
		return false
	}
	r := []rune(s)
	last := r[len(r)-1]
	for _, c := range runes {
		if last == c {
			return true
		}
	}
	return false
}

// hasSentenceEnding reports whether s ends in one of
// sentenceEndingPunctuation.
func hasSentenceEnding(s string) bool {
	return endsWithAny(s, sentenceEndingPunctuation)
}

// hasCompletionPunctuation reports whether s ends in one of
// completionPunctuation.
func hasCompletionPunctuation(s string) bool {
	return endsWithAny(s, completionPunctuation)
}

// startsWithBulletGlyph reports whether s begins with one of bulletGlyphs.
func startsWithBulletGlyph(s string) bool {
	if s == "" {
		return false
	}
	first := []rune(s)[0]
	for _, g := range bulletGlyphs {
		if first == g {
			return true
		}
	}
	return false
}

// dangerousOpeningPhrases is the glossary's small set of phrases known to
// start new structure, rejected as continuations by the sentence stitcher.
var dangerousOpeningPhrases = []string{
	"本项要求包括：",
}

// mergedHeaderForm matches the ambiguous merged numbered-header form
// the sentence stitcher rejects as a continuation (e.g. "3.2" glued onto a
// following fragment during an earlier merge pass).
var mergedHeaderForm = regexp.MustCompile(`^\d+\.\d+`)

// splitCJKBigrams is the known table of (current-end, next-start) rune
// pairs that indicate a CJK word was split across fragments, consulted by
// the sentence-completion positive test.
var splitCJKBigrams = map[[2]rune]bool{
	{'通', '过'}: true,
	{'包', '括'}: true,
	{'的', '是'}: true,
}

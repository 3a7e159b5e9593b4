// Package markdown renders a processed Document into the final Markdown
// output: one heading/paragraph/list block per Element, page separators,
// and an optional generated table of contents.
package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/layoutmd/model"
)

// Config controls Markdown rendering.
type Config struct {
	// AddTableOfContents appends a generated TOC section after the last
	// page, built from every Header and Title in document order.
	AddTableOfContents bool
}

// tocEntry is one line of the generated table of contents.
type tocEntry struct {
	level int
	text  string
	slug  string
}

// Render produces the full Markdown document for doc: the envelope title,
// each page's elements in reading order separated by page headings, and
// (if enabled) a final table-of-contents section.
func Render(doc *model.Document, cfg Config) string {
	var sb strings.Builder
	var toc []tocEntry

	sb.WriteString("# Document Processing Results\n\n")

	for pageIdx, page := range doc.Pages {
		if pageIdx > 0 {
			sb.WriteString(fmt.Sprintf("\n\n---\n\n## Page %d\n\n", page.Number))
		}
		for _, e := range page.Elements {
			renderElement(&sb, e)
			if cfg.AddTableOfContents && isTOCEligible(e) {
				toc = append(toc, tocEntry{level: tocLevel(e), text: e.Text, slug: slugify(e.Text, len(toc)+1)})
			}
		}
	}

	if cfg.AddTableOfContents && len(toc) > 0 {
		sb.WriteString("\n\n---\n\n## Table of Contents\n\n")
		for _, entry := range toc {
			indent := strings.Repeat("  ", entry.level-1)
			sb.WriteString(fmt.Sprintf("%s- [%s](#%s)\n", indent, entry.text, entry.slug))
		}
	}

	return sb.String()
}

func renderElement(sb *strings.Builder, e model.Element) {
	switch e.Kind {
	case model.KindTitle:
		sb.WriteString("### " + e.Text + "\n\n")
	case model.KindHeader:
		level := e.HeaderLevel
		if level < 1 {
			level = 1
		}
		sb.WriteString(strings.Repeat("#", level) + " " + e.Text + "\n\n")
	case model.KindParagraph:
		sb.WriteString(e.Text + "\n\n")
	case model.KindListItem:
		marker := e.Metadata["marker"]
		if marker == "" {
			marker = "-"
		}
		sb.WriteString(marker + " " + e.Text + "\n")
	case model.KindTocItem:
		sb.WriteString(e.Text + "\n")
	case model.KindTable:
		renderTable(sb, e)
	case model.KindTableCell:
		sb.WriteString("| " + e.Text + " |\n")
	case model.KindFootnote:
		sb.WriteString("> Footnote: " + e.Text + "\n\n")
	case model.KindImage:
		alt := e.Metadata["alt"]
		src := e.Metadata["src"]
		sb.WriteString(fmt.Sprintf("![%s](%s)\n\n", alt, src))
	case model.KindHeaderRegion, model.KindFooterRegion:
		// Running headers/footers carry no reading-order content of their
		// own; they are dropped from the rendered body.
	default:
		sb.WriteString(e.Text + "\n\n")
	}
}

// renderTable writes a row-major Markdown table from the table element's
// newline/tab-delimited ContentBlob; the first row becomes the header row.
func renderTable(sb *strings.Builder, e model.Element) {
	rows := strings.Split(strings.TrimRight(string(e.ContentBlob), "\n"), "\n")
	if len(rows) == 0 || rows[0] == "" {
		return
	}
	for i, row := range rows {
		cells := strings.Split(row, "\t")
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		if i == 0 {
			sep := make([]string, len(cells))
			for j := range sep {
				sep[j] = "---"
			}
			sb.WriteString("| " + strings.Join(sep, " | ") + " |\n")
		}
	}
	sb.WriteString("\n")
}

func isTOCEligible(e model.Element) bool {
	return e.Kind == model.KindHeader || e.Kind == model.KindTitle
}

func tocLevel(e model.Element) int {
	if e.Kind == model.KindTitle {
		return 1
	}
	if e.HeaderLevel < 1 {
		return 1
	}
	return e.HeaderLevel
}

// slugify lowercases and hyphenates text into a GitHub-style anchor.
// position is the entry's 1-based index in the table of contents.
func slugify(text string, position int) string {
	var sb strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '-' || r == '_':
			if !lastHyphen {
				sb.WriteRune('-')
				lastHyphen = true
			}
		default:
			// Non-ASCII and punctuation runes (CJK headings, markers) are
			// dropped rather than percent-encoded, matching GitHub's anchor
			// algorithm for ASCII-only headings; CJK headings fall back to
			// their numeric position to stay unique.
		}
	}
	slug := strings.Trim(sb.String(), "-")
	if slug == "" {
		slug = "section-" + strconv.Itoa(position)
	}
	return slug
}

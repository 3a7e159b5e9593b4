package model

import "fmt"

// Kind identifies the semantic role assigned to an Element by the
// classifier and validator stages. It is a closed set: new roles are added
// here, never by introducing a new concrete type — see DESIGN.md for why
// this replaces a per-kind struct hierarchy with a single tagged record.
type Kind int

const (
	KindUnknown Kind = iota
	KindTitle
	KindHeader
	KindParagraph
	KindListItem
	KindTocItem
	KindTable
	KindTableCell
	KindImage
	KindFootnote
	KindHeaderRegion
	KindFooterRegion
)

// String renders the Kind for logging and error messages.
func (k Kind) String() string {
	switch k {
	case KindTitle:
		return "Title"
	case KindHeader:
		return "Header"
	case KindParagraph:
		return "Paragraph"
	case KindListItem:
		return "ListItem"
	case KindTocItem:
		return "TocItem"
	case KindTable:
		return "Table"
	case KindTableCell:
		return "TableCell"
	case KindImage:
		return "Image"
	case KindFootnote:
		return "Footnote"
	case KindHeaderRegion:
		return "HeaderRegion"
	case KindFooterRegion:
		return "FooterRegion"
	default:
		return "Unknown"
	}
}

// Element is the single, immutable record every pipeline stage consumes and
// produces. Behavior that varies by role lives in exhaustive switches over
// Kind in the pipeline and emitter packages, never in per-kind methods.
type Element struct {
	ID          string
	Kind        Kind
	BBox        Rect
	Page        int // 1-based
	Text        string
	Confidence  float64
	HeaderLevel int // 0 means absent; only meaningful when Kind == KindHeader
	Metadata    map[string]string
	ContentBlob []byte
}

// WithMetadata returns a copy of e with key=value merged into Metadata.
// Element is conceptually immutable; every pipeline mutation goes through a
// copy-and-replace like this one rather than in-place assignment.
func (e Element) WithMetadata(key, value string) Element {
	next := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		next[k] = v
	}
	next[key] = value
	e.Metadata = next
	return e
}

// MetadataInt parses a metadata value as an integer, returning ok=false if
// the key is absent or unparsable.
func (e Element) MetadataInt(key string) (int, bool) {
	v, found := e.Metadata[key]
	if !found {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return 0, false
	}
	return n, true
}

// IsHeaderLike reports whether the element already carries a typed kind
// that the classifier treats as a strong prior — the short-circuit of
// a prior typed kind, bypassing further pattern matching.
func (e Element) IsHeaderLike() bool {
	return e.Kind == KindHeader || e.Kind == KindListItem
}

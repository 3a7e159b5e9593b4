package model

import "sort"

// Page is the ordered element sequence for one document page. Reading
// order is (center-y asc, center-x asc) with a tolerance collapsing
// near-equal center-y into the same line — see ReadingOrderTolerance.
type Page struct {
	Number   int // 1-based
	Elements []Element
}

// ReadingOrderTolerance is the center-y distance under which two elements
// are considered to sit on the same line, per the glossary's definition of
// reading order.
const ReadingOrderTolerance = 0.01

// NewPage constructs an empty page.
func NewPage(number int) *Page {
	return &Page{Number: number}
}

// SortReadingOrder sorts Elements in place into (center-y asc with
// tolerance, center-x asc) order.
func (p *Page) SortReadingOrder() {
	sort.SliceStable(p.Elements, func(i, j int) bool {
		return LessReadingOrder(p.Elements[i], p.Elements[j])
	})
}

// LessReadingOrder implements the document's reading-order total order:
// elements whose
// center-y differ by at most ReadingOrderTolerance are treated as the same
// line and ordered by center-x; otherwise center-y decides.
func LessReadingOrder(a, b Element) bool {
	ay, by := a.BBox.Center().Y, b.BBox.Center().Y
	if abs(ay-by) <= ReadingOrderTolerance {
		return a.BBox.Center().X < b.BBox.Center().X
	}
	return ay < by
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// SameLine reports whether two elements fall within tolerance
// of each other's vertical center — the same-line grouping test used by
// the fuser, merger, and validator.
func SameLine(a, b Element, tolerance float64) bool {
	return a.BBox.VerticallyAligned(b.BBox, tolerance)
}

// HeaderRatio returns the fraction of elements on the page classified as
// KindHeader or KindTitle — the TOC-page test of the glossary
// ("header ratio ≥ 0.9 and at least 3 elements").
func (p *Page) HeaderRatio() float64 {
	if len(p.Elements) == 0 {
		return 0
	}
	headers := 0
	for _, e := range p.Elements {
		if e.Kind == KindHeader || e.Kind == KindTitle {
			headers++
		}
	}
	return float64(headers) / float64(len(p.Elements))
}

// IsTOCPage reports whether headers make up at least 90% of the page's
// elements and the page has at least 3 elements.
func (p *Page) IsTOCPage() bool {
	return len(p.Elements) >= 3 && p.HeaderRatio() >= 0.9
}

// Document is an ordered collection of pages sharing one language hint.
type Document struct {
	Language string // best-effort ISO-639-like code, e.g. "en", "zh-Hans"
	Pages    []*Page
}

// NewDocument constructs an empty document for the given language hint.
func NewDocument(language string) *Document {
	return &Document{Language: language}
}

// IsChineseLanguage reports whether the document's language hint selects
// the Chinese same-line join convention of an empty separator.
func (d *Document) IsChineseLanguage() bool {
	return len(d.Language) >= 2 && (d.Language[:2] == "zh")
}

// Package model provides the shared data model for the layout-reconstruction
// pipeline: a normalized [Rect] geometry, a single tagged [Element] record,
// and [Page]/[Document] containers that keep elements in reading order.
//
// # Element
//
// [Element] is a single immutable record carrying a [Kind] tag rather than a
// hierarchy of concrete per-kind types — every pipeline stage consumes a
// []Element and produces a new []Element, never mutating in place.
//
// # Geometry
//
//   - [Rect] — a normalized ([0,1], top-left origin) rectangle with
//     intersection, union, overlap, gap, and alignment operations.
//   - [Point] — a 2D point in the same normalized space.
//
// # Reading order
//
// [Page.SortReadingOrder] and [LessReadingOrder] implement the ordering
// defined by the glossary: (center-y ascending, center-x ascending), with
// [ReadingOrderTolerance] collapsing near-equal center-y into one line.
package model

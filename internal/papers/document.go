package papers

import (
	"gonum.org/v1/gonum/floats"
)

// Document is a single paper placed on the map.
type Document struct {
	ID       int64
	X, Y     float64
	Keywords []string // normalised, de-duplicated
}

// Bounds is an axis-aligned bounding box in map coordinates.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent of the box.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the box.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// IncludeOrigin grows the box so that it contains (0, 0).
func (b Bounds) IncludeOrigin() Bounds {
	return Bounds{
		MinX: min(b.MinX, 0),
		MinY: min(b.MinY, 0),
		MaxX: max(b.MaxX, 0),
		MaxY: max(b.MaxY, 0),
	}
}

// Table holds the documents of one map in input order.
type Table struct {
	docs   []Document
	bounds Bounds
}

// NewTable builds a Table over docs. The slice is owned by the table afterwards.
func NewTable(docs []Document) *Table {
	t := &Table{docs: docs}
	if len(docs) == 0 {
		return t
	}
	xs := make([]float64, len(docs))
	ys := make([]float64, len(docs))
	for i, d := range docs {
		xs[i] = d.X
		ys[i] = d.Y
	}
	t.bounds = Bounds{
		MinX: floats.Min(xs),
		MinY: floats.Min(ys),
		MaxX: floats.Max(xs),
		MaxY: floats.Max(ys),
	}
	return t
}

// Len returns the number of documents.
func (t *Table) Len() int { return len(t.docs) }

// Documents returns the documents in input order. Callers must not modify them.
func (t *Table) Documents() []Document { return t.docs }

// Bounds returns the bounding box of all documents; the zero box when empty.
func (t *Table) Bounds() Bounds { return t.bounds }

// Within calls fn for every document strictly closer than r to (x, y).
// It scans linearly; use an Index for repeated queries.
func (t *Table) Within(x, y, r float64, fn func(*Document)) {
	if r <= 0 {
		return
	}
	r2 := r * r
	for i := range t.docs {
		d := &t.docs[i]
		dx, dy := d.X-x, d.Y-y
		if dx*dx+dy*dy < r2 {
			fn(d)
		}
	}
}

// Searcher answers radius queries over documents.
type Searcher interface {
	Within(x, y, r float64, fn func(*Document))
}

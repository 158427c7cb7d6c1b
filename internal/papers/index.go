package papers

import "math"

// Index buckets documents on a regular grid so radius queries only visit the
// buckets overlapping the query disk. Cell size should approximately match
// the query radius.
type Index struct {
	CellSize float64
	Grid     map[int64][]int // cell ID → document indices

	docs []Document
}

// NewIndex builds an index over docs. A non-positive cellSize falls back to 1.
func NewIndex(docs []Document, cellSize float64) *Index {
	if cellSize <= 0 || math.IsNaN(cellSize) {
		cellSize = 1
	}
	idx := &Index{
		CellSize: cellSize,
		Grid:     make(map[int64][]int),
		docs:     docs,
	}
	for i, d := range docs {
		cx, cy := idx.cellCoords(d.X, d.Y)
		id := cellID(cx, cy)
		idx.Grid[id] = append(idx.Grid[id], i)
	}
	return idx
}

func (idx *Index) cellCoords(x, y float64) (int64, int64) {
	return int64(math.Floor(x / idx.CellSize)), int64(math.Floor(y / idx.CellSize))
}

// cellID maps signed cell coordinates to a unique key using zigzag encoding
// followed by Szudzik's pairing function.
func cellID(cx, cy int64) int64 {
	var a, b int64
	if cx >= 0 {
		a = 2 * cx
	} else {
		a = -2*cx - 1
	}
	if cy >= 0 {
		b = 2 * cy
	} else {
		b = -2*cy - 1
	}
	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}

// Within calls fn for every document strictly closer than r to (x, y).
// The set of documents visited is identical to Table.Within; only the
// visiting order differs.
func (idx *Index) Within(x, y, r float64, fn func(*Document)) {
	if r <= 0 {
		return
	}
	r2 := r * r
	minX, minY := idx.cellCoords(x-r, y-r)
	maxX, maxY := idx.cellCoords(x+r, y+r)
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			for _, i := range idx.Grid[cellID(cx, cy)] {
				d := &idx.docs[i]
				dx, dy := d.X-x, d.Y-y
				if dx*dx+dy*dy < r2 {
					fn(d)
				}
			}
		}
	}
}

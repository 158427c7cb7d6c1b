package zones

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/mapzones/internal/papers"
)

// ErrAlreadyAssigned is returned by Grid.Assign when the cell already
// belongs to a region.
var ErrAlreadyAssigned = errors.New("cell already assigned to a region")

// ErrGridTooLarge is returned by BuildGrid when the bounding box and radius
// call for more cells than a grid can address.
var ErrGridTooLarge = errors.New("grid too large")

// maxCells bounds Width*Height of a grid.
const maxCells = math.MaxInt32

// Direction names one of the six hexagonal neighbours of a cell.
type Direction int

const (
	UpLeft Direction = iota
	UpRight
	Left
	Right
	DownLeft
	DownRight
)

// Directions lists every direction in mask bit order.
var Directions = [...]Direction{UpLeft, UpRight, Left, Right, DownLeft, DownRight}

// Bit returns the validity-mask bit for d.
func (d Direction) Bit() uint8 { return 1 << uint(d) }

func (d Direction) String() string {
	switch d {
	case UpLeft:
		return "up-left"
	case UpRight:
		return "up-right"
	case Left:
		return "left"
	case Right:
		return "right"
	case DownLeft:
		return "down-left"
	case DownRight:
		return "down-right"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// InteriorMask is the validity mask of a cell with all six neighbours.
const InteriorMask uint8 = 0x3f

// Cell is one hexagon of the grid.
type Cell struct {
	Row, Col int
	X, Y     float64  // hex centre in map coordinates
	Mask     uint8    // bit per Direction, set when that neighbour exists
	Keywords []string // candidate keywords, most frequent first
	Region   *Region  // nil until assigned; set once through Grid.Assign
}

// Interior reports whether all six neighbours exist.
func (c *Cell) Interior() bool { return c.Mask == InteriorMask }

// Assigned reports whether the cell belongs to a region.
func (c *Cell) Assigned() bool { return c.Region != nil }

// Grid is an offset hexagonal grid. Even rows hold columns [0, Width); odd
// rows hold columns [1, Width) and sit half a cell to the left.
type Grid struct {
	Width, Height int
	MinX, MinY    float64
	HexW, HexH    float64

	slots   []*Cell // row*Width+col; nil for the missing odd-row column 0
	ordered []*Cell // scan order (row-major), no gaps
	regions []*Region
}

// gridDims returns the number of columns and rows covering b. Either is
// zero for a degenerate box or radius.
func gridDims(b papers.Bounds, hexRad float64) (w, h float64) {
	if !(hexRad > 0) || math.IsInf(hexRad, 0) {
		return 0, 0
	}
	hexH := math.Floor(math.Sqrt(3) / 2 * hexRad)
	if hexH <= 0 {
		return 0, 0
	}
	return math.Floor(b.Width() / hexRad), math.Floor(b.Height() / hexH)
}

// NewGrid lays out the cells covering b with the given hex radius.
// Candidate keywords are left empty. A degenerate box or radius yields a grid
// with no cells, as does one needing more than maxCells cells; BuildGrid
// reports the latter as ErrGridTooLarge.
func NewGrid(b papers.Bounds, hexRad float64) *Grid {
	g := &Grid{MinX: b.MinX, MinY: b.MinY, HexW: hexRad}
	if !(hexRad > 0) || math.IsInf(hexRad, 0) {
		return g
	}
	w, h := gridDims(b, hexRad)
	g.HexH = math.Floor(math.Sqrt(3) / 2 * hexRad)
	if !(w > 0) || !(h > 0) || w*h > maxCells {
		return g
	}
	g.Width, g.Height = int(w), int(h)

	g.slots = make([]*Cell, g.Width*g.Height)
	g.ordered = make([]*Cell, 0, g.Width*g.Height)
	for row := 0; row < g.Height; row++ {
		odd := row % 2
		for col := odd; col < g.Width; col++ {
			c := &Cell{
				Row: row,
				Col: col,
				X:   g.MinX + (float64(col)-0.5*float64(odd))*g.HexW,
				Y:   g.MinY + float64(row)*g.HexH,
			}
			g.slots[row*g.Width+col] = c
			g.ordered = append(g.ordered, c)
		}
	}
	for _, c := range g.ordered {
		for _, d := range Directions {
			if _, _, ok := g.neighborCoords(c.Row, c.Col, d); ok {
				c.Mask |= d.Bit()
			}
		}
	}
	return g
}

// Exists reports whether a cell lives at (row, col).
func (g *Grid) Exists(row, col int) bool {
	if row < 0 || row >= g.Height || col >= g.Width {
		return false
	}
	return col >= row%2
}

// Cell returns the cell at (row, col), or nil when there is none.
func (g *Grid) Cell(row, col int) *Cell {
	if !g.Exists(row, col) {
		return nil
	}
	return g.slots[row*g.Width+col]
}

// neighborCoords returns the coordinates of the neighbour of (row, col) in
// direction d, and whether that neighbour exists.
func (g *Grid) neighborCoords(row, col int, d Direction) (int, int, bool) {
	// On odd rows the upper and lower neighbours are shifted one column left
	// relative to even rows.
	shift := 0
	if row%2 == 1 {
		shift = -1
	}
	var r, c int
	switch d {
	case UpLeft:
		r, c = row-1, col+shift
	case UpRight:
		r, c = row-1, col+1+shift
	case Left:
		r, c = row, col-1
	case Right:
		r, c = row, col+1
	case DownLeft:
		r, c = row+1, col+shift
	case DownRight:
		r, c = row+1, col+1+shift
	default:
		return 0, 0, false
	}
	return r, c, g.Exists(r, c)
}

// Neighbor returns the neighbour of c in direction d, or nil when c's
// validity mask says there is none.
func (g *Grid) Neighbor(c *Cell, d Direction) *Cell {
	if c == nil || c.Mask&d.Bit() == 0 {
		return nil
	}
	r, col, ok := g.neighborCoords(c.Row, c.Col, d)
	if !ok {
		return nil
	}
	return g.slots[r*g.Width+col]
}

// Flower returns the seven cells centred on c in the order up-left,
// up-right, left, centre, right, down-left, down-right. ok is false unless
// c is interior.
func (g *Grid) Flower(c *Cell) (flower [7]*Cell, ok bool) {
	if c == nil || !c.Interior() {
		return flower, false
	}
	flower = [7]*Cell{
		g.Neighbor(c, UpLeft),
		g.Neighbor(c, UpRight),
		g.Neighbor(c, Left),
		c,
		g.Neighbor(c, Right),
		g.Neighbor(c, DownLeft),
		g.Neighbor(c, DownRight),
	}
	return flower, true
}

// Cells returns all cells in scan order.
func (g *Grid) Cells() []*Cell { return g.ordered }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.ordered) }

// Regions returns the regions created so far, in creation order.
func (g *Grid) Regions() []*Region { return g.regions }

// Assigned returns the number of cells that belong to a region.
func (g *Grid) Assigned() int {
	n := 0
	for _, c := range g.ordered {
		if c.Region != nil {
			n++
		}
	}
	return n
}

// NewRegion registers a region seeded at c with the given keywords. The
// keyword slice is copied. The region owns no cells until Assign is called.
func (g *Grid) NewRegion(c *Cell, keywords []string) (*Region, error) {
	if c == nil {
		return nil, errors.New("new region: nil cell")
	}
	if len(keywords) == 0 {
		return nil, errors.New("region needs at least one keyword")
	}
	r := &Region{
		ID:       len(g.regions),
		X:        c.X,
		Y:        c.Y,
		Keywords: append([]string(nil), keywords...),
	}
	g.regions = append(g.regions, r)
	return r, nil
}

// Assign hands c to r. A cell is assigned at most once; assigning an already
// assigned cell returns ErrAlreadyAssigned and leaves it untouched.
func (g *Grid) Assign(c *Cell, r *Region) error {
	if c == nil || r == nil {
		return errors.New("assign: nil cell or region")
	}
	if c.Region != nil {
		return fmt.Errorf("%w: cell (%d,%d) in region %d", ErrAlreadyAssigned, c.Row, c.Col, c.Region.ID)
	}
	c.Region = r
	r.cells++
	return nil
}

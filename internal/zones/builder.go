package zones

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/mapzones/internal/papers"
)

// BuildGrid lays out the hex grid over the table's bounding box and fills
// every cell's candidate keywords. Rows are processed in parallel; each
// worker writes only the cells of its own row.
func BuildGrid(ctx context.Context, table *papers.Table, p Params) (*Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	b := table.Bounds()
	if p.AnchorOrigin {
		b = b.IncludeOrigin()
	}
	if w, h := gridDims(b, p.HexRadius); w*h > maxCells {
		return nil, fmt.Errorf("%w: %gx%g cells", ErrGridTooLarge, w, h)
	}
	g := NewGrid(b, p.HexRadius)
	if table.Len() == 0 || g.Len() == 0 {
		return g, nil
	}

	idx := papers.NewIndex(table.Documents(), p.HexRadius)
	rows := rowsOf(g)

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, row := range rows {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for _, c := range row {
				c.Keywords = Histogram(idx, c.X, c.Y, p.HexRadius, p.KeywordThreshold, p.MaxKeywords)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return g, nil
}

// rowsOf splits the scan-ordered cells into rows.
func rowsOf(g *Grid) [][]*Cell {
	rows := make([][]*Cell, 0, g.Height)
	cells := g.Cells()
	start := 0
	for i := 1; i <= len(cells); i++ {
		if i == len(cells) || cells[i].Row != cells[start].Row {
			rows = append(rows, cells[start:i])
			start = i
		}
	}
	return rows
}

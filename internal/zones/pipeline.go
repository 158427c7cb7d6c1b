package zones

import (
	"context"
	"fmt"

	"github.com/banshee-data/mapzones/internal/monitoring"
	"github.com/banshee-data/mapzones/internal/papers"
)

// Stats describes one labelling run.
type Stats struct {
	Papers   int
	Width    int
	Height   int
	Cells    int
	Seeds    int
	Sweeps   int
	Annexed  int
	Assigned int
}

// Result is the outcome of Determine.
type Result struct {
	Grid    *Grid
	Regions []*Region
	Stats   Stats
}

// Determine builds the hex grid for table, seeds regions and grows them to a
// fixed point. An empty table or degenerate bounding box yields no regions.
func Determine(ctx context.Context, table *papers.Table, p Params) (*Result, error) {
	monitoring.Logf("[zones] creating hex grid (radius %.0f) for %d papers", p.HexRadius, table.Len())
	g, err := BuildGrid(ctx, table, p)
	if err != nil {
		return nil, fmt.Errorf("build grid: %w", err)
	}
	res := &Result{
		Grid: g,
		Stats: Stats{
			Papers: table.Len(),
			Width:  g.Width,
			Height: g.Height,
			Cells:  g.Len(),
		},
	}
	if g.Len() == 0 {
		monitoring.Logf("[zones] degenerate grid, no regions")
		return res, nil
	}
	monitoring.Logf("[zones] grid is %dx%d (%d cells)", g.Width, g.Height, g.Len())

	monitoring.Logf("[zones] finding seed areas")
	seeds, err := FindSeeds(g)
	if err != nil {
		return nil, fmt.Errorf("find seeds: %w", err)
	}
	res.Stats.Seeds = len(seeds)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	monitoring.Logf("[zones] growing %d areas (%s check)", len(seeds), p.Growth)
	gs, err := Grow(g, p.Growth)
	if err != nil {
		return nil, fmt.Errorf("grow regions: %w", err)
	}
	res.Stats.Sweeps = gs.Sweeps
	res.Stats.Annexed = gs.Annexed
	res.Stats.Assigned = g.Assigned()
	res.Regions = g.Regions()

	monitoring.Logf("[zones] %d regions cover %d of %d cells after %d sweeps",
		len(res.Regions), res.Stats.Assigned, res.Stats.Cells, res.Stats.Sweeps)
	return res, nil
}

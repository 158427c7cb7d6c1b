package zones

import (
	"errors"
	"fmt"
)

// ErrGrowthDiverged is returned when growth fails to reach a fixed point
// within the number of sweeps a finite grid allows.
var ErrGrowthDiverged = errors.New("region growth did not converge")

// GrowthStats summarises a Grow call.
type GrowthStats struct {
	Sweeps  int // full sweeps, including the final one that changed nothing
	Annexed int // cells assigned by growth
}

// allows reports whether a region may grow from src into dst.
func (gc GrowthCheck) allows(src, dst *Cell) bool {
	switch gc {
	case GrowthCheckTarget:
		return subset(src.Region.Keywords, dst.Keywords)
	default:
		return subset(src.Region.Keywords, src.Keywords)
	}
}

// Grow extends regions into unassigned neighbours until a full sweep
// annexes nothing. Each sweep visits cells in scan order, so a cell annexed
// earlier in a sweep can grow further in the same sweep.
func Grow(g *Grid, check GrowthCheck) (GrowthStats, error) {
	var stats GrowthStats
	// every productive sweep assigns at least one cell
	limit := g.Len() + 1
	for {
		if stats.Sweeps >= limit {
			return stats, fmt.Errorf("%w after %d sweeps", ErrGrowthDiverged, stats.Sweeps)
		}
		stats.Sweeps++

		grew := 0
		for _, c := range g.Cells() {
			if c.Region == nil {
				continue
			}
			for _, d := range Directions {
				n := g.Neighbor(c, d)
				if n == nil || n.Region != nil {
					continue
				}
				if !check.allows(c, n) {
					continue
				}
				if err := g.Assign(n, c.Region); err != nil {
					return stats, err
				}
				grew++
			}
		}
		stats.Annexed += grew
		if grew == 0 {
			return stats, nil
		}
	}
}

package zones

import (
	"fmt"
	"math"
)

// GrowthCheck selects which cell's keywords the growth step validates.
type GrowthCheck string

const (
	// GrowthCheckSource annexes a neighbour when the *source* cell still
	// carries all of its region's keywords. This reproduces the historical
	// labeller, which never looks at the neighbour's keywords.
	GrowthCheckSource GrowthCheck = "source"
	// GrowthCheckTarget annexes a neighbour only when the neighbour itself
	// carries all of the region's keywords.
	GrowthCheckTarget GrowthCheck = "target"
)

// Default parameter values.
const (
	DefaultHexRadius        = 700.0
	DefaultKeywordThreshold = 2
	DefaultMaxKeywords      = 10
)

// Params configures a labelling run.
type Params struct {
	HexRadius        float64     // cell spacing and histogram radius
	KeywordThreshold int         // keyword kept when its count is strictly greater
	MaxKeywords      int         // candidate keywords kept per cell
	Growth           GrowthCheck // growth predicate
	Workers          int         // histogram workers; <= 0 means GOMAXPROCS
	AnchorOrigin     bool        // extend the bounding box to contain (0, 0)
}

// DefaultParams returns the parameters the map labeller has always used.
func DefaultParams() Params {
	return Params{
		HexRadius:        DefaultHexRadius,
		KeywordThreshold: DefaultKeywordThreshold,
		MaxKeywords:      DefaultMaxKeywords,
		Growth:           GrowthCheckSource,
	}
}

// HexHeight returns the vertical row spacing for the configured radius.
func (p Params) HexHeight() float64 {
	return math.Floor(math.Sqrt(3) / 2 * p.HexRadius)
}

// Validate checks that the parameters describe a usable grid.
func (p Params) Validate() error {
	if math.IsNaN(p.HexRadius) || math.IsInf(p.HexRadius, 0) || p.HexRadius <= 0 {
		return fmt.Errorf("HexRadius must be positive and finite, got %v", p.HexRadius)
	}
	if p.HexHeight() < 1 {
		return fmt.Errorf("HexRadius %v gives a zero row height", p.HexRadius)
	}
	if p.KeywordThreshold < 0 {
		return fmt.Errorf("KeywordThreshold must be non-negative, got %d", p.KeywordThreshold)
	}
	if p.MaxKeywords < 1 {
		return fmt.Errorf("MaxKeywords must be at least 1, got %d", p.MaxKeywords)
	}
	switch p.Growth {
	case GrowthCheckSource, GrowthCheckTarget:
	default:
		return fmt.Errorf("unknown growth check %q", p.Growth)
	}
	return nil
}

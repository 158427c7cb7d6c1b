package papers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/banshee-data/mapzones/internal/fsutil"
)

// ErrMalformedLayout is returned when layout input does not have the
// [[id, x, y], ...] shape.
var ErrMalformedLayout = errors.New("malformed layout")

// LayoutEntry is one positioned paper as produced by the graph layout.
// R is the optional fourth element (the rendered radius) and is not used
// by the labeller.
type LayoutEntry struct {
	ID   int64
	X, Y float64
	R    float64
}

// ParseLayout decodes a JSON array of [id, x, y] or [id, x, y, r] arrays.
// Any other shape fails the whole parse.
func ParseLayout(r io.Reader) ([]LayoutEntry, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rows [][]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLayout, err)
	}

	entries := make([]LayoutEntry, 0, len(rows))
	for i, row := range rows {
		if len(row) != 3 && len(row) != 4 {
			return nil, fmt.Errorf("%w: entry %d has %d elements, want 3 or 4", ErrMalformedLayout, i, len(row))
		}
		vals := make([]float64, len(row))
		for j, v := range row {
			n, ok := v.(json.Number)
			if !ok {
				return nil, fmt.Errorf("%w: entry %d element %d is %T, want number", ErrMalformedLayout, i, j, v)
			}
			f, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("%w: entry %d element %d: %v", ErrMalformedLayout, i, j, err)
			}
			vals[j] = f
		}
		if vals[0] != math.Trunc(vals[0]) {
			return nil, fmt.Errorf("%w: entry %d id %v is not an integer", ErrMalformedLayout, i, row[0])
		}
		e := LayoutEntry{ID: int64(vals[0]), X: vals[1], Y: vals[2]}
		if len(vals) == 4 {
			e.R = vals[3]
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// LoadLayoutFile reads and parses a layout JSON file.
func LoadLayoutFile(fs fsutil.FileSystem, path string) ([]LayoutEntry, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layout: %w", err)
	}
	defer f.Close()

	entries, err := ParseLayout(f)
	if err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", path, err)
	}
	return entries, nil
}

package zones

import (
	"encoding/json"
	"io"
)

// Record is the externally visible form of a Region.
type Record struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Keywords []string `json:"kws"`
}

// Records converts regions to records, preserving creation order.
func Records(regions []*Region) []Record {
	out := make([]Record, 0, len(regions))
	for _, r := range regions {
		out = append(out, Record{
			X:        r.X,
			Y:        r.Y,
			Keywords: append([]string(nil), r.Keywords...),
		})
	}
	return out
}

// WriteJSON writes regions as a compact JSON array followed by a newline.
func WriteJSON(w io.Writer, regions []*Region) error {
	return json.NewEncoder(w).Encode(Records(regions))
}

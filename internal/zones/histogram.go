package zones

import (
	"cmp"
	"slices"

	"github.com/banshee-data/mapzones/internal/papers"
)

type keywordCount struct {
	keyword string
	count   int
}

// Histogram returns the keywords of papers strictly within r of (x, y) that
// occur more than threshold times, most frequent first, at most maxKw of
// them. Equal counts are ordered lexicographically so the result does not
// depend on document or map iteration order.
func Histogram(src papers.Searcher, x, y, r float64, threshold, maxKw int) []string {
	counts := make(map[string]int)
	src.Within(x, y, r, func(d *papers.Document) {
		for _, kw := range d.Keywords {
			counts[kw]++
		}
	})

	kept := make([]keywordCount, 0, len(counts))
	for kw, n := range counts {
		if n > threshold {
			kept = append(kept, keywordCount{kw, n})
		}
	}
	if len(kept) == 0 {
		return nil
	}
	slices.SortFunc(kept, func(a, b keywordCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.keyword, b.keyword)
	})

	if maxKw >= 0 && len(kept) > maxKw {
		kept = kept[:maxKw]
	}
	out := make([]string, len(kept))
	for i, k := range kept {
		out[i] = k.keyword
	}
	return out
}

package papers

import (
	"context"
	"fmt"
	"strings"

	"github.com/banshee-data/mapzones/internal/monitoring"
)

// KeywordSource maps a paper id to its comma-separated keyword string.
// found is false when the source has no entry for id.
type KeywordSource interface {
	Keywords(ctx context.Context, id int64) (raw string, found bool, err error)
}

// MapSource is an in-memory KeywordSource.
type MapSource map[int64]string

// Keywords implements KeywordSource.
func (m MapSource) Keywords(_ context.Context, id int64) (string, bool, error) {
	raw, ok := m[id]
	return raw, ok, nil
}

// Normalizer turns raw keyword strings into keyword sets.
type Normalizer struct {
	// CanonicalPrefixes folds every keyword starting with one of these
	// prefixes into the prefix itself, e.g. "Higgs boson" → "Higgs".
	CanonicalPrefixes []string
}

// Normalize splits raw on commas, trims blanks, folds canonical prefixes and
// drops empty and repeated keywords. First occurrence order is kept.
func (n Normalizer) Normalize(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		kw := strings.TrimSpace(p)
		if kw == "" {
			continue
		}
		for _, prefix := range n.CanonicalPrefixes {
			if prefix != "" && strings.HasPrefix(kw, prefix) {
				kw = prefix
				break
			}
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}

// LoadOptions controls Load.
type LoadOptions struct {
	Normalizer    Normalizer
	ProgressEvery int // log every n papers; 0 disables
}

// Load joins layout entries with their keywords and builds a Table.
// Papers without a keyword entry get an empty keyword set; lookup errors
// abort the load.
func Load(ctx context.Context, entries []LayoutEntry, src KeywordSource, opts LoadOptions) (*Table, error) {
	progress := monitoring.Progress{Component: "papers", What: "made papers", Every: opts.ProgressEvery}
	docs := make([]Document, 0, len(entries))
	missing := 0
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		progress.Step(i)

		var kws []string
		if src != nil {
			raw, found, err := src.Keywords(ctx, e.ID)
			if err != nil {
				return nil, fmt.Errorf("keywords for paper %d: %w", e.ID, err)
			}
			if !found {
				missing++
			}
			kws = opts.Normalizer.Normalize(raw)
		}
		docs = append(docs, Document{ID: e.ID, X: e.X, Y: e.Y, Keywords: kws})
	}

	t := NewTable(docs)
	monitoring.Logf("[papers] have graph with %d papers (%d without keywords)", t.Len(), missing)
	return t, nil
}

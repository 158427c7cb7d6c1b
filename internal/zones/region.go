package zones

// Region is a contiguous zone of cells sharing a keyword set.
type Region struct {
	ID       int      // creation sequence number
	X, Y     float64  // centre of the seed cell
	Keywords []string // common keywords of the seed flower; never modified

	cells int
}

// Size returns the number of cells assigned to the region.
func (r *Region) Size() int { return r.cells }

// commonKeywords returns the keywords of lists[0] present in every other
// list, in lists[0] order.
func commonKeywords(lists ...[]string) []string {
	if len(lists) == 0 {
		return nil
	}
	var out []string
	for _, kw := range lists[0] {
		if containsAll(lists[1:], kw) {
			out = append(out, kw)
		}
	}
	return out
}

func containsAll(lists [][]string, kw string) bool {
	for _, l := range lists {
		if !contains(l, kw) {
			return false
		}
	}
	return true
}

func contains(list []string, kw string) bool {
	for _, s := range list {
		if s == kw {
			return true
		}
	}
	return false
}

// subset reports whether every element of want appears in have.
func subset(want, have []string) bool {
	for _, kw := range want {
		if !contains(have, kw) {
			return false
		}
	}
	return true
}

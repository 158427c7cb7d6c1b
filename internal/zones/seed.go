package zones

import "fmt"

// FindSeeds scans interior cells in grid order and creates a region for
// every flower whose seven cells are unassigned and share at least one
// candidate keyword. All seven cells are assigned to the new region at once,
// so a later overlapping flower is rejected. It returns the regions created
// by this call.
func FindSeeds(g *Grid) ([]*Region, error) {
	var created []*Region
	for _, c := range g.Cells() {
		flower, ok := g.Flower(c)
		if !ok {
			continue
		}
		kws, free := flowerKeywords(flower)
		if !free || len(kws) == 0 {
			continue
		}

		region, err := g.NewRegion(c, kws)
		if err != nil {
			return created, err
		}
		for _, fc := range flower {
			if err := g.Assign(fc, region); err != nil {
				return created, fmt.Errorf("seed region %d: %w", region.ID, err)
			}
		}
		created = append(created, region)
	}
	return created, nil
}

// flowerKeywords returns the keywords common to all seven cells. free is
// false when any cell of the flower already belongs to a region.
func flowerKeywords(flower [7]*Cell) (kws []string, free bool) {
	lists := make([][]string, 0, len(flower))
	for _, c := range flower {
		if c == nil || c.Region != nil {
			return nil, false
		}
		lists = append(lists, c.Keywords)
	}
	return commonKeywords(lists...), true
}

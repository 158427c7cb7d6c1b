package zones

import (
	"context"
	"testing"

	"github.com/banshee-data/mapzones/internal/papers"
	"github.com/banshee-data/mapzones/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSeeds_SingleFlower(t *testing.T) {
	g := newTestGrid()
	flower := setFlower(t, g, 4, 4, "A", "B", "C")
	flower[0].Keywords = []string{"C", "B", "X"}

	regions, err := FindSeeds(g)
	require.NoError(t, err)
	require.Len(t, regions, 1)

	r := regions[0]
	assert.Equal(t, 0, r.ID)
	assert.Equal(t, 2800.0, r.X)
	assert.Equal(t, 2424.0, r.Y)
	// ordered like the first flower cell's list
	assert.Equal(t, []string{"C", "B"}, r.Keywords)
	assert.Equal(t, 7, r.Size())
	for _, c := range flower {
		assert.Same(t, r, c.Region)
	}
	assert.Equal(t, 7, g.Assigned())
}

func TestFindSeeds_DisjointMemberBlocksSeed(t *testing.T) {
	g := newTestGrid()
	flower := setFlower(t, g, 4, 4, "A", "B")
	flower[4].Keywords = []string{"C"}

	regions, err := FindSeeds(g)
	require.NoError(t, err)
	assert.Empty(t, regions)
	assert.Equal(t, 0, g.Assigned())
}

func TestFindSeeds_OverlapResolvedByScanOrder(t *testing.T) {
	g := newTestGrid()
	for _, c := range g.Cells() {
		c.Keywords = []string{"A"}
	}

	regions, err := FindSeeds(g)
	require.NoError(t, err)
	require.NotEmpty(t, regions)

	// first interior cell in scan order is (1,2)
	first := g.Cell(1, 2)
	assert.Equal(t, first.X, regions[0].X)
	assert.Equal(t, first.Y, regions[0].Y)

	owner := map[*Cell]int{}
	for i, r := range regions {
		assert.Equal(t, i, r.ID)
		assert.Equal(t, 7, r.Size(), "seeding assigns exactly the flower")
	}
	for _, c := range g.Cells() {
		if c.Region != nil {
			owner[c] = c.Region.ID
		}
	}
	assert.Len(t, owner, 7*len(regions), "no cell is shared between seed flowers")
}

func TestFindSeeds_SkipsAssignedFlowers(t *testing.T) {
	g := newTestGrid()
	flower := setFlower(t, g, 4, 4, "A")
	r, err := g.NewRegion(flower[3], []string{"Z"})
	require.NoError(t, err)
	require.NoError(t, g.Assign(flower[6], r))

	regions, err := FindSeeds(g)
	require.NoError(t, err)
	assert.Empty(t, regions)
	assert.Len(t, g.Regions(), 1)
}

func TestFindSeeds_KeywordSoundness(t *testing.T) {
	g := newTestGrid()
	lists := [][]string{
		{"A", "B", "C"}, {"B", "A"}, {"A", "B", "D"}, {"B", "C", "A"},
		{"A", "B"}, {"E", "B", "A"}, {"A", "B", "F"},
	}
	flower, _ := g.Flower(g.Cell(5, 5))
	for i, c := range flower {
		c.Keywords = lists[i]
	}

	regions, err := FindSeeds(g)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, commonKeywords(lists...), regions[0].Keywords)
	assert.Equal(t, []string{"A", "B"}, regions[0].Keywords)
}

func TestFindSeeds_FromLayout(t *testing.T) {
	ctx := context.Background()
	p := DefaultParams()

	t.Run("shared keywords seed one region", func(t *testing.T) {
		tbl := papers.NewTable(testutil.FlowerLayout(700, 4, 4, 10, 10, testutil.SameKeywords("A", "B")))
		g, err := BuildGrid(ctx, tbl, p)
		require.NoError(t, err)

		flower, _ := g.Flower(g.Cell(4, 4))
		for _, c := range flower {
			assert.Equal(t, []string{"A", "B"}, c.Keywords, "cell (%d,%d)", c.Row, c.Col)
		}

		regions, err := FindSeeds(g)
		require.NoError(t, err)
		require.Len(t, regions, 1)
		assert.Equal(t, []string{"A", "B"}, regions[0].Keywords)
	})

	t.Run("one disjoint paper prevents the seed", func(t *testing.T) {
		kws := testutil.SameKeywords("A", "B")
		kws[4] = []string{"C"}
		tbl := papers.NewTable(testutil.FlowerLayout(700, 4, 4, 10, 10, kws))
		g, err := BuildGrid(ctx, tbl, p)
		require.NoError(t, err)

		regions, err := FindSeeds(g)
		require.NoError(t, err)
		assert.Empty(t, regions)
	})
}

func TestCommonKeywords(t *testing.T) {
	assert.Nil(t, commonKeywords())
	assert.Equal(t, []string{"A"}, commonKeywords([]string{"A"}))
	assert.Empty(t, commonKeywords([]string{"A"}, nil))
	assert.Equal(t, []string{"B", "A"}, commonKeywords([]string{"B", "A", "C"}, []string{"A", "B"}))
}

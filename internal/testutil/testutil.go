// Package testutil provides shared test fixtures for the labelling pipeline.
//
// Fixtures place papers on the centres of an offset hex grid anchored at the
// origin, the same layout the grid builder produces for a bounding box that
// starts at (0, 0).
package testutil

import (
	"math"

	"github.com/banshee-data/mapzones/internal/papers"
)

// HexHeight returns the row spacing for hexRad.
func HexHeight(hexRad float64) float64 {
	return math.Floor(math.Sqrt(3) / 2 * hexRad)
}

// HexCenter returns the centre of cell (row, col) of a grid anchored at the origin.
func HexCenter(hexRad float64, row, col int) (x, y float64) {
	odd := float64(row % 2)
	return (float64(col) - 0.5*odd) * hexRad, float64(row) * HexHeight(hexRad)
}

// FlowerCells returns the (row, col) of the seven cells centred on (row, col)
// in the order up-left, up-right, left, centre, right, down-left, down-right.
func FlowerCells(row, col int) [7][2]int {
	shift := 0
	if row%2 == 1 {
		shift = -1
	}
	return [7][2]int{
		{row - 1, col + shift},
		{row - 1, col + 1 + shift},
		{row, col - 1},
		{row, col},
		{row, col + 1},
		{row + 1, col + shift},
		{row + 1, col + 1 + shift},
	}
}

// FlowerLayout places one paper on each cell of the flower centred on
// (row, col), with keywords kws[i] for the i-th flower cell. Two keyword-less
// papers at the corners stretch the bounding box to exactly gridW x gridH
// cells. Flower papers get ids 1..7, the corners 100 and 101.
func FlowerLayout(hexRad float64, row, col, gridW, gridH int, kws [7][]string) []papers.Document {
	docs := make([]papers.Document, 0, 9)
	for i, rc := range FlowerCells(row, col) {
		x, y := HexCenter(hexRad, rc[0], rc[1])
		docs = append(docs, papers.Document{ID: int64(i + 1), X: x, Y: y, Keywords: kws[i]})
	}
	docs = append(docs,
		papers.Document{ID: 100, X: 0, Y: 0},
		papers.Document{ID: 101, X: float64(gridW) * hexRad, Y: float64(gridH) * HexHeight(hexRad)},
	)
	return docs
}

// SameKeywords returns kws repeated for all seven flower cells.
func SameKeywords(kws ...string) [7][]string {
	var out [7][]string
	for i := range out {
		out[i] = append([]string(nil), kws...)
	}
	return out
}

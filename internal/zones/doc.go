// Package zones labels topical regions of the paper map.
//
// The map's bounding box is discretised into an offset hexagonal grid. Each
// cell carries the keywords that are frequent among nearby papers. Regions are
// seeded where a cell and its six neighbours (a "flower") share keywords, then
// grown cell by cell into unassigned neighbours until nothing changes.
//
// Key types: Grid, Cell, Region, Params, Record.
//
// Cells are only mutated through Grid.Assign, which refuses to reassign a
// cell. Grid construction is parallel; seeding and growth are single-writer
// passes in row-major scan order so results are deterministic.
package zones

// Package grid provides integer rectangle geometry and the empty-slot search
// used to place board elements.
//
// # Coordinates
//
// All values are grid-cell units. XOffset grows to the right and YOffset
// grows downward, so row 0 is the top of a section. Rectangles are half-open
// on both axes: a [Rect] covers columns [XOffset, XOffset+Width) and rows
// [YOffset, YOffset+Height). Two rectangles that only share an edge do not
// overlap.
//
// # Slot Search
//
// [FindFirstEmptyPosition] scans candidate positions row by row, top to
// bottom, and within a row left to right. The first candidate that overlaps
// no existing element wins, which makes placement deterministic: topmost
// first, then leftmost.
//
//	occupied := []grid.Rect{{XOffset: 0, YOffset: 0, Width: 2, Height: 1}}
//	pos, ok := grid.FindFirstEmptyPosition(occupied, 4, grid.WithSize(grid.Size{Width: 2, Height: 1}))
//	// pos == {XOffset: 2, YOffset: 0}, ok == true
//
// A false result means no slot exists inside the bounds. Callers treat that
// as "board is full".
package grid

package grid

// Position is the top-left cell of a rectangle.
type Position struct {
	XOffset int `json:"xOffset"`
	YOffset int `json:"yOffset"`
}

// Size is the extent of a rectangle in cells.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is an axis-aligned rectangle on the grid.
type Rect struct {
	XOffset int
	YOffset int
	Width   int
	Height  int
}

// At returns a rectangle of size s whose top-left cell is p.
func At(p Position, s Size) Rect {
	return Rect{XOffset: p.XOffset, YOffset: p.YOffset, Width: s.Width, Height: s.Height}
}

// Right returns the first column to the right of the rectangle.
func (r Rect) Right() int { return r.XOffset + r.Width }

// Bottom returns the first row below the rectangle.
func (r Rect) Bottom() int { return r.YOffset + r.Height }

// Position returns the top-left cell of the rectangle.
func (r Rect) Position() Position { return Position{XOffset: r.XOffset, YOffset: r.YOffset} }

// Size returns the extent of the rectangle.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Overlaps reports whether r and o share at least one cell.
func (r Rect) Overlaps(o Rect) bool {
	return o.YOffset < r.Bottom() && o.Bottom() > r.YOffset &&
		o.XOffset < r.Right() && o.Right() > r.XOffset
}

// MaxBottom returns the largest Bottom among rects, or 0 when rects is empty.
func MaxBottom(rects []Rect) int {
	bottom := 0
	for _, r := range rects {
		bottom = max(bottom, r.Bottom())
	}
	return bottom
}

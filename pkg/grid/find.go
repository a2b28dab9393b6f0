package grid

// DefaultRowCount bounds the vertical scan when no row count is given.
// It is large enough to act as "unbounded" for any real board.
const DefaultRowCount = 9999

// Option configures [FindFirstEmptyPosition].
type Option func(*search)

type search struct {
	rowCount int
	size     Size
}

// WithRowCount caps the scan height. Rows at or beyond n are never used.
func WithRowCount(n int) Option { return func(s *search) { s.rowCount = n } }

// WithSize sets the size of the rectangle to place. The default is 1x1.
func WithSize(size Size) Option { return func(s *search) { s.size = size } }

// FindFirstEmptyPosition returns the first position, in row-major order, at
// which a rectangle of the requested size fits inside columnCount columns
// without overlapping any of elements. It returns false when no such position
// exists within the bounds.
//
// A size wider than columnCount or taller than the row count yields no
// candidates at all.
func FindFirstEmptyPosition(elements []Rect, columnCount int, opts ...Option) (Position, bool) {
	s := search{rowCount: DefaultRowCount, size: Size{Width: 1, Height: 1}}
	for _, opt := range opts {
		opt(&s)
	}

	for y := 0; y <= s.rowCount-s.size.Height; y++ {
		for x := 0; x <= columnCount-s.size.Width; x++ {
			candidate := Rect{XOffset: x, YOffset: y, Width: s.size.Width, Height: s.size.Height}
			if !overlapsAny(candidate, elements) {
				return candidate.Position(), true
			}
		}
	}
	return Position{}, false
}

func overlapsAny(candidate Rect, elements []Rect) bool {
	for _, e := range elements {
		if candidate.Overlaps(e) {
			return true
		}
	}
	return false
}

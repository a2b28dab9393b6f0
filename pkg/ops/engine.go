package ops

import (
	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
)

// Transform turns a board snapshot into the next one. It returns its input
// unchanged when there is nothing to do.
type Transform func(*board.Board) (*board.Board, error)

// ErrBoardFull is the cause of every BOARD_FULL error returned by this
// package.
var ErrBoardFull = errors.New(errors.ErrCodeBoardFull, "board is full")

// Engine builds transforms that need identifiers or configuration.
type Engine struct {
	ids         board.IDGenerator
	strictMoves bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator sets the generator for new item and section IDs.
func WithIDGenerator(g board.IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithStrictMoves makes MoveItemToSection reject destinations that overlap
// other elements or leave the target section.
func WithStrictMoves() Option {
	return func(e *Engine) { e.strictMoves = true }
}

// NewEngine creates an Engine. Without options it uses UUIDs and lenient
// moves.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{ids: board.UUIDGenerator{}}
	for _, opt := range opts {
		opt(e)
	}
	if e.ids == nil {
		e.ids = board.UUIDGenerator{}
	}
	return e
}

var defaultEngine = NewEngine()

// Chain composes transforms left to right. It stops at the first error.
// If every step is a no-op the input board is returned.
func Chain(transforms ...Transform) Transform {
	return func(b *board.Board) (*board.Board, error) {
		cur := b
		for _, t := range transforms {
			next, err := t(cur)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		return cur, nil
	}
}

func boardFull(layoutID string) error {
	return errors.Wrap(errors.ErrCodeBoardFull, ErrBoardFull, "no free slot in layout %q", layoutID)
}

// findSlot searches sectionID for room of the given size in one layout,
// ignoring the element skipID. Dynamic sections bound both axes.
func findSlot(b *board.Board, sectionID, layoutID string, size grid.Size, skipID string) (grid.Position, bool) {
	columns, rows, ok := b.Bounds(sectionID, layoutID)
	if !ok {
		return grid.Position{}, false
	}
	opts := []grid.Option{grid.WithSize(size)}
	if rows > 0 {
		opts = append(opts, grid.WithRowCount(rows))
	}
	return grid.FindFirstEmptyPosition(b.ElementsInExcept(sectionID, layoutID, skipID), columns, opts...)
}

// placeInFirstEmpty computes one 1x1 placement per layout in the topmost
// empty section. It reports false when the board has no empty section.
func placeInFirstEmpty(b *board.Board) (map[string]board.Placement, bool, error) {
	section, ok := b.FirstEmptySection()
	if !ok {
		return nil, false, nil
	}
	unit := grid.Size{Width: 1, Height: 1}
	placements := make(map[string]board.Placement, len(b.Layouts))
	for _, l := range b.Layouts {
		pos, ok := findSlot(b, section.ID, l.ID, unit, "")
		if !ok {
			return nil, true, boardFull(l.ID)
		}
		placements[l.ID] = placementAt(section.ID, pos, unit)
	}
	return placements, true, nil
}

func placementAt(sectionID string, pos grid.Position, size grid.Size) board.Placement {
	return board.Placement{
		SectionID: sectionID,
		XOffset:   pos.XOffset,
		YOffset:   pos.YOffset,
		Width:     size.Width,
		Height:    size.Height,
	}
}

// forEachPlacementMap calls fn with the placement map of every item and
// dynamic section of b. fn may update entries in place, so b must be a
// private copy.
func forEachPlacementMap(b *board.Board, fn func(placements map[string]board.Placement)) {
	for i := range b.Items {
		fn(b.Items[i].Placements)
	}
	for i := range b.Sections {
		if b.Sections[i].IsDynamic() {
			fn(b.Sections[i].Placements)
		}
	}
}

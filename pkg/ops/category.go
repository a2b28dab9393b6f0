package ops

import (
	"slices"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
)

// Direction is the way a category moves.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Where places a new category relative to its anchor.
type Where string

const (
	Above Where = "above"
	Below Where = "below"
)

// MoveCategoryInput moves a category one slot up or down.
type MoveCategoryInput struct {
	ID        string
	Direction Direction
}

// RemoveCategoryInput names the category to delete.
type RemoveCategoryInput struct {
	ID string
}

// AddCategoryInput describes a new category. An empty AnchorID appends the
// category at the bottom of the board.
type AddCategoryInput struct {
	Name     string
	AnchorID string
	Where    Where
}

// RenameCategoryInput renames a category.
type RenameCategoryInput struct {
	ID   string
	Name string
}

// SetCategoryCollapsedInput sets the collapsed display flag.
type SetCategoryCollapsedInput struct {
	ID        string
	Collapsed bool
}

// =============================================================================
// Move
// =============================================================================

// MoveCategory swaps a category and its trailing empty section with the
// neighbouring pair in the given direction. Only empty and category sections
// change; items and dynamic sections follow their parents by ID.
//
// Moving the first category up or the last one down is a no-op.
func MoveCategory(in MoveCategoryInput) Transform {
	return func(b *board.Board) (*board.Board, error) {
		cat, ok := findCategory(b, in.ID)
		if !ok {
			return b, nil
		}

		var offset int
		switch in.Direction {
		case Up:
			if cat.YOffset <= 1 {
				return b, nil
			}
			offset = -2
		case Down:
			if cat.YOffset >= len(b.PositionedSections())-2 {
				return b, nil
			}
			offset = 2
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid direction %q", in.Direction)
		}

		y := cat.YOffset
		next := b.Clone()
		for i := range next.Sections {
			s := &next.Sections[i]
			if !s.Positioned() {
				continue
			}
			switch s.YOffset {
			case y, y + 1:
				s.YOffset += offset
			case y + offset, y + offset + 1:
				s.YOffset -= offset
			}
		}
		return next, nil
	}
}

// =============================================================================
// Remove
// =============================================================================

// RemoveCategory deletes a category together with its trailing empty
// section. Their content moves into the empty section above: first the
// category's elements below what that section already holds, then the
// trailing section's elements below those. The sections further down move
// up by two so the y sequence stays contiguous.
//
// A category without an empty section on both sides is left alone.
func RemoveCategory(in RemoveCategoryInput) Transform {
	return func(b *board.Board) (*board.Board, error) {
		cat, ok := findCategory(b, in.ID)
		if !ok {
			return b, nil
		}
		above, trailing, ok := neighbours(b, cat.YOffset)
		if !ok {
			return b, nil
		}

		// Per layout: bottom of the above section and height of the
		// category content.
		aboveBottom := make(map[string]int, len(b.Layouts))
		catBottom := make(map[string]int, len(b.Layouts))
		for _, l := range b.Layouts {
			aboveBottom[l.ID] = grid.MaxBottom(b.ElementsIn(above.ID, l.ID))
			catBottom[l.ID] = grid.MaxBottom(b.ElementsIn(cat.ID, l.ID))
		}

		next := b.Clone()
		next.Sections = slices.DeleteFunc(next.Sections, func(s board.Section) bool {
			return s.ID == cat.ID || s.ID == trailing.ID
		})
		for i := range next.Sections {
			s := &next.Sections[i]
			if s.Positioned() && s.YOffset > trailing.YOffset {
				s.YOffset -= 2
			}
		}

		forEachPlacementMap(next, func(placements map[string]board.Placement) {
			for layoutID, p := range placements {
				switch p.SectionID {
				case cat.ID:
					p.YOffset += aboveBottom[layoutID]
				case trailing.ID:
					p.YOffset += aboveBottom[layoutID] + catBottom[layoutID]
				default:
					continue
				}
				p.SectionID = above.ID
				placements[layoutID] = p
			}
		})
		return next, nil
	}
}

// neighbours returns the nearest empty sections strictly above and below y.
func neighbours(b *board.Board, y int) (above, below board.Section, ok bool) {
	var hasAbove, hasBelow bool
	for _, s := range b.Sections {
		if !s.IsEmpty() {
			continue
		}
		if s.YOffset < y && (!hasAbove || s.YOffset > above.YOffset) {
			above, hasAbove = s, true
		}
		if s.YOffset > y && (!hasBelow || s.YOffset < below.YOffset) {
			below, hasBelow = s, true
		}
	}
	return above, below, hasAbove && hasBelow
}

// =============================================================================
// Add and edit
// =============================================================================

// AddCategory inserts a category and its trailing empty section. With an
// anchor category the pair goes directly above or below the anchor,
// otherwise at the bottom. Sections at or below the insertion point move
// down by two. An anchor that no longer exists is a no-op.
func (e *Engine) AddCategory(in AddCategoryInput) Transform {
	return func(b *board.Board) (*board.Board, error) {
		y := len(b.PositionedSections())
		if in.AnchorID != "" {
			i, ok := b.FindSection(in.AnchorID)
			if !ok {
				return b, nil
			}
			anchor := b.Sections[i]
			if !anchor.IsCategory() {
				return nil, errors.New(errors.ErrCodeInvalidInput, "section %q is not a category", in.AnchorID)
			}
			switch in.Where {
			case Above:
				y = anchor.YOffset
			case Below, "":
				y = anchor.YOffset + 2
			default:
				return nil, errors.New(errors.ErrCodeInvalidInput, "invalid position %q", in.Where)
			}
		}

		next := b.Clone()
		for i := range next.Sections {
			s := &next.Sections[i]
			if s.Positioned() && s.YOffset >= y {
				s.YOffset += 2
			}
		}
		next.Sections = append(next.Sections,
			board.Section{ID: e.ids.NewID(), Kind: board.KindCategory, YOffset: y, Name: in.Name},
			board.Section{ID: e.ids.NewID(), Kind: board.KindEmpty, YOffset: y + 1},
		)
		return next, nil
	}
}

// AddCategory uses the default engine.
func AddCategory(in AddCategoryInput) Transform { return defaultEngine.AddCategory(in) }

// RenameCategory sets a category's name.
func RenameCategory(in RenameCategoryInput) Transform {
	return updateCategory(in.ID, func(s *board.Section) bool {
		if s.Name == in.Name {
			return false
		}
		s.Name = in.Name
		return true
	})
}

// SetCategoryCollapsed sets a category's collapsed flag.
func SetCategoryCollapsed(in SetCategoryCollapsedInput) Transform {
	return updateCategory(in.ID, func(s *board.Section) bool {
		if s.Collapsed == in.Collapsed {
			return false
		}
		s.Collapsed = in.Collapsed
		return true
	})
}

// updateCategory applies fn to a copy of the category. fn reports whether it
// changed anything.
func updateCategory(id string, fn func(*board.Section) bool) Transform {
	return func(b *board.Board) (*board.Board, error) {
		i, ok := b.FindSection(id)
		if !ok || !b.Sections[i].IsCategory() {
			return b, nil
		}
		s := b.Sections[i]
		if !fn(&s) {
			return b, nil
		}
		next := b.Clone()
		next.Sections[i] = s
		return next, nil
	}
}

func findCategory(b *board.Board, id string) (board.Section, bool) {
	i, ok := b.FindSection(id)
	if !ok || !b.Sections[i].IsCategory() {
		return board.Section{}, false
	}
	return b.Sections[i], true
}

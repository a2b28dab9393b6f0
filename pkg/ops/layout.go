package ops

import (
	"cmp"
	"slices"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
)

// AddLayoutInput describes a new responsive layout.
type AddLayoutInput struct {
	Name        string
	ColumnCount int
	Breakpoint  int
}

// RemoveLayoutInput names the layout to delete.
type RemoveLayoutInput struct {
	LayoutID string
}

// AddLayout appends a layout and gives every item and dynamic section a
// placement in it.
//
// Placements are derived from the board's first layout. Each section's
// children are packed in that layout's reading order (top to bottom, then
// left to right) with widths clamped to the new column count. Dynamic
// sections are packed inner-first and grow in height to fit their children.
func (e *Engine) AddLayout(in AddLayoutInput) Transform {
	return func(b *board.Board) (*board.Board, error) {
		if err := errors.ValidateColumnCount(in.ColumnCount); err != nil {
			return nil, err
		}

		layout := board.Layout{
			ID:          e.ids.NewID(),
			Name:        in.Name,
			ColumnCount: in.ColumnCount,
			Breakpoint:  in.Breakpoint,
		}
		next := b.Clone()
		next.Layouts = append(next.Layouts, layout)

		placed := map[string]board.Placement{}
		if len(b.Layouts) > 0 {
			r := &repack{src: b, ref: b.Layouts[0].ID, placed: placed, visiting: map[string]bool{}}
			for _, s := range b.PositionedSections() {
				r.section(s.ID, layout.ColumnCount)
			}
		}

		var orphans []map[string]board.Placement
		assign := func(id string, placements *map[string]board.Placement) {
			if *placements == nil {
				*placements = make(map[string]board.Placement, 1)
			}
			if p, ok := placed[id]; ok {
				(*placements)[layout.ID] = p
				return
			}
			orphans = append(orphans, *placements)
		}
		for i := range next.Items {
			assign(next.Items[i].ID, &next.Items[i].Placements)
		}
		for i := range next.Sections {
			if next.Sections[i].IsDynamic() {
				assign(next.Sections[i].ID, &next.Sections[i].Placements)
			}
		}

		if len(orphans) > 0 {
			section, ok := next.FirstEmptySection()
			if !ok {
				return nil, boardFull(layout.ID)
			}
			unit := grid.Size{Width: 1, Height: 1}
			for _, placements := range orphans {
				pos, ok := findSlot(next, section.ID, layout.ID, unit, "")
				if !ok {
					return nil, boardFull(layout.ID)
				}
				placements[layout.ID] = placementAt(section.ID, pos, unit)
			}
		}
		return next, nil
	}
}

// AddLayout uses the default engine.
func AddLayout(in AddLayoutInput) Transform { return defaultEngine.AddLayout(in) }

// RemoveLayout drops a layout and every placement recorded for it. The last
// layout of a board cannot be removed.
func RemoveLayout(in RemoveLayoutInput) Transform {
	return func(b *board.Board) (*board.Board, error) {
		i := slices.IndexFunc(b.Layouts, func(l board.Layout) bool { return l.ID == in.LayoutID })
		if i < 0 {
			return b, nil
		}
		if len(b.Layouts) == 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "cannot remove the last layout %q", in.LayoutID)
		}
		next := b.Clone()
		next.Layouts = slices.Delete(next.Layouts, i, i+1)
		forEachPlacementMap(next, func(placements map[string]board.Placement) {
			delete(placements, in.LayoutID)
		})
		return next, nil
	}
}

// repack derives placements for a new layout from a reference layout.
type repack struct {
	src      *board.Board
	ref      string
	placed   map[string]board.Placement
	visiting map[string]bool
}

type element struct {
	id      string
	dynamic bool
	p       board.Placement
}

// section packs the children of sectionID into a grid columns wide and
// returns the bottom edge of the packed content.
func (r *repack) section(sectionID string, columns int) int {
	if r.visiting[sectionID] {
		return 0
	}
	r.visiting[sectionID] = true
	defer delete(r.visiting, sectionID)

	var occupied []grid.Rect
	for _, c := range r.children(sectionID) {
		size := grid.Size{Width: min(c.p.Width, columns), Height: c.p.Height}
		if c.dynamic {
			size.Height = max(size.Height, r.section(c.id, size.Width))
		}
		pos, ok := grid.FindFirstEmptyPosition(occupied, columns, grid.WithSize(size))
		if !ok {
			pos = grid.Position{YOffset: grid.MaxBottom(occupied)}
		}
		occupied = append(occupied, grid.At(pos, size))
		r.placed[c.id] = placementAt(sectionID, pos, size)
	}
	return grid.MaxBottom(occupied)
}

// children returns the elements placed in sectionID in the reference
// layout, in reading order.
func (r *repack) children(sectionID string) []element {
	var out []element
	for _, it := range r.src.Items {
		if p, ok := it.Placements[r.ref]; ok && p.SectionID == sectionID {
			out = append(out, element{id: it.ID, p: p})
		}
	}
	for _, s := range r.src.Sections {
		if !s.IsDynamic() {
			continue
		}
		if p, ok := s.Placements[r.ref]; ok && p.SectionID == sectionID {
			out = append(out, element{id: s.ID, dynamic: true, p: p})
		}
	}
	slices.SortStableFunc(out, func(a, b element) int {
		return cmp.Or(
			cmp.Compare(a.p.YOffset, b.p.YOffset),
			cmp.Compare(a.p.XOffset, b.p.XOffset),
			cmp.Compare(a.id, b.id),
		)
	})
	return out
}

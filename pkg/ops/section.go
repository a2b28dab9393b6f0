package ops

import (
	"slices"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/grid"
)

// RemoveDynamicSectionInput names the dynamic section to dissolve.
type RemoveDynamicSectionInput struct {
	ID string
}

// AddDynamicSection places a new 1x1 dynamic section in the topmost empty
// section of every layout, the same way CreateItem places items.
func (e *Engine) AddDynamicSection() Transform {
	return func(b *board.Board) (*board.Board, error) {
		placements, ok, err := placeInFirstEmpty(b)
		if err != nil {
			return nil, err
		}
		if !ok {
			return b, nil
		}
		next := b.Clone()
		next.Sections = append(next.Sections, board.Section{
			ID:         e.ids.NewID(),
			Kind:       board.KindDynamic,
			Placements: placements,
		})
		return next, nil
	}
}

// AddDynamicSection uses the default engine.
func AddDynamicSection() Transform { return defaultEngine.AddDynamicSection() }

// RemoveDynamicSection deletes a dynamic section and hands its children to
// the section's parent, offset by the section's position, in every layout.
// A child whose layout has no parent placement is moved to the first free
// cell of the topmost empty section.
func RemoveDynamicSection(in RemoveDynamicSectionInput) Transform {
	return func(b *board.Board) (*board.Board, error) {
		i, ok := b.FindSection(in.ID)
		if !ok || !b.Sections[i].IsDynamic() {
			return b, nil
		}
		removed := b.Sections[i]

		next := b.Clone()
		next.Sections = slices.Delete(next.Sections, i, i+1)

		var orphans []func() error
		forEachPlacementMap(next, func(placements map[string]board.Placement) {
			for layoutID, p := range placements {
				if p.SectionID != removed.ID {
					continue
				}
				parent, ok := removed.Placements[layoutID]
				if !ok {
					orphans = append(orphans, rehome(next, placements, layoutID))
					continue
				}
				p.SectionID = parent.SectionID
				p.XOffset += parent.XOffset
				p.YOffset += parent.YOffset
				placements[layoutID] = p
			}
		})
		for _, fn := range orphans {
			if err := fn(); err != nil {
				return nil, err
			}
		}
		return next, nil
	}
}

// rehome returns a deferred move of one placement into the topmost empty
// section. It runs after all regular children are reparented so the search
// sees their final positions.
func rehome(b *board.Board, placements map[string]board.Placement, layoutID string) func() error {
	return func() error {
		section, ok := b.FirstEmptySection()
		if !ok {
			return boardFull(layoutID)
		}
		p := placements[layoutID]
		size := grid.Size{Width: p.Width, Height: p.Height}
		// Park the element outside the search first so it does not block itself.
		p.SectionID = ""
		placements[layoutID] = p
		pos, ok := findSlot(b, section.ID, layoutID, size, "")
		if !ok {
			return boardFull(layoutID)
		}
		placements[layoutID] = placementAt(section.ID, pos, size)
		return nil
	}
}

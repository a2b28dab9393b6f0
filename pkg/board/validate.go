package board

import (
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
)

// Validate checks the structural invariants of b and returns the first
// violation as an INVALID_BOARD (or INVALID_LAYOUT) error.
func Validate(b *Board) error {
	if b == nil {
		return errors.New(errors.ErrCodeInvalidBoard, "board is nil")
	}
	if b.ID == "" {
		return errors.New(errors.ErrCodeInvalidBoard, "board id is empty")
	}
	if err := validateLayouts(b.Layouts); err != nil {
		return err
	}
	if err := validateSections(b); err != nil {
		return err
	}
	if err := validateItems(b); err != nil {
		return err
	}
	return validateOverlaps(b)
}

func validateLayouts(layouts []Layout) error {
	if len(layouts) == 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "board has no layouts")
	}
	seen := make(map[string]bool, len(layouts))
	for _, l := range layouts {
		if l.ID == "" {
			return errors.New(errors.ErrCodeInvalidLayout, "layout %q has an empty id", l.Name)
		}
		if seen[l.ID] {
			return errors.New(errors.ErrCodeInvalidLayout, "duplicate layout id %q", l.ID)
		}
		seen[l.ID] = true
		if l.ColumnCount < 1 {
			return errors.New(errors.ErrCodeInvalidLayout, "layout %q: column count must be at least 1, got %d", l.ID, l.ColumnCount)
		}
	}
	return nil
}

func validateSections(b *Board) error {
	seen := make(map[string]bool, len(b.Sections))
	for _, s := range b.Sections {
		if s.ID == "" {
			return invalid("section with empty id")
		}
		if seen[s.ID] {
			return invalid("duplicate section id %q", s.ID)
		}
		seen[s.ID] = true
		switch s.Kind {
		case KindEmpty, KindCategory, KindDynamic:
		default:
			return invalid("section %q: unknown kind %q", s.ID, s.Kind)
		}
	}

	positioned := b.PositionedSections()
	if len(positioned) == 0 {
		return invalid("board has no empty section")
	}
	if !positioned[0].IsEmpty() {
		return invalid("section at y=0 must be empty, got %s", positioned[0].Kind)
	}
	for i, s := range positioned {
		if s.YOffset != i {
			return invalid("section %q: y offsets must be contiguous, want %d got %d", s.ID, i, s.YOffset)
		}
		if s.XOffset != 0 {
			return invalid("section %q: x offset must be 0", s.ID)
		}
		if s.IsCategory() && (i+1 >= len(positioned) || !positioned[i+1].IsEmpty()) {
			return invalid("category %q is not followed by an empty section", s.ID)
		}
	}

	for _, s := range b.Sections {
		if !s.IsDynamic() {
			continue
		}
		if err := validatePlacements(b, "dynamic section", s.ID, s.Placements); err != nil {
			return err
		}
	}
	for _, s := range b.Sections {
		if !s.IsDynamic() {
			continue
		}
		for layoutID := range s.Placements {
			if err := checkAncestry(b, s.ID, layoutID); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkAncestry follows parent links from a dynamic section and fails on a
// cycle.
func checkAncestry(b *Board, id, layoutID string) error {
	current := id
	for range len(b.Sections) {
		i, ok := b.FindSection(current)
		if !ok {
			return invalid("dynamic section %q: unknown ancestor %q", id, current)
		}
		s := b.Sections[i]
		if !s.IsDynamic() {
			return nil
		}
		current = s.Placements[layoutID].SectionID
	}
	return invalid("dynamic section %q: parent cycle in layout %q", id, layoutID)
}

func validateItems(b *Board) error {
	seen := make(map[string]bool, len(b.Items))
	for _, it := range b.Items {
		if it.ID == "" {
			return invalid("item with empty id")
		}
		if seen[it.ID] {
			return invalid("duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
		if err := validatePlacements(b, "item", it.ID, it.Placements); err != nil {
			return err
		}
	}
	return nil
}

// validatePlacements checks that an element has exactly one placement per
// layout and that each placement fits inside its parent.
func validatePlacements(b *Board, what, id string, placements map[string]Placement) error {
	if len(placements) != len(b.Layouts) {
		return invalid("%s %q: has %d placements for %d layouts", what, id, len(placements), len(b.Layouts))
	}
	for _, l := range b.Layouts {
		p, ok := placements[l.ID]
		if !ok {
			return invalid("%s %q: missing placement for layout %q", what, id, l.ID)
		}
		if p.SectionID == id {
			return invalid("%s %q: placed inside itself", what, id)
		}
		if _, ok := b.FindSection(p.SectionID); !ok {
			return invalid("%s %q: unknown section %q in layout %q", what, id, p.SectionID, l.ID)
		}
		if p.XOffset < 0 || p.YOffset < 0 || p.Width < 1 || p.Height < 1 {
			return invalid("%s %q: invalid rectangle %+v in layout %q", what, id, p.Rect(), l.ID)
		}
		columns, rows, _ := b.Bounds(p.SectionID, l.ID)
		r := p.Rect()
		if r.Right() > columns || (rows > 0 && r.Bottom() > rows) {
			return invalid("%s %q: rectangle %+v exceeds section %q in layout %q", what, id, r, p.SectionID, l.ID)
		}
	}
	return nil
}

func validateOverlaps(b *Board) error {
	type key struct{ section, layout string }
	type element struct {
		id   string
		rect grid.Rect
	}
	groups := make(map[key][]element)
	add := func(id string, placements map[string]Placement) {
		for layoutID, p := range placements {
			k := key{p.SectionID, layoutID}
			groups[k] = append(groups[k], element{id, p.Rect()})
		}
	}
	for _, s := range b.Sections {
		if s.IsDynamic() {
			add(s.ID, s.Placements)
		}
	}
	for _, it := range b.Items {
		add(it.ID, it.Placements)
	}

	for k, elems := range groups {
		for i := range elems {
			for j := i + 1; j < len(elems); j++ {
				if elems[i].rect.Overlaps(elems[j].rect) {
					return invalid("%q and %q overlap in section %q, layout %q", elems[i].id, elems[j].id, k.section, k.layout)
				}
			}
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidBoard, format, args...)
}

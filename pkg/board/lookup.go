package board

import (
	"sort"

	"github.com/matzehuels/gridboard/pkg/grid"
)

// FindItem returns the index of the item with the given ID.
func (b *Board) FindItem(id string) (int, bool) {
	for i, it := range b.Items {
		if it.ID == id {
			return i, true
		}
	}
	return -1, false
}

// FindSection returns the index of the section with the given ID.
func (b *Board) FindSection(id string) (int, bool) {
	for i, s := range b.Sections {
		if s.ID == id {
			return i, true
		}
	}
	return -1, false
}

// FirstEmptySection returns the empty section with the lowest YOffset.
func (b *Board) FirstEmptySection() (Section, bool) {
	var (
		first Section
		found bool
	)
	for _, s := range b.Sections {
		if s.IsEmpty() && (!found || s.YOffset < first.YOffset) {
			first, found = s, true
		}
	}
	return first, found
}

// PositionedSections returns the empty and category sections ordered by
// YOffset.
func (b *Board) PositionedSections() []Section {
	var out []Section
	for _, s := range b.Sections {
		if s.Positioned() {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].YOffset < out[j].YOffset })
	return out
}

// ElementsIn returns the rectangles of every item and dynamic section placed
// in sectionID for layoutID.
func (b *Board) ElementsIn(sectionID, layoutID string) []grid.Rect {
	return b.elementsIn(sectionID, layoutID, "")
}

// ElementsInExcept is ElementsIn without the element whose ID is skipID.
func (b *Board) ElementsInExcept(sectionID, layoutID, skipID string) []grid.Rect {
	return b.elementsIn(sectionID, layoutID, skipID)
}

func (b *Board) elementsIn(sectionID, layoutID, skipID string) []grid.Rect {
	var rects []grid.Rect
	for _, it := range b.Items {
		if it.ID == skipID {
			continue
		}
		if p, ok := it.Placements[layoutID]; ok && p.SectionID == sectionID {
			rects = append(rects, p.Rect())
		}
	}
	for _, s := range b.Sections {
		if !s.IsDynamic() || s.ID == skipID {
			continue
		}
		if p, ok := s.Placements[layoutID]; ok && p.SectionID == sectionID {
			rects = append(rects, p.Rect())
		}
	}
	return rects
}

// Bounds returns the grid bounds of a section for a layout: the dynamic
// section's width and height, or the layout's column count with unbounded
// rows for empty and category sections. Rows is zero when unbounded.
func (b *Board) Bounds(sectionID, layoutID string) (columns, rows int, ok bool) {
	i, found := b.FindSection(sectionID)
	if !found {
		return 0, 0, false
	}
	s := b.Sections[i]
	if s.IsDynamic() {
		p, has := s.Placements[layoutID]
		if !has {
			return 0, 0, false
		}
		return p.Width, p.Height, true
	}
	l, has := b.Layout(layoutID)
	if !has {
		return 0, 0, false
	}
	return l.ColumnCount, 0, true
}

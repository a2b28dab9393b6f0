package board

// SectionKind discriminates the three section variants.
type SectionKind string

const (
	KindEmpty    SectionKind = "empty"
	KindCategory SectionKind = "category"
	KindDynamic  SectionKind = "dynamic"
)

// Section is a region of the board.
//
// Empty and category sections use XOffset and YOffset and leave Placements
// nil. Dynamic sections use Placements only; there SectionID names the parent
// section for that layout.
type Section struct {
	ID   string      `json:"id"`
	Kind SectionKind `json:"kind"`

	XOffset int `json:"xOffset"`
	YOffset int `json:"yOffset"`

	// Category only.
	Name      string `json:"name,omitempty"`
	Collapsed bool   `json:"collapsed,omitempty"`

	// Dynamic only.
	Placements map[string]Placement `json:"placements,omitempty"`
}

// IsEmpty reports whether s is an empty section.
func (s Section) IsEmpty() bool { return s.Kind == KindEmpty }

// IsCategory reports whether s is a category section.
func (s Section) IsCategory() bool { return s.Kind == KindCategory }

// IsDynamic reports whether s is a dynamic section.
func (s Section) IsDynamic() bool { return s.Kind == KindDynamic }

// Positioned reports whether s takes part in the board-wide YOffset
// sequence, which holds for empty and category sections.
func (s Section) Positioned() bool { return s.Kind == KindEmpty || s.Kind == KindCategory }

// Placement returns the dynamic section's placement for a layout.
func (s Section) Placement(layoutID string) (Placement, bool) {
	p, ok := s.Placements[layoutID]
	return p, ok
}

package board

import "github.com/matzehuels/gridboard/pkg/grid"

// Item is a placed widget instance.
type Item struct {
	ID              string               `json:"id"`
	Kind            string               `json:"kind"`
	Options         map[string]any       `json:"options"`
	IntegrationIDs  []string             `json:"integrationIds"`
	AdvancedOptions AdvancedOptions      `json:"advancedOptions"`
	Placements      map[string]Placement `json:"placements"`
}

// AdvancedOptions are display overrides shared by all widget kinds.
type AdvancedOptions struct {
	Title            *string  `json:"title"`
	CustomCSSClasses []string `json:"customCssClasses"`
	BorderColor      string   `json:"borderColor"`
}

// DefaultAdvancedOptions returns the advanced options of a new item.
func DefaultAdvancedOptions() AdvancedOptions {
	return AdvancedOptions{CustomCSSClasses: []string{}}
}

// Placement positions an item or dynamic section inside a section for one
// layout. All values are grid cells.
type Placement struct {
	SectionID string `json:"sectionId"`
	XOffset   int    `json:"xOffset"`
	YOffset   int    `json:"yOffset"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Rect returns the rectangle covered by p.
func (p Placement) Rect() grid.Rect {
	return grid.Rect{XOffset: p.XOffset, YOffset: p.YOffset, Width: p.Width, Height: p.Height}
}

// Size returns the extent of p.
func (p Placement) Size() grid.Size {
	return grid.Size{Width: p.Width, Height: p.Height}
}

// Placement returns the item's placement for a layout.
func (it Item) Placement(layoutID string) (Placement, bool) {
	p, ok := it.Placements[layoutID]
	return p, ok
}

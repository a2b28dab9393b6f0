package board

import (
	"time"
)

// Default values for boards created without explicit layouts.
const (
	DefaultLayoutName  = "default"
	DefaultColumnCount = 12
)

// Board is the aggregate root of the layout model.
type Board struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
	Layouts   []Layout  `json:"layouts"`
	Sections  []Section `json:"sections"`
	Items     []Item    `json:"items"`
}

// Layout is one responsive breakpoint of a board.
type Layout struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ColumnCount int    `json:"columnCount"`
	// Breakpoint is the viewport width in pixels below which the layout applies.
	Breakpoint int `json:"breakpoint"`
}

// New returns a board with a fresh ID, the given layouts and a single empty
// section at y=0. Layouts without an ID get one from gen. When no layout is
// given, a default layout with [DefaultColumnCount] columns is added.
//
// A nil gen uses [UUIDGenerator].
func New(gen IDGenerator, name string, layouts ...Layout) *Board {
	if gen == nil {
		gen = UUIDGenerator{}
	}
	if len(layouts) == 0 {
		layouts = []Layout{{Name: DefaultLayoutName, ColumnCount: DefaultColumnCount}}
	}

	b := &Board{
		ID:       gen.NewID(),
		Name:     name,
		Layouts:  make([]Layout, len(layouts)),
		Sections: []Section{{ID: gen.NewID(), Kind: KindEmpty}},
		Items:    []Item{},
	}
	for i, l := range layouts {
		if l.ID == "" {
			l.ID = gen.NewID()
		}
		b.Layouts[i] = l
	}
	return b
}

// LayoutIDs returns the IDs of the board's layouts in board order.
func (b *Board) LayoutIDs() []string {
	ids := make([]string, len(b.Layouts))
	for i, l := range b.Layouts {
		ids[i] = l.ID
	}
	return ids
}

// Layout returns the layout with the given ID.
func (b *Board) Layout(id string) (Layout, bool) {
	for _, l := range b.Layouts {
		if l.ID == id {
			return l, true
		}
	}
	return Layout{}, false
}

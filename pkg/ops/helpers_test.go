package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gridboard/pkg/board"
)

// fixture builds boards for tests.
type fixture struct {
	b *board.Board
}

func newFixture(layouts ...board.Layout) *fixture {
	return &fixture{b: &board.Board{ID: "board", Name: "Test", Layouts: layouts, Items: []board.Item{}}}
}

func layout(id string, columns int) board.Layout {
	return board.Layout{ID: id, Name: id, ColumnCount: columns}
}

func at(sectionID string, x, y, w, h int) board.Placement {
	return board.Placement{SectionID: sectionID, XOffset: x, YOffset: y, Width: w, Height: h}
}

func (f *fixture) empty(id string, y int) *fixture {
	f.b.Sections = append(f.b.Sections, board.Section{ID: id, Kind: board.KindEmpty, YOffset: y})
	return f
}

func (f *fixture) category(id string, y int) *fixture {
	f.b.Sections = append(f.b.Sections, board.Section{ID: id, Kind: board.KindCategory, YOffset: y, Name: "Category " + id})
	return f
}

// alternating adds sections "0".."n-1", empty at even and category at odd
// offsets.
func (f *fixture) alternating(n int) *fixture {
	for y := range n {
		id := string(rune('0' + y))
		if y%2 == 0 {
			f.empty(id, y)
		} else {
			f.category(id, y)
		}
	}
	return f
}

func (f *fixture) dynamic(id string, placements map[string]board.Placement) *fixture {
	f.b.Sections = append(f.b.Sections, board.Section{ID: id, Kind: board.KindDynamic, Placements: placements})
	return f
}

func (f *fixture) item(id string, placements map[string]board.Placement) *fixture {
	f.b.Items = append(f.b.Items, board.Item{
		ID:              id,
		Kind:            "app",
		Options:         map[string]any{"name": id},
		IntegrationIDs:  []string{},
		AdvancedOptions: board.DefaultAdvancedOptions(),
		Placements:      placements,
	})
	return f
}

func (f *fixture) build(t *testing.T) *board.Board {
	t.Helper()
	require.NoError(t, board.Validate(f.b), "fixture must be valid")
	return f.b
}

func testEngine(opts ...Option) *Engine {
	return NewEngine(append([]Option{WithIDGenerator(board.NewSequenceGenerator("new"))}, opts...)...)
}

func placementOf(t *testing.T, b *board.Board, itemID, layoutID string) board.Placement {
	t.Helper()
	i, ok := b.FindItem(itemID)
	require.True(t, ok, "item %s not found", itemID)
	p, ok := b.Items[i].Placements[layoutID]
	require.True(t, ok, "item %s has no placement for %s", itemID, layoutID)
	return p
}

func sectionIDs(b *board.Board) []string {
	var ids []string
	for _, s := range b.PositionedSections() {
		ids = append(ids, s.ID)
	}
	return ids
}

func sectionYOffsets(b *board.Board) map[string]int {
	out := map[string]int{}
	for _, s := range b.Sections {
		if s.Positioned() {
			out[s.ID] = s.YOffset
		}
	}
	return out
}

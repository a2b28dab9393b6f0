package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
)

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine()
	assert.IsType(t, board.UUIDGenerator{}, e.ids)
	assert.False(t, e.strictMoves)

	e = NewEngine(WithIDGenerator(nil), WithStrictMoves())
	assert.NotNil(t, e.ids)
	assert.True(t, e.strictMoves)
}

func TestChain(t *testing.T) {
	b := twoLayoutBoard(t)
	e := testEngine()

	next, err := Chain(
		e.CreateItem(CreateItemInput{Kind: "clock"}),
		e.CreateItem(CreateItemInput{Kind: "weather"}),
		RemoveItem(RemoveItemInput{ItemID: "i1"}),
	)(b)
	require.NoError(t, err)
	require.Len(t, next.Items, 2)
	assert.Equal(t, "new-1", next.Items[0].ID)
	assert.Equal(t, "new-2", next.Items[1].ID)
	assert.Equal(t, at("s0", 2, 0, 1, 1), next.Items[1].Placements["lg"])
}

func TestChainStopsAtError(t *testing.T) {
	calls := 0
	count := func(b *board.Board) (*board.Board, error) {
		calls++
		return b, nil
	}
	_, err := Chain(count, CreateItem(CreateItemInput{Kind: "clock"}), count)(fullBoard(t))
	assert.True(t, errors.Is(err, errors.ErrCodeBoardFull))
	assert.Equal(t, 1, calls)
}

func TestChainOfNoOpsReturnsInput(t *testing.T) {
	b := twoLayoutBoard(t)
	next, err := Chain(
		RemoveItem(RemoveItemInput{ItemID: "nope"}),
		MoveCategory(MoveCategoryInput{ID: "c1", Direction: Up}),
	)(b)
	require.NoError(t, err)
	assert.Same(t, b, next)

	next, err = Chain()(b)
	require.NoError(t, err)
	assert.Same(t, b, next)
}

// TestTransformsDoNotModifyInput applies every operation to the same board
// and checks the board afterwards.
func TestTransformsDoNotModifyInput(t *testing.T) {
	e := testEngine(WithStrictMoves())
	transforms := map[string]Transform{
		"create":          e.CreateItem(CreateItemInput{Kind: "clock"}),
		"duplicate":       e.DuplicateItem(DuplicateItemInput{ItemID: "b"}),
		"move":            MoveItemToSection(MoveItemInput{ItemID: "a", LayoutID: "lg", SectionID: "6", Width: 1, Height: 1}),
		"remove":          RemoveItem(RemoveItemInput{ItemID: "a"}),
		"options":         UpdateItemOptions(UpdateItemOptionsInput{ItemID: "a", Options: map[string]any{"x": 1}}),
		"advanced":        UpdateItemAdvancedOptions(UpdateItemAdvancedOptionsInput{ItemID: "a"}),
		"integrations":    UpdateItemIntegrations(UpdateItemIntegrationsInput{ItemID: "a", IntegrationIDs: []string{"x"}}),
		"move category":   MoveCategory(MoveCategoryInput{ID: "3", Direction: Up}),
		"remove category": RemoveCategory(RemoveCategoryInput{ID: "1"}),
		"add category":    e.AddCategory(AddCategoryInput{Name: "x", AnchorID: "3"}),
		"rename":          RenameCategory(RenameCategoryInput{ID: "3", Name: "x"}),
		"collapse":        SetCategoryCollapsed(SetCategoryCollapsedInput{ID: "3", Collapsed: true}),
		"add dynamic":     e.AddDynamicSection(),
		"remove dynamic":  RemoveDynamicSection(RemoveDynamicSectionInput{ID: "d1"}),
		"add layout":      e.AddLayout(AddLayoutInput{Name: "x", ColumnCount: 3}),
		"remove layout":   RemoveLayout(RemoveLayoutInput{LayoutID: "sm"}),
	}

	for name, transform := range transforms {
		t.Run(name, func(t *testing.T) {
			b := reflowBoard(t)
			want := b.Clone()
			next, err := transform(b)
			require.NoError(t, err)
			assert.NotSame(t, b, next)
			assert.Equal(t, want, b)
			assert.NoError(t, board.Validate(next))
		})
	}
}

package ops

import (
	"slices"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
)

// CreateItemInput describes a new widget.
type CreateItemInput struct {
	Kind    string
	Options map[string]any
}

// DuplicateItemInput names the item to copy.
type DuplicateItemInput struct {
	ItemID string
}

// MoveItemInput is the destination of an item in one layout. LayoutID is
// the layout the caller is currently editing.
type MoveItemInput struct {
	ItemID    string
	LayoutID  string
	SectionID string
	XOffset   int
	YOffset   int
	Width     int
	Height    int
}

// RemoveItemInput names the item to delete.
type RemoveItemInput struct {
	ItemID string
}

// UpdateItemOptionsInput replaces an item's widget options.
type UpdateItemOptionsInput struct {
	ItemID  string
	Options map[string]any
}

// UpdateItemAdvancedOptionsInput replaces an item's advanced options.
type UpdateItemAdvancedOptionsInput struct {
	ItemID          string
	AdvancedOptions board.AdvancedOptions
}

// UpdateItemIntegrationsInput replaces an item's integration references.
type UpdateItemIntegrationsInput struct {
	ItemID         string
	IntegrationIDs []string
}

// =============================================================================
// Create
// =============================================================================

// CreateItem adds a 1x1 item to the topmost empty section, at the first free
// cell of every layout. It is a no-op when the board has no empty section.
func (e *Engine) CreateItem(in CreateItemInput) Transform {
	return func(b *board.Board) (*board.Board, error) {
		placements, ok, err := placeInFirstEmpty(b)
		if err != nil {
			return nil, err
		}
		if !ok {
			return b, nil
		}

		options := board.CloneOptions(in.Options)
		if options == nil {
			options = map[string]any{}
		}

		next := b.Clone()
		next.Items = append(next.Items, board.Item{
			ID:              e.ids.NewID(),
			Kind:            in.Kind,
			Options:         options,
			IntegrationIDs:  []string{},
			AdvancedOptions: board.DefaultAdvancedOptions(),
			Placements:      placements,
		})
		return next, nil
	}
}

// CreateItem uses the default engine.
func CreateItem(in CreateItemInput) Transform { return defaultEngine.CreateItem(in) }

// =============================================================================
// Duplicate
// =============================================================================

// DuplicateItem appends a deep copy of an item with a fresh ID. In every
// layout the copy keeps the original's size and goes to the first free slot
// of the original's section, or failing that of the topmost empty section.
func (e *Engine) DuplicateItem(in DuplicateItemInput) Transform {
	return func(b *board.Board) (*board.Board, error) {
		i, ok := b.FindItem(in.ItemID)
		if !ok {
			return b, nil
		}

		dup := b.Items[i].Clone()
		dup.ID = e.ids.NewID()
		fallback, hasFallback := b.FirstEmptySection()

		placements := make(map[string]board.Placement, len(b.Layouts))
		for _, l := range b.Layouts {
			orig, ok := dup.Placements[l.ID]
			if !ok {
				if !hasFallback {
					return nil, boardFull(l.ID)
				}
				orig = board.Placement{SectionID: fallback.ID, Width: 1, Height: 1}
			}
			size := orig.Size()

			if pos, ok := findSlot(b, orig.SectionID, l.ID, size, ""); ok {
				placements[l.ID] = placementAt(orig.SectionID, pos, size)
				continue
			}
			if hasFallback && fallback.ID != orig.SectionID {
				if pos, ok := findSlot(b, fallback.ID, l.ID, size, ""); ok {
					placements[l.ID] = placementAt(fallback.ID, pos, size)
					continue
				}
			}
			return nil, boardFull(l.ID)
		}
		dup.Placements = placements

		next := b.Clone()
		next.Items = append(next.Items, dup)
		return next, nil
	}
}

// DuplicateItem uses the default engine.
func DuplicateItem(in DuplicateItemInput) Transform { return defaultEngine.DuplicateItem(in) }

// =============================================================================
// Move
// =============================================================================

// MoveItemToSection rewrites the item's placement for in.LayoutID only. The
// destination is trusted unless the engine uses strict moves. An unknown
// item or layout is a no-op in lenient mode.
func (e *Engine) MoveItemToSection(in MoveItemInput) Transform {
	return func(b *board.Board) (*board.Board, error) {
		i, ok := b.FindItem(in.ItemID)
		if !ok {
			return b, nil
		}
		if _, ok := b.Layout(in.LayoutID); !ok {
			if e.strictMoves {
				return nil, errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q", in.LayoutID)
			}
			return b, nil
		}

		dest := board.Placement{
			SectionID: in.SectionID,
			XOffset:   in.XOffset,
			YOffset:   in.YOffset,
			Width:     in.Width,
			Height:    in.Height,
		}
		if e.strictMoves {
			if err := checkDestination(b, in.ItemID, in.LayoutID, dest); err != nil {
				return nil, err
			}
		}

		next := b.Clone()
		item := &next.Items[i]
		if item.Placements == nil {
			item.Placements = make(map[string]board.Placement, 1)
		}
		item.Placements[in.LayoutID] = dest
		return next, nil
	}
}

// MoveItemToSection uses the default engine.
func MoveItemToSection(in MoveItemInput) Transform { return defaultEngine.MoveItemToSection(in) }

func checkDestination(b *board.Board, itemID, layoutID string, dest board.Placement) error {
	columns, rows, ok := b.Bounds(dest.SectionID, layoutID)
	if !ok {
		return errors.New(errors.ErrCodeSectionNotFound, "section %q not found", dest.SectionID)
	}
	r := dest.Rect()
	if r.XOffset < 0 || r.YOffset < 0 || r.Width < 1 || r.Height < 1 ||
		r.Right() > columns || (rows > 0 && r.Bottom() > rows) {
		return errors.New(errors.ErrCodeOverlap, "rectangle %+v does not fit section %q", r, dest.SectionID)
	}
	for _, other := range b.ElementsInExcept(dest.SectionID, layoutID, itemID) {
		if r.Overlaps(other) {
			return errors.New(errors.ErrCodeOverlap, "rectangle %+v overlaps %+v in section %q", r, other, dest.SectionID)
		}
	}
	return nil
}

// =============================================================================
// Remove and setters
// =============================================================================

// RemoveItem drops an item. Removing a missing ID is a no-op.
func RemoveItem(in RemoveItemInput) Transform {
	return func(b *board.Board) (*board.Board, error) {
		i, ok := b.FindItem(in.ItemID)
		if !ok {
			return b, nil
		}
		next := b.Clone()
		next.Items = slices.Delete(next.Items, i, i+1)
		return next, nil
	}
}

// UpdateItemOptions replaces the widget options of an item.
func UpdateItemOptions(in UpdateItemOptionsInput) Transform {
	return updateItem(in.ItemID, func(it *board.Item) {
		it.Options = board.CloneOptions(in.Options)
		if it.Options == nil {
			it.Options = map[string]any{}
		}
	})
}

// UpdateItemAdvancedOptions replaces the advanced options of an item.
func UpdateItemAdvancedOptions(in UpdateItemAdvancedOptionsInput) Transform {
	return updateItem(in.ItemID, func(it *board.Item) {
		it.AdvancedOptions = in.AdvancedOptions.Clone()
		if it.AdvancedOptions.CustomCSSClasses == nil {
			it.AdvancedOptions.CustomCSSClasses = []string{}
		}
	})
}

// UpdateItemIntegrations replaces the integration references of an item.
func UpdateItemIntegrations(in UpdateItemIntegrationsInput) Transform {
	return updateItem(in.ItemID, func(it *board.Item) {
		it.IntegrationIDs = append([]string{}, in.IntegrationIDs...)
	})
}

func updateItem(id string, fn func(*board.Item)) Transform {
	return func(b *board.Board) (*board.Board, error) {
		i, ok := b.FindItem(id)
		if !ok {
			return b, nil
		}
		next := b.Clone()
		fn(&next.Items[i])
		return next, nil
	}
}

package board

import (
	"reflect"
	"testing"

	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
)

// sampleBoard has two layouts, a category at y=1 and a dynamic section in
// the leading empty section.
func sampleBoard() *Board {
	title := "Clock"
	return &Board{
		ID:   "b1",
		Name: "Home",
		Layouts: []Layout{
			{ID: "lg", Name: "large", ColumnCount: 4, Breakpoint: 1400},
			{ID: "sm", Name: "small", ColumnCount: 2, Breakpoint: 800},
		},
		Sections: []Section{
			{ID: "s0", Kind: KindEmpty, YOffset: 0},
			{ID: "c1", Kind: KindCategory, YOffset: 1, Name: "Media"},
			{ID: "s2", Kind: KindEmpty, YOffset: 2},
			{ID: "d1", Kind: KindDynamic, Placements: map[string]Placement{
				"lg": {SectionID: "s0", XOffset: 2, YOffset: 0, Width: 2, Height: 2},
				"sm": {SectionID: "s0", XOffset: 0, YOffset: 1, Width: 2, Height: 2},
			}},
		},
		Items: []Item{
			{
				ID:              "i1",
				Kind:            "clock",
				Options:         map[string]any{"format": "24h", "zones": []any{"UTC", map[string]any{"tz": "CET"}}},
				IntegrationIDs:  []string{},
				AdvancedOptions: AdvancedOptions{Title: &title, CustomCSSClasses: []string{"a"}},
				Placements: map[string]Placement{
					"lg": {SectionID: "s0", XOffset: 0, YOffset: 0, Width: 2, Height: 1},
					"sm": {SectionID: "s0", XOffset: 0, YOffset: 0, Width: 2, Height: 1},
				},
			},
			{
				ID:              "i2",
				Kind:            "weather",
				IntegrationIDs:  []string{"int-1"},
				AdvancedOptions: DefaultAdvancedOptions(),
				Placements: map[string]Placement{
					"lg": {SectionID: "d1", XOffset: 0, YOffset: 0, Width: 1, Height: 1},
					"sm": {SectionID: "c1", XOffset: 1, YOffset: 0, Width: 1, Height: 1},
				},
			},
		},
	}
}

func TestNew(t *testing.T) {
	b := New(NewSequenceGenerator("id"), "Home")
	if b.ID != "id-1" || b.Name != "Home" {
		t.Errorf("New() id/name = %q/%q", b.ID, b.Name)
	}
	if len(b.Layouts) != 1 || b.Layouts[0].ColumnCount != DefaultColumnCount {
		t.Errorf("New() layouts = %+v, want one default layout", b.Layouts)
	}
	if err := Validate(b); err != nil {
		t.Errorf("Validate(New()) = %v", err)
	}

	b = New(NewSequenceGenerator("id"), "Home", Layout{ID: "lg", ColumnCount: 8}, Layout{ColumnCount: 4})
	if got := b.LayoutIDs(); !reflect.DeepEqual(got, []string{"lg", "id-3"}) {
		t.Errorf("LayoutIDs() = %v", got)
	}
}

func TestLayout(t *testing.T) {
	b := sampleBoard()
	if l, ok := b.Layout("sm"); !ok || l.ColumnCount != 2 {
		t.Errorf("Layout(sm) = %+v, %v", l, ok)
	}
	if _, ok := b.Layout("xl"); ok {
		t.Errorf("Layout(xl) found, want missing")
	}
}

func TestFindAndFirstEmpty(t *testing.T) {
	b := sampleBoard()
	if i, ok := b.FindItem("i2"); !ok || i != 1 {
		t.Errorf("FindItem(i2) = %d, %v", i, ok)
	}
	if _, ok := b.FindItem("nope"); ok {
		t.Errorf("FindItem(nope) found")
	}
	if i, ok := b.FindSection("d1"); !ok || i != 3 {
		t.Errorf("FindSection(d1) = %d, %v", i, ok)
	}

	// Section order in the slice must not matter.
	b.Sections[0], b.Sections[2] = b.Sections[2], b.Sections[0]
	if s, ok := b.FirstEmptySection(); !ok || s.ID != "s0" {
		t.Errorf("FirstEmptySection() = %q, %v, want s0", s.ID, ok)
	}

	if _, ok := (&Board{}).FirstEmptySection(); ok {
		t.Errorf("FirstEmptySection() on empty board found a section")
	}
}

func TestPositionedSections(t *testing.T) {
	b := sampleBoard()
	b.Sections[0], b.Sections[2] = b.Sections[2], b.Sections[0]
	var ids []string
	for _, s := range b.PositionedSections() {
		ids = append(ids, s.ID)
	}
	if want := []string{"s0", "c1", "s2"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("PositionedSections() = %v, want %v", ids, want)
	}
}

func TestElementsIn(t *testing.T) {
	b := sampleBoard()
	tests := []struct {
		section, layout string
		want            []grid.Rect
	}{
		{"s0", "lg", []grid.Rect{{XOffset: 0, YOffset: 0, Width: 2, Height: 1}, {XOffset: 2, YOffset: 0, Width: 2, Height: 2}}},
		{"s0", "sm", []grid.Rect{{XOffset: 0, YOffset: 0, Width: 2, Height: 1}, {XOffset: 0, YOffset: 1, Width: 2, Height: 2}}},
		{"d1", "lg", []grid.Rect{{XOffset: 0, YOffset: 0, Width: 1, Height: 1}}},
		{"d1", "sm", nil},
		{"c1", "sm", []grid.Rect{{XOffset: 1, YOffset: 0, Width: 1, Height: 1}}},
	}
	for _, tt := range tests {
		if got := b.ElementsIn(tt.section, tt.layout); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ElementsIn(%s, %s) = %v, want %v", tt.section, tt.layout, got, tt.want)
		}
	}
	if got := b.ElementsInExcept("s0", "lg", "i1"); len(got) != 1 {
		t.Errorf("ElementsInExcept() = %v, want only the dynamic section", got)
	}
}

func TestBounds(t *testing.T) {
	b := sampleBoard()
	tests := []struct {
		section, layout string
		cols, rows      int
		ok              bool
	}{
		{"s0", "lg", 4, 0, true},
		{"c1", "sm", 2, 0, true},
		{"d1", "lg", 2, 2, true},
		{"d1", "xl", 0, 0, false},
		{"missing", "lg", 0, 0, false},
	}
	for _, tt := range tests {
		cols, rows, ok := b.Bounds(tt.section, tt.layout)
		if cols != tt.cols || rows != tt.rows || ok != tt.ok {
			t.Errorf("Bounds(%s, %s) = %d, %d, %v, want %d, %d, %v", tt.section, tt.layout, cols, rows, ok, tt.cols, tt.rows, tt.ok)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := sampleBoard()
	want := sampleBoard()
	c := orig.Clone()
	if !reflect.DeepEqual(c, orig) {
		t.Fatalf("Clone() differs from original")
	}

	c.Layouts[0].ColumnCount = 99
	c.Sections[3].Placements["lg"] = Placement{SectionID: "s2", Width: 1, Height: 1}
	c.Items[0].Options["format"] = "12h"
	c.Items[0].Options["zones"].([]any)[0] = "PST"
	c.Items[0].Options["zones"].([]any)[1].(map[string]any)["tz"] = "EST"
	*c.Items[0].AdvancedOptions.Title = "Changed"
	c.Items[0].AdvancedOptions.CustomCSSClasses[0] = "b"
	c.Items[1].IntegrationIDs[0] = "int-2"
	c.Items[1].Placements["lg"] = Placement{}

	if !reflect.DeepEqual(orig, want) {
		t.Errorf("modifying clone changed the original")
	}
}

func TestCloneNilValues(t *testing.T) {
	it := Item{ID: "x"}
	c := it.Clone()
	if c.Options != nil || c.IntegrationIDs != nil || c.Placements != nil {
		t.Errorf("Clone() of nil fields = %+v, want nil fields", c)
	}
	var b *Board
	if b.Clone() != nil {
		t.Errorf("nil Board Clone() != nil")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(sampleBoard()); err != nil {
		t.Fatalf("Validate(sampleBoard()) = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(b *Board)
		code   errors.Code
	}{
		{"nil layouts", func(b *Board) { b.Layouts = nil }, errors.ErrCodeInvalidLayout},
		{"zero columns", func(b *Board) { b.Layouts[1].ColumnCount = 0 }, errors.ErrCodeInvalidLayout},
		{"duplicate layout", func(b *Board) { b.Layouts[1].ID = "lg" }, errors.ErrCodeInvalidLayout},
		{"empty id", func(b *Board) { b.ID = "" }, errors.ErrCodeInvalidBoard},
		{"duplicate section", func(b *Board) { b.Sections[2].ID = "s0" }, errors.ErrCodeInvalidBoard},
		{"gap in y", func(b *Board) { b.Sections[2].YOffset = 5 }, errors.ErrCodeInvalidBoard},
		{"category first", func(b *Board) {
			b.Sections[0].YOffset, b.Sections[1].YOffset = 1, 0
		}, errors.ErrCodeInvalidBoard},
		{"category without trailing", func(b *Board) { b.Sections = b.Sections[:2] }, errors.ErrCodeInvalidBoard},
		{"nonzero x", func(b *Board) { b.Sections[2].XOffset = 1 }, errors.ErrCodeInvalidBoard},
		{"unknown kind", func(b *Board) { b.Sections[2].Kind = "grid" }, errors.ErrCodeInvalidBoard},
		{"missing placement", func(b *Board) { delete(b.Items[0].Placements, "sm") }, errors.ErrCodeInvalidBoard},
		{"extra placement", func(b *Board) {
			b.Items[0].Placements["xl"] = Placement{SectionID: "s2", Width: 1, Height: 1}
		}, errors.ErrCodeInvalidBoard},
		{"unknown section", func(b *Board) {
			p := b.Items[0].Placements["lg"]
			p.SectionID = "nope"
			b.Items[0].Placements["lg"] = p
		}, errors.ErrCodeInvalidBoard},
		{"zero width", func(b *Board) {
			p := b.Items[0].Placements["lg"]
			p.Width = 0
			b.Items[0].Placements["lg"] = p
		}, errors.ErrCodeInvalidBoard},
		{"exceeds columns", func(b *Board) {
			p := b.Items[0].Placements["sm"]
			p.XOffset = 1
			b.Items[0].Placements["sm"] = p
		}, errors.ErrCodeInvalidBoard},
		{"exceeds dynamic section", func(b *Board) {
			p := b.Items[1].Placements["lg"]
			p.YOffset = 2
			b.Items[1].Placements["lg"] = p
		}, errors.ErrCodeInvalidBoard},
		{"overlap", func(b *Board) {
			p := b.Items[0].Placements["lg"]
			p.Width = 3
			b.Items[0].Placements["lg"] = p
		}, errors.ErrCodeInvalidBoard},
		{"duplicate item", func(b *Board) { b.Items[1].ID = "i1" }, errors.ErrCodeInvalidBoard},
		{"dynamic cycle", func(b *Board) {
			b.Sections = append(b.Sections, Section{ID: "d2", Kind: KindDynamic, Placements: map[string]Placement{
				"lg": {SectionID: "d1", Width: 1, Height: 1},
				"sm": {SectionID: "s2", Width: 1, Height: 1},
			}})
			p := b.Sections[3].Placements["lg"]
			p.SectionID = "d2"
			p.XOffset, p.YOffset, p.Width, p.Height = 0, 0, 1, 1
			b.Sections[3].Placements["lg"] = p
			b.Items[1].Placements["lg"] = Placement{SectionID: "s2", Width: 1, Height: 1}
		}, errors.ErrCodeInvalidBoard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sampleBoard()
			tt.mutate(b)
			err := Validate(b)
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSequenceGenerator(t *testing.T) {
	g := NewSequenceGenerator("item")
	if got := g.NewID(); got != "item-1" {
		t.Errorf("NewID() = %q, want item-1", got)
	}
	if got := g.NewID(); got != "item-2" {
		t.Errorf("NewID() = %q, want item-2", got)
	}
	var gen UUIDGenerator
	if gen.NewID() == gen.NewID() {
		t.Errorf("UUIDGenerator produced duplicate ids")
	}
}

package render

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
)

// Options configures board diagram rendering.
type Options struct {
	// LayoutID selects the layout whose placements are drawn. Empty means
	// the board's first layout.
	LayoutID string

	// Detailed adds placements to edge labels and offsets to section labels.
	Detailed bool
}

// child is an item or dynamic section placed in a parent section.
type child struct {
	id        string
	label     string
	dynamic   bool
	placement board.Placement
}

// ToDOT converts a board to Graphviz DOT for one layout.
// It fails with INVALID_LAYOUT when the layout does not exist.
func ToDOT(b *board.Board, opts Options) (string, error) {
	if b == nil || len(b.Layouts) == 0 {
		return "", errors.New(errors.ErrCodeInvalidBoard, "board has no layouts")
	}
	layoutID := cmp.Or(opts.LayoutID, b.Layouts[0].ID)
	if _, ok := b.Layout(layoutID); !ok {
		return "", errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q", layoutID)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, shape=box3d, fillcolor=lightgrey];\n", b.ID, boardLabel(b))
	for _, s := range b.PositionedSections() {
		fmt.Fprintf(&buf, "  %q [%s];\n", s.ID, strings.Join(sectionAttrs(s, opts.Detailed), ", "))
		fmt.Fprintf(&buf, "  %q -> %q;\n", b.ID, s.ID)
	}

	children := childrenByParent(b, layoutID)
	parents := make([]string, 0, len(children))
	for id := range children {
		parents = append(parents, id)
	}
	slices.Sort(parents)

	buf.WriteString("\n")
	for _, parent := range parents {
		for _, c := range children[parent] {
			attrs := []string{fmt.Sprintf("label=%q", c.label)}
			if c.dynamic {
				attrs = append(attrs, "shape=folder", "style=filled", "fillcolor=lightyellow")
			}
			fmt.Fprintf(&buf, "  %q [%s];\n", c.id, strings.Join(attrs, ", "))
			if opts.Detailed {
				fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", parent, c.id, placementLabel(c.placement))
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", parent, c.id)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func boardLabel(b *board.Board) string {
	if b.Name == "" {
		return b.ID
	}
	return b.Name
}

func sectionAttrs(s board.Section, detailed bool) []string {
	label := "section"
	if s.IsCategory() {
		label = s.Name
		if s.Collapsed {
			label += " (collapsed)"
		}
	}
	if detailed {
		label += fmt.Sprintf("\ny: %d", s.YOffset)
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	if s.IsCategory() {
		attrs = append(attrs, "fillcolor=lightblue")
	} else {
		attrs = append(attrs, "style=\"rounded,dashed\"")
	}
	return attrs
}

func placementLabel(p board.Placement) string {
	return fmt.Sprintf("%d,%d %dx%d", p.XOffset, p.YOffset, p.Width, p.Height)
}

// childrenByParent groups the elements placed for layoutID by their parent
// section, each group in reading order.
func childrenByParent(b *board.Board, layoutID string) map[string][]child {
	out := make(map[string][]child)
	for _, s := range b.Sections {
		if p, ok := s.Placement(layoutID); ok && s.IsDynamic() {
			out[p.SectionID] = append(out[p.SectionID], child{id: s.ID, label: "dynamic", dynamic: true, placement: p})
		}
	}
	for _, it := range b.Items {
		if p, ok := it.Placement(layoutID); ok {
			out[p.SectionID] = append(out[p.SectionID], child{id: it.ID, label: itemLabel(it), placement: p})
		}
	}
	for _, cs := range out {
		slices.SortFunc(cs, func(a, b child) int {
			return cmp.Or(
				cmp.Compare(a.placement.YOffset, b.placement.YOffset),
				cmp.Compare(a.placement.XOffset, b.placement.XOffset),
				cmp.Compare(a.id, b.id),
			)
		})
	}
	return out
}

func itemLabel(it board.Item) string {
	if t := it.AdvancedOptions.Title; t != nil && *t != "" {
		return fmt.Sprintf("%s\n(%s)", *t, it.Kind)
	}
	return it.Kind
}

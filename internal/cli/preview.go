package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
)

const emptyCell = "·"

// previewElement is an item or dynamic section drawn into its parent's grid.
type previewElement struct {
	mark      string
	placement board.Placement
	label     string
}

// renderPreview draws every positioned section of b as a character grid for
// one layout. Each element gets a mark letter that fills its cells; a legend
// under each grid names the marks. An empty layoutID selects the first
// layout.
func renderPreview(b *board.Board, layoutID string) (string, error) {
	if len(b.Layouts) == 0 {
		return "", errors.New(errors.ErrCodeInvalidBoard, "board %s has no layouts", b.ID)
	}
	if layoutID == "" {
		layoutID = b.Layouts[0].ID
	}
	layout, ok := b.Layout(layoutID)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q", layoutID)
	}

	children := previewChildren(b, layoutID)

	var blocks []string
	blocks = append(blocks, StyleTitle.Render(b.Name)+" "+
		StyleDim.Render(fmt.Sprintf("v%d · %s · %d columns", b.Version, layout.Name, layout.ColumnCount)))

	for _, s := range b.PositionedSections() {
		header := StyleDim.Render("section")
		if s.IsCategory() {
			header = styleCategory.Render(s.Name)
			if s.Collapsed {
				header += StyleDim.Render(" (collapsed)")
			}
		}
		elems := children[s.ID]
		body := drawGrid(elems, layout.ColumnCount)
		if legend := drawLegend(elems); legend != "" {
			body += "\n" + legend
		}
		blocks = append(blocks, header+"\n"+styleSection.Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...), nil
}

// previewChildren groups the elements placed in layoutID by parent section
// and assigns marks in reading order.
func previewChildren(b *board.Board, layoutID string) map[string][]previewElement {
	byParent := map[string][]previewElement{}
	for _, it := range b.Items {
		p, ok := it.Placement(layoutID)
		if !ok {
			continue
		}
		label := it.Kind
		if it.AdvancedOptions.Title != nil && *it.AdvancedOptions.Title != "" {
			label = fmt.Sprintf("%s %s", it.Kind, StyleDim.Render(*it.AdvancedOptions.Title))
		}
		byParent[p.SectionID] = append(byParent[p.SectionID], previewElement{placement: p, label: label})
	}
	for _, s := range b.Sections {
		if !s.IsDynamic() {
			continue
		}
		p, ok := s.Placement(layoutID)
		if !ok {
			continue
		}
		label := StyleHighlight.Render("dynamic") + StyleDim.Render(fmt.Sprintf(" (%d inside)", countItemsIn(b, s.ID, layoutID)))
		byParent[p.SectionID] = append(byParent[p.SectionID], previewElement{placement: p, label: label})
	}

	next := 0
	for _, s := range b.PositionedSections() {
		elems := byParent[s.ID]
		slices.SortFunc(elems, func(p, q previewElement) int {
			return cmp.Or(cmp.Compare(p.placement.YOffset, q.placement.YOffset), cmp.Compare(p.placement.XOffset, q.placement.XOffset))
		})
		for i := range elems {
			elems[i].mark = markFor(next)
			next++
		}
	}
	return byParent
}

// countItemsIn returns how many items sit directly in sectionID.
func countItemsIn(b *board.Board, sectionID, layoutID string) int {
	n := 0
	for _, it := range b.Items {
		if p, ok := it.Placement(layoutID); ok && p.SectionID == sectionID {
			n++
		}
	}
	return n
}

// markFor returns A..Z, then a..z, then #.
func markFor(i int) string {
	switch {
	case i < 26:
		return string(rune('A' + i))
	case i < 52:
		return string(rune('a' + i - 26))
	default:
		return "#"
	}
}

func drawGrid(elems []previewElement, columns int) string {
	rows := 1
	for _, e := range elems {
		rows = max(rows, e.placement.YOffset+e.placement.Height)
	}

	cells := make([][]string, rows)
	for y := range cells {
		cells[y] = slices.Repeat([]string{StyleDim.Render(emptyCell)}, columns)
	}
	for _, e := range elems {
		p := e.placement
		for y := p.YOffset; y < p.YOffset+p.Height && y < rows; y++ {
			for x := p.XOffset; x < p.XOffset+p.Width && x < columns; x++ {
				cells[y][x] = StyleValue.Render(e.mark)
			}
		}
	}

	lines := make([]string, rows)
	for y, row := range cells {
		lines[y] = strings.Join(row, " ")
	}
	return strings.Join(lines, "\n")
}

func drawLegend(elems []previewElement) string {
	lines := make([]string, len(elems))
	for i, e := range elems {
		p := e.placement
		lines[i] = fmt.Sprintf("%s %s %s", StyleValue.Render(e.mark), e.label,
			StyleDim.Render(fmt.Sprintf("%dx%d at %d,%d", p.Width, p.Height, p.XOffset, p.YOffset)))
	}
	return strings.Join(lines, "\n")
}

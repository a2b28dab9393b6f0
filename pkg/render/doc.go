// Package render draws the structure of a board as a Graphviz diagram.
//
// # Overview
//
// A board diagram shows, for one layout, which element sits inside which
// section: the board at the top, its empty and category sections in
// reading order below it, and the items and dynamic sections placed in
// each section underneath.
//
//	dot, err := render.ToDOT(b, render.Options{LayoutID: "lg", Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// [ToPDF] and [ToPNG] convert the SVG with the external rsvg-convert tool.
//
// # Node Styles
//
//   - Category sections are filled light blue and labelled with their name
//   - Empty sections are dashed
//   - Dynamic sections use the folder shape
//   - Items are plain rounded boxes labelled with their widget kind
//
// With Detailed set, edge labels carry the placement as "x,y wxh".
package render

// Package board defines the dashboard data model: boards, layouts, sections
// and items, together with the lookups and invariant checks the layout
// operations build on.
//
// # Structure
//
// A [Board] owns an ordered list of [Layout] values, one per responsive
// breakpoint, plus its [Section] and [Item] collections. Sections come in
// three kinds:
//
//   - [KindEmpty]: an anonymous vertical region
//   - [KindCategory]: a named, collapsible region, always directly followed by
//     an empty section
//   - [KindDynamic]: a nested region placed inside another section
//
// Empty and category sections share one board-wide YOffset sequence 0..n-1.
// That sequence is the same for every layout. Dynamic sections and items are
// responsive instead: each carries one [Placement] per layout ID, and the
// placement names the section it sits in for that layout.
//
// # Ownership
//
// Boards are treated as immutable values once handed out. Code that needs a
// modified board calls [Board.Clone] (or the finer-grained clone helpers) and
// changes the copy. The ops package is the only writer in this repository.
//
// # Validation
//
// [Validate] checks every structural invariant, including non-overlap of
// elements inside each (section, layout) pair. It is meant for import
// boundaries and tests, not for every edit.
package board

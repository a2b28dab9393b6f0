// Package pkg provides the core libraries for gridboard dashboard boards.
//
// # Overview
//
// A board is a set of widgets (items) laid out on integer column grids. The
// board has one or more responsive layouts, and every item and dynamic
// section keeps one placement per layout. Widgets are grouped into a
// vertical stack of sections: plain empty sections and named categories
// alternate, and dynamic sections nest inside them like widgets do.
//
// The pkg directory is organized into four areas:
//
//  1. Model: [board] and [grid]
//  2. Editing: [ops] and [dispatch]
//  3. Persistence: [store], [cache] and [io]
//  4. Output and support: [render], [errors], [observability], [buildinfo]
//
// # Architecture
//
// An edit flows through the packages like this:
//
//	caller (CLI or HTTP API)
//	         ↓
//	    [ops] package (pure transform: board in, new board out)
//	         ↓
//	    [dispatch] package (per-board lock, version bump, events)
//	         ↓
//	    [store] package (memory, file, SQLite or MongoDB, optional cache)
//
// Transforms never modify their input. A transform that changes nothing
// returns its input unchanged, and the dispatcher neither saves nor bumps
// the version in that case.
//
// # Quick Start
//
//	s := store.NewMemoryStore()
//	d := dispatch.NewDispatcher(s)
//
//	b, _ := d.Create(ctx, board.New(nil, "Home"))
//	b, changed, err := d.Apply(ctx, b.ID, ops.CreateItem(ops.CreateItemInput{Kind: "clock"}))
//
// # Main Packages
//
// [board] - The data model: boards, layouts, sections, items and their
// placements, plus deep cloning and whole-board validation.
//
// [grid] - Rectangle geometry and the first-free-slot search used to place
// new elements.
//
// [ops] - Every board edit as a [ops.Transform]: items, categories, dynamic
// sections and layouts.
//
// [dispatch] - Serializes edits per board, stamps versions and publishes
// change events to subscribers.
//
// [store] - Board persistence with retry on transient errors and a
// read-through cache wrapper.
//
// [cache] - Byte caches (null, file, Redis) in front of a store.
//
// [io] - JSON backup export and import, optionally with fresh IDs.
//
// [render] - Graphviz diagrams of the section tree (DOT, SVG, PNG, PDF).
//
// [errors] - Coded errors and input validation shared by the CLI and API.
//
// [observability] - Hooks for logging edits, store calls and cache hits.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/ops/...      # Specific package
//
// [board]: https://pkg.go.dev/github.com/matzehuels/gridboard/pkg/board
// [grid]: https://pkg.go.dev/github.com/matzehuels/gridboard/pkg/grid
// [ops]: https://pkg.go.dev/github.com/matzehuels/gridboard/pkg/ops
// [dispatch]: https://pkg.go.dev/github.com/matzehuels/gridboard/pkg/dispatch
// [store]: https://pkg.go.dev/github.com/matzehuels/gridboard/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/gridboard/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/gridboard/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/gridboard/pkg/render
// [errors]: https://pkg.go.dev/github.com/matzehuels/gridboard/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/gridboard/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/gridboard/pkg/buildinfo
package pkg

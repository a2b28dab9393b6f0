// Package ops implements the board layout operations.
//
// Every operation is built in two steps: the caller first describes the
// intent with an input value, which yields a [Transform], and later applies
// that transform to a board snapshot:
//
//	t := ops.CreateItem(ops.CreateItemInput{Kind: "clock"})
//	next, err := t(current)
//
// The same transform can be applied to any number of snapshots, which lets a
// dispatcher replay an intent against the authoritative board.
//
// # Purity
//
// Transforms never modify the board they are given. When an operation
// changes something it returns a new board; when it has nothing to do (a
// missing ID, a category already at the top) it returns the input pointer
// unchanged. Callers can therefore detect no-ops with a pointer comparison.
//
// # Errors
//
// Placement failures surface as BOARD_FULL errors that wrap [ErrBoardFull].
// Missing IDs and structural surprises such as a category without a trailing
// empty section are no-ops, not errors.
//
// # Engine
//
// An [Engine] carries the ID generator and the move strictness. The
// package-level functions use a default engine with UUID identifiers and
// lenient moves.
package ops

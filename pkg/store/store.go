// Package store persists boards.
//
// Every backend implements [Store] and keeps whole board snapshots keyed by
// board ID:
//
//   - [MemoryStore]: process memory, for tests and the default server
//   - [FileStore]: one JSON file per board, for the CLI
//   - [SQLStore]: a SQLite database via modernc.org/sqlite
//   - [MongoStore]: a MongoDB collection
//
// [Cached] puts a [cache.Cache] in front of any backend, and [Open] builds
// the backend named in a [Config].
//
// Stores never interpret a board. They return a fresh decoded value on every
// Get, so callers may hand the result straight to an ops transform.
package store

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
)

// ErrNotFound is the cause of every BOARD_NOT_FOUND error returned by a
// store.
var ErrNotFound = errors.New(errors.ErrCodeBoardNotFound, "board not found")

// Summary describes a stored board without its content.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is the interface for board persistence backends.
type Store interface {
	// Get returns the board with the given ID, or an error wrapping
	// ErrNotFound.
	Get(ctx context.Context, id string) (*board.Board, error)

	// Save creates or replaces the board stored under b.ID.
	Save(ctx context.Context, b *board.Board) error

	// Delete removes a board. A missing board is reported as ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns the summaries of all boards ordered by name, then ID.
	List(ctx context.Context) ([]Summary, error)

	// Close releases resources held by the store.
	Close() error
}

func notFound(id string) error {
	return errors.Wrap(errors.ErrCodeBoardNotFound, ErrNotFound, "board %q not found", id)
}

func storageErr(err error, format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeStorage, err, format, args...)
}

func checkBoard(b *board.Board) error {
	if b == nil || b.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "board without ID cannot be stored")
	}
	return nil
}

func summaryOf(b *board.Board) Summary {
	return Summary{ID: b.ID, Name: b.Name, Version: b.Version, UpdatedAt: b.UpdatedAt}
}

func sortSummaries(s []Summary) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Name != s[j].Name {
			return s[i].Name < s[j].Name
		}
		return s[i].ID < s[j].ID
	})
}

func encode(b *board.Board) ([]byte, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, storageErr(err, "encode board %s", b.ID)
	}
	return data, nil
}

func decode(data []byte) (*board.Board, error) {
	var b board.Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, storageErr(err, "decode board")
	}
	return &b, nil
}

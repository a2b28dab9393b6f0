package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
)

// testBoard returns a small board with one item whose options exercise the
// JSON round trip.
func testBoard(id, name string) *board.Board {
	b := board.New(board.NewSequenceGenerator(id), name, board.Layout{ID: "lg", Name: "large", ColumnCount: 4})
	b.ID = id
	b.Version = 3
	b.UpdatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	title := "Uptime"
	b.Items = append(b.Items, board.Item{
		ID:   id + "-item",
		Kind: "clock",
		Options: map[string]any{
			"format": "24h",
			"zones":  []any{"UTC", "CET"},
			"size":   float64(2),
		},
		IntegrationIDs: []string{"int-1"},
		AdvancedOptions: board.AdvancedOptions{
			Title:            &title,
			CustomCSSClasses: []string{"wide"},
		},
		Placements: map[string]board.Placement{
			"lg": {SectionID: b.Sections[0].ID, Width: 2, Height: 1},
		},
	})
	return b
}

// runStoreContract checks the behaviour every backend shares.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "nope")
		require.ErrorIs(t, err, ErrNotFound)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("save and get", func(t *testing.T) {
		s := newStore(t)
		want := testBoard("b1", "Home")
		require.NoError(t, s.Save(ctx, want))

		got, err := s.Get(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("save replaces", func(t *testing.T) {
		s := newStore(t)
		b := testBoard("b1", "Home")
		require.NoError(t, s.Save(ctx, b))

		b.Name = "Renamed"
		b.Version = 4
		require.NoError(t, s.Save(ctx, b))

		got, err := s.Get(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, int64(4), got.Version)
	})

	t.Run("returned boards are independent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, testBoard("b1", "Home")))

		got, err := s.Get(ctx, "b1")
		require.NoError(t, err)
		got.Name = "changed"
		got.Items[0].Options["format"] = "12h"

		again, err := s.Get(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, "Home", again.Name)
		assert.Equal(t, "24h", again.Items[0].Options["format"])
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, testBoard("b1", "Home")))
		require.NoError(t, s.Delete(ctx, "b1"))

		_, err := s.Get(ctx, "b1")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "b1"), ErrNotFound)
	})

	t.Run("list sorted by name then id", func(t *testing.T) {
		s := newStore(t)
		for _, b := range []*board.Board{
			testBoard("b3", "Ops"),
			testBoard("b2", "Home"),
			testBoard("b1", "Ops"),
		} {
			require.NoError(t, s.Save(ctx, b))
		}

		got, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"b2", "b1", "b3"}, []string{got[0].ID, got[1].ID, got[2].ID})
		assert.Equal(t, Summary{
			ID:        "b2",
			Name:      "Home",
			Version:   3,
			UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}, got[0])
	})

	t.Run("list empty", func(t *testing.T) {
		s := newStore(t)
		got, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("rejects board without id", func(t *testing.T) {
		s := newStore(t)
		err := s.Save(ctx, &board.Board{Name: "anonymous"})
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
		assert.True(t, errors.Is(s.Save(ctx, nil), errors.ErrCodeInvalidInput))
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestFileStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		s, err := NewFileStore(t.TempDir())
		require.NoError(t, err)
		return s
	})
}

func TestFileStoreEscapesIDs(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	b := testBoard("team/ops", "Ops")
	require.NoError(t, s.Save(ctx, b))
	assert.FileExists(t, s.boardPath("team/ops"))
	assert.Equal(t, s.Dir(), filepath.Dir(s.boardPath("team/ops")))

	got, err := s.Get(ctx, "team/ops")
	require.NoError(t, err)
	assert.Equal(t, "team/ops", got.ID)
}

func TestFileStoreIgnoresForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, testBoard("b1", "Home")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0600))

	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		s, err := NewSQLStore(context.Background(), ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestSQLStoreOnDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "boards.db")

	s, err := NewSQLStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, testBoard("b1", "Home")))
	require.NoError(t, s.Close())

	reopened, err := NewSQLStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Home", got.Name)
}

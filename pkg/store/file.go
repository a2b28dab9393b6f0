package store

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/gridboard/pkg/board"
)

// FileStore is a file-based board store for CLI use.
// Each board is stored as <dir>/<escaped id>.json.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file-based store.
// If dir is empty, it defaults to ~/.config/gridboard/boards/.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "gridboard", "boards")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, storageErr(err, "create board dir")
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory the boards are stored in.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) boardPath(id string) string {
	return filepath.Join(s.dir, url.PathEscape(id)+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*board.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.boardPath(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr(err, "read board %s", id)
	}
	return decode(data)
}

// Save writes to a temporary file and renames it into place, so a reader
// never sees a partial board.
func (s *FileStore) Save(ctx context.Context, b *board.Board) error {
	if err := checkBoard(b); err != nil {
		return err
	}
	data, err := encode(b)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.boardPath(b.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return storageErr(err, "write board %s", b.ID)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return storageErr(err, "write board %s", b.ID)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.boardPath(id))
	if os.IsNotExist(err) {
		return notFound(id)
	}
	if err != nil {
		return storageErr(err, "remove board %s", id)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, storageErr(err, "read board dir")
	}

	out := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, storageErr(err, "read %s", entry.Name())
		}
		b, err := decode(data)
		if err != nil {
			return nil, err
		}
		out = append(out, summaryOf(b))
	}
	sortSummaries(out)
	return out, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)

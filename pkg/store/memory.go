package store

import (
	"context"
	"sync"

	"github.com/matzehuels/gridboard/pkg/board"
)

// MemoryStore keeps encoded boards in a map. Values are stored as JSON so a
// caller can never alias a stored board.
type MemoryStore struct {
	mu     sync.RWMutex
	boards map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{boards: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*board.Board, error) {
	s.mu.RLock()
	data, ok := s.boards[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	return decode(data)
}

func (s *MemoryStore) Save(ctx context.Context, b *board.Board) error {
	if err := checkBoard(b); err != nil {
		return err
	}
	data, err := encode(b)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.boards[b.ID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boards[id]; !ok {
		return notFound(id)
	}
	delete(s.boards, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.boards))
	for _, data := range s.boards {
		b, err := decode(data)
		if err != nil {
			return nil, err
		}
		out = append(out, summaryOf(b))
	}
	sortSummaries(out)
	return out, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

package dispatch

import (
	"context"
	"sync"

	"github.com/matzehuels/gridboard/pkg/observability"
)

// EventBuffer is the capacity of a subscription channel. Events for a
// subscriber whose buffer is full are dropped.
const EventBuffer = 16

// Event reports the outcome of a write to one board.
type Event struct {
	BoardID string `json:"boardId"`
	Version int64  `json:"version"`
	// Changed is false when the transform was a no-op.
	Changed bool `json:"changed"`
}

type subscription struct {
	ch   chan Event
	once sync.Once
}

func (s *subscription) close() { s.once.Do(func() { close(s.ch) }) }

type subscribers struct {
	mu     sync.Mutex
	next   int
	boards map[string]map[int]*subscription
}

func newSubscribers() *subscribers {
	return &subscribers{boards: make(map[string]map[int]*subscription)}
}

// Subscribe returns a channel that receives every event of boardID and a
// function that ends the subscription. The channel is closed when the
// subscription ends or the board is deleted.
func (d *Dispatcher) Subscribe(boardID string) (<-chan Event, func()) {
	s := d.subs
	sub := &subscription{ch: make(chan Event, EventBuffer)}

	s.mu.Lock()
	id := s.next
	s.next++
	if s.boards[boardID] == nil {
		s.boards[boardID] = make(map[int]*subscription)
	}
	s.boards[boardID][id] = sub
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if subs, ok := s.boards[boardID]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(s.boards, boardID)
			}
		}
		s.mu.Unlock()
		sub.close()
	}
	return sub.ch, cancel
}

func (d *Dispatcher) publish(ctx context.Context, ev Event) {
	s := d.subs
	s.mu.Lock()
	defer s.mu.Unlock()

	delivered := 0
	for _, sub := range s.boards[ev.BoardID] {
		select {
		case sub.ch <- ev:
			delivered++
		default:
			d.logger.Warn("subscriber too slow, dropping event", "board", ev.BoardID, "version", ev.Version)
		}
	}
	observability.Dispatch().OnPublish(ctx, ev.BoardID, ev.Version, delivered)
}

func (s *subscribers) closeBoard(boardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.boards[boardID] {
		sub.close()
	}
	delete(s.boards, boardID)
}

// Package dispatch applies layout transforms to stored boards.
//
// A [Dispatcher] owns the write path for boards: it loads the current
// snapshot, runs an [ops.Transform] on it, stores the result and notifies
// subscribers. Calls for the same board are serialized, calls for different
// boards run in parallel. Between processes the last write wins.
//
//	d := dispatch.NewDispatcher(store.NewMemoryStore())
//	b, changed, err := d.Apply(ctx, boardID, ops.CreateItem(ops.CreateItemInput{Kind: "clock"}))
//
// A transform that returns its input unchanged is a no-op: nothing is saved
// and the version stays the same.
//
// When the store is wrapped in a read cache, [Dispatcher.Get] may be served
// from the cache but updates always start from the store beneath it.
package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/observability"
	"github.com/matzehuels/gridboard/pkg/ops"
	"github.com/matzehuels/gridboard/pkg/store"
)

// Dispatcher serializes board updates and publishes their outcome.
type Dispatcher struct {
	store  store.Store
	source store.Store // store.Authoritative(store), read by updates
	logger *log.Logger
	now    func() time.Time
	retry  []store.RetryOption

	mu    sync.Mutex
	locks map[string]*boardLock

	subs *subscribers
}

type boardLock struct {
	mu   sync.Mutex
	refs int
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithClock sets the time source used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithRetry configures how store reads and writes are retried.
func WithRetry(opts ...store.RetryOption) Option {
	return func(d *Dispatcher) { d.retry = opts }
}

// NewDispatcher creates a dispatcher over s.
func NewDispatcher(s store.Store, opts ...Option) *Dispatcher {
	if s == nil {
		panic("dispatch.NewDispatcher: store is nil")
	}
	d := &Dispatcher{
		store:  s,
		source: store.Authoritative(s),
		now:    time.Now,
		locks:  make(map[string]*boardLock),
		subs:   newSubscribers(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = log.Default()
	}
	return d
}

// Store returns the underlying store for reads.
func (d *Dispatcher) Store() store.Store { return d.store }

// Get loads a board.
func (d *Dispatcher) Get(ctx context.Context, boardID string) (*board.Board, error) {
	return d.load(ctx, d.store, boardID)
}

// Apply runs t on the current snapshot of boardID. It returns the resulting
// board and whether it differs from the stored one. Transform errors are
// returned as-is and are never retried.
func (d *Dispatcher) Apply(ctx context.Context, boardID string, t ops.Transform) (*board.Board, bool, error) {
	unlock := d.lock(boardID)
	defer unlock()

	start := time.Now()
	b, changed, err := d.apply(ctx, boardID, t)
	observability.Dispatch().OnApply(ctx, boardID, changed, time.Since(start), err)
	if err != nil {
		d.logger.Debug("transform failed", "board", boardID, "code", errors.GetCode(err), "err", err)
		return nil, false, err
	}

	d.logger.Debug("transform applied", "board", boardID, "version", b.Version, "changed", changed)
	d.publish(ctx, Event{BoardID: boardID, Version: b.Version, Changed: changed})
	return b, changed, nil
}

func (d *Dispatcher) apply(ctx context.Context, boardID string, t ops.Transform) (*board.Board, bool, error) {
	cur, err := d.load(ctx, d.source, boardID)
	if err != nil {
		return nil, false, err
	}

	next, err := t(cur)
	if err != nil {
		return nil, false, err
	}
	if next == nil || next.ID != boardID {
		return nil, false, errors.New(errors.ErrCodeInternal, "transform returned a different board for %s", boardID)
	}
	if next == cur {
		return cur, false, nil
	}

	next.Version = cur.Version + 1
	next.UpdatedAt = d.now().UTC()
	if err := d.save(ctx, next); err != nil {
		return nil, false, err
	}
	return next, true, nil
}

// Create stores a new board at version 1. It fails with INVALID_INPUT if a
// board with the same ID exists.
func (d *Dispatcher) Create(ctx context.Context, b *board.Board) (*board.Board, error) {
	if err := board.Validate(b); err != nil {
		return nil, err
	}

	unlock := d.lock(b.ID)
	defer unlock()

	_, err := d.load(ctx, d.source, b.ID)
	switch {
	case err == nil:
		return nil, errors.New(errors.ErrCodeInvalidInput, "board %s already exists", b.ID)
	case !errors.Is(err, errors.ErrCodeBoardNotFound):
		return nil, err
	}

	created := b.Clone()
	created.Version = 1
	created.UpdatedAt = d.now().UTC()
	if err := d.save(ctx, created); err != nil {
		return nil, err
	}

	d.logger.Info("board created", "board", created.ID, "name", created.Name)
	d.publish(ctx, Event{BoardID: created.ID, Version: created.Version, Changed: true})
	return created, nil
}

// Delete removes a board and closes every subscription to it.
func (d *Dispatcher) Delete(ctx context.Context, boardID string) error {
	unlock := d.lock(boardID)
	defer unlock()

	err := store.RetryWithBackoff(ctx, func() error {
		return d.store.Delete(ctx, boardID)
	}, d.retry...)
	if err != nil {
		return err
	}

	d.logger.Info("board deleted", "board", boardID)
	d.subs.closeBoard(boardID)
	return nil
}

func (d *Dispatcher) load(ctx context.Context, s store.Store, boardID string) (*board.Board, error) {
	var b *board.Board
	err := store.RetryWithBackoff(ctx, func() error {
		var err error
		b, err = s.Get(ctx, boardID)
		return err
	}, d.retry...)
	return b, err
}

func (d *Dispatcher) save(ctx context.Context, b *board.Board) error {
	return store.RetryWithBackoff(ctx, func() error {
		return d.store.Save(ctx, b)
	}, d.retry...)
}

// lock acquires the mutex of one board and returns its release function.
// Entries are dropped once no caller holds or waits for them.
func (d *Dispatcher) lock(boardID string) func() {
	d.mu.Lock()
	l, ok := d.locks[boardID]
	if !ok {
		l = &boardLock{}
		d.locks[boardID] = l
	}
	l.refs++
	d.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		d.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(d.locks, boardID)
		}
		d.mu.Unlock()
	}
}

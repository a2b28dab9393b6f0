package store

import (
	"context"
	"time"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/observability"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string      // one of the Backend* names; empty means memory
	Path    string      // directory for file, database path for sqlite
	Mongo   MongoConfig // used by the mongo backend
}

// Open creates the configured backend wrapped with observability hooks.
func Open(ctx context.Context, cfg Config) (Store, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = BackendMemory
	}

	var (
		s   Store
		err error
	)
	switch backend {
	case BackendMemory:
		s = NewMemoryStore()
	case BackendFile:
		s, err = NewFileStore(cfg.Path)
	case BackendSQLite:
		path := cfg.Path
		if path == "" {
			path = "gridboard.db"
		}
		s, err = NewSQLStore(ctx, path)
	case BackendMongo:
		s, err = NewMongoStore(ctx, cfg.Mongo)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, backend), nil
}

// Instrument reports every Get and Save of s to the observability store
// hooks under the given backend name.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

type instrumented struct {
	Store
	backend string
}

func (s *instrumented) Get(ctx context.Context, id string) (*board.Board, error) {
	start := time.Now()
	b, err := s.Store.Get(ctx, id)
	observability.Store().OnLoad(ctx, s.backend, id, time.Since(start), err)
	return b, err
}

func (s *instrumented) Save(ctx context.Context, b *board.Board) error {
	start := time.Now()
	err := s.Store.Save(ctx, b)
	id := ""
	if b != nil {
		id = b.ID
	}
	observability.Store().OnSave(ctx, s.backend, id, time.Since(start), err)
	return err
}

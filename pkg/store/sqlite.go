package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/gridboard/pkg/board"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS boards (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	version INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL,
	data BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_boards_name ON boards(name, id);
`

// SQLStore keeps boards in a SQLite database. The board is stored as a JSON
// blob next to the columns List needs.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens the SQLite database at path and creates the schema.
// Use ":memory:" for a throwaway database.
func NewSQLStore(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageErr(err, "open database")
	}

	// A single connection serializes writers and keeps ":memory:" databases
	// from splitting across connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, storageErr(err, "configure database")
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, storageErr(err, "create schema")
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (*board.Board, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM boards WHERE id = ?`, id).Scan(&data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, sqlErr(err, "get board %s", id)
	}
	return decode(data)
}

func (s *SQLStore) Save(ctx context.Context, b *board.Board) error {
	if err := checkBoard(b); err != nil {
		return err
	}
	data, err := encode(b)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO boards (id, name, version, updated_at, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			version = excluded.version,
			updated_at = excluded.updated_at,
			data = excluded.data`,
		b.ID, b.Name, b.Version, b.UpdatedAt.UTC().Format(time.RFC3339Nano), data)
	if err != nil {
		return sqlErr(err, "save board %s", b.ID)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return sqlErr(err, "delete board %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return sqlErr(err, "delete board %s", id)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, version, updated_at FROM boards ORDER BY name, id`)
	if err != nil {
		return nil, sqlErr(err, "list boards")
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			updated string
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Version, &updated); err != nil {
			return nil, sqlErr(err, "scan board")
		}
		if sum.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, storageErr(err, "parse updated_at of board %s", sum.ID)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlErr(err, "list boards")
	}
	return out, nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// sqlErr wraps err as a storage error. A busy or locked database is marked
// retryable.
func sqlErr(err error, format string, args ...any) error {
	wrapped := storageErr(err, format, args...)
	msg := err.Error()
	if strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked") {
		return Retryable(wrapped)
	}
	return wrapped
}

var _ Store = (*SQLStore)(nil)

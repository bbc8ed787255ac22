// Package storage provides the SQLite databases scripts open through the
// sql extension. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Memory opens a private in-memory database.
const Memory = ":memory:"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: database is closed")

// Store is one open SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Result describes the effect of an Exec.
type Result struct {
	RowsAffected int64
	LastInsertID int64
}

// Rows is a fully read query result. Values are int64, float64, string,
// bool or nil; BLOBs and timestamps are returned as strings.
type Rows struct {
	Columns []string
	Values  [][]any
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed. Memory opens an in-memory
// database instead.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("storage: empty database path")
	}

	if dbPath != Memory {
		// Expand ~ to home directory
		if dbPath[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
			}
			dbPath = filepath.Join(home, dbPath[1:])
		}

		// Create parent directories
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	if dbPath == Memory {
		db.SetMaxOpenConns(1)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Path returns the resolved database path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection. Closing twice is a no-op.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Exec runs a statement that returns no rows.
func (s *Store) Exec(query string, args ...any) (Result, error) {
	if s.db == nil {
		return Result{}, ErrClosed
	}

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return Result{}, fmt.Errorf("storage: exec failed: %w", err)
	}

	var out Result
	// Not every statement reports these; missing values stay zero.
	out.RowsAffected, _ = res.RowsAffected()
	out.LastInsertID, _ = res.LastInsertId()
	return out, nil
}

// Query runs a statement and reads every row.
func (s *Store) Query(query string, args ...any) (Rows, error) {
	if s.db == nil {
		return Rows{}, ErrClosed
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return Rows{}, fmt.Errorf("storage: cannot query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Rows{}, fmt.Errorf("storage: cannot read columns: %w", err)
	}

	out := Rows{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Rows{}, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		for i, v := range vals {
			vals[i] = normalize(v)
		}
		out.Values = append(out.Values, vals)
	}

	if err := rows.Err(); err != nil {
		return Rows{}, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// Maps returns the rows keyed by column name.
func (r Rows) Maps() []map[string]any {
	out := make([]map[string]any, 0, len(r.Values))
	for _, vals := range r.Values {
		m := make(map[string]any, len(r.Columns))
		for i, c := range r.Columns {
			m[c] = vals[i]
		}
		out = append(out, m)
	}
	return out
}

func normalize(v any) any {
	switch v := v.(type) {
	case []byte:
		return string(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		return v
	}
}

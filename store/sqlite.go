package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite is a file-backed Store.
type SQLite struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = "efemaze.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		variant TEXT NOT NULL,
		generator TEXT NOT NULL,
		size INTEGER NOT NULL,
		steps INTEGER NOT NULL,
		status TEXT NOT NULL,
		path_json TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);`)
	return err
}

func (s *SQLite) Path() string { return s.path }

func (s *SQLite) Save(ctx context.Context, rec Record) error {
	path, err := encodePath(rec.Path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, seed, variant, generator, size, steps, status, path_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), int64(rec.Seed), rec.Variant, rec.Generator, rec.Size, rec.Steps, rec.Status,
		string(path), rec.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("store: save run %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLite) List(ctx context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seed, variant, generator, size, steps, status, path_json, created_at
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec     Record
			id      string
			seed    int64
			path    string
			created int64
		)
		if err := rows.Scan(&id, &seed, &rec.Variant, &rec.Generator, &rec.Size, &rec.Steps, &rec.Status, &path, &created); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("store: run id %q: %w", id, err)
		}
		if rec.Path, err = decodePath([]byte(path)); err != nil {
			return nil, err
		}
		rec.Seed = uint64(seed)
		rec.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

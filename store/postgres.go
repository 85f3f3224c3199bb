package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Store on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	s := &Postgres{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return s, nil
}

func (s *Postgres) initSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed BIGINT NOT NULL,
		variant TEXT NOT NULL,
		generator TEXT NOT NULL,
		size INTEGER NOT NULL,
		steps INTEGER NOT NULL,
		status TEXT NOT NULL,
		path JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);`)
	return err
}

func (s *Postgres) Save(ctx context.Context, rec Record) error {
	path, err := encodePath(rec.Path)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, seed, variant, generator, size, steps, status, path, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID.String(), int64(rec.Seed), rec.Variant, rec.Generator, rec.Size, rec.Steps, rec.Status,
		path, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: save run %s: %w", rec.ID, err)
	}
	return nil
}

func (s *Postgres) List(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, seed, variant, generator, size, steps, status, path, created_at
		 FROM runs ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec  Record
			id   string
			seed int64
			path []byte
		)
		if err := rows.Scan(&id, &seed, &rec.Variant, &rec.Generator, &rec.Size, &rec.Steps, &rec.Status, &path, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("store: run id %q: %w", id, err)
		}
		if rec.Path, err = decodePath(path); err != nil {
			return nil, err
		}
		rec.Seed = uint64(seed)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

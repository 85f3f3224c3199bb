// Package store keeps summaries of finished runs.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CodeStranger-Fred/efemaze/agent"
	"github.com/CodeStranger-Fred/efemaze/maze"
)

var ErrUnknownDriver = errors.New("store: unknown driver")

// Record is one finished run.
type Record struct {
	ID        uuid.UUID
	Seed      uint64
	Variant   string
	Generator string
	Size      int
	Steps     int
	Status    string
	Path      []maze.Position
	CreatedAt time.Time
}

func NewRecord(seed uint64, variant agent.Variant, generator string, size int, res *agent.Result) Record {
	return Record{
		ID:        uuid.New(),
		Seed:      seed,
		Variant:   string(variant),
		Generator: generator,
		Size:      size,
		Steps:     res.Steps,
		Status:    res.Status.String(),
		Path:      res.Path,
		CreatedAt: time.Now().UTC(),
	}
}

type Store interface {
	Save(ctx context.Context, rec Record) error
	// List returns the newest records first.
	List(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Open connects to driver "sqlite" (dsn is a file path) or "postgres".
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch driver {
	case "sqlite", "":
		s, err = OpenSQLite(dsn)
	case "postgres":
		s, err = OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func encodePath(p []maze.Position) ([]byte, error) {
	if p == nil {
		p = []maze.Position{}
	}
	return json.Marshal(p)
}

func decodePath(raw []byte) ([]maze.Position, error) {
	var p []maze.Position
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("store: decode path: %w", err)
	}
	return p, nil
}

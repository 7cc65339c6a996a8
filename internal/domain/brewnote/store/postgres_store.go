// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/ManuGH/brewlog/internal/domain/brewnote/note"
)

const (
	postgresDriver = "pgx"
	defaultDSN     = "postgres://localhost/brewlog?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// postgres float8 carries NaN and ±Inf natively, so only dates are encoded.
var postgresDialect = dialect{
	name:         "postgres",
	placeholder:  func(i int) string { return "$" + strconv.Itoa(i) },
	numberType:   "DOUBLE PRECISION",
	encode:       encodePostgres,
	columnsQuery: "SELECT column_name FROM information_schema.columns WHERE table_name = '" + tableName + "'",
}

func encodePostgres(v any) any {
	if t, ok := v.(time.Time); ok {
		return note.FormatTime(t)
	}
	return v
}

// PostgresStore is the NoteStore backed by Postgres through pgx.
type PostgresStore struct {
	sqlStore
}

// NewPostgresStore connects to dsn (defaultDSN when empty) and ensures the
// notes table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(postgresDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := &PostgresStore{sqlStore{db: db, d: postgresDialect}}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// DB exposes the underlying pool.
func (s *PostgresStore) DB() *sql.DB { return s.db }

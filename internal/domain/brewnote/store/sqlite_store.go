// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/note"
	"github.com/ManuGH/brewlog/internal/persistence/sqlite"
)

const sqliteSchemaVersion = 1

// sqliteDialect leaves numeric columns untyped: without affinity, values
// keep their storage class, so non-finite numbers written as text survive.
var sqliteDialect = dialect{
	name:         "sqlite",
	placeholder:  func(int) string { return "?" },
	numberType:   "",
	encode:       note.StorageValue,
	columnsQuery: "SELECT name FROM pragma_table_info('" + tableName + "')",
}

// SqliteStore is the NoteStore backed by a SQLite file.
type SqliteStore struct {
	sqlStore
	DB *sql.DB
}

// NewSqliteStore opens (creating if needed) the database at dbPath.
func NewSqliteStore(ctx context.Context, dbPath string) (*SqliteStore, error) {
	db, err := sqlite.Open(ctx, dbPath, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}
	s := &SqliteStore{sqlStore: sqlStore{db: db, d: sqliteDialect}, DB: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("note store: migration failed: %w", err)
	}
	return s, nil
}

func (s *SqliteStore) migrate(ctx context.Context) error {
	var current int
	if err := s.DB.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return err
	}
	// ensureSchema is idempotent and also adds columns of newer fields
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	if current >= sqliteSchemaVersion {
		return nil
	}
	_, err := s.DB.ExecContext(ctx, "PRAGMA user_version = "+strconv.Itoa(sqliteSchemaVersion))
	return err
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
)

const tableName = "brewnotes"

// dialect captures what differs between the SQL backends.
type dialect struct {
	name string
	// placeholder renders the i-th (1-based) bind parameter.
	placeholder func(i int) string
	// numberType is the declared type of numeric field columns.
	numberType string
	// encode converts a field value into a bind argument.
	encode func(v any) any
	// columnsQuery lists the existing columns of the notes table.
	columnsQuery string
}

// sqlStore is the NoteStore shared by SQLite and Postgres.
type sqlStore struct {
	db *sql.DB
	d  dialect
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func columnType(d dialect, f model.Field) string {
	if f.Kind() == model.KindNumber {
		return d.numberType
	}
	return "TEXT"
}

// ensureSchema creates the notes table and adds any field column missing
// from an older schema.
func (s *sqlStore) ensureSchema(ctx context.Context) error {
	defs := []string{
		quoteIdent("id") + " TEXT PRIMARY KEY",
		quoteIdent("recipe_id") + " TEXT NOT NULL DEFAULT ''",
	}
	for _, spec := range model.Fields {
		defs = append(defs, strings.TrimSpace(quoteIdent(spec.Column)+" "+columnType(s.d, spec.Field)))
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", tableName, strings.Join(defs, ",\n\t"))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("%s: create table: %w", s.d.name, err)
	}
	idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_brewnotes_recipe ON %s (%s)", tableName, quoteIdent("recipe_id"))
	if _, err := s.db.ExecContext(ctx, idx); err != nil {
		return fmt.Errorf("%s: create index: %w", s.d.name, err)
	}

	existing, err := s.existingColumns(ctx)
	if err != nil {
		return err
	}
	for _, spec := range model.Fields {
		if existing[spec.Column] {
			continue
		}
		alter := strings.TrimSpace(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
			tableName, quoteIdent(spec.Column), columnType(s.d, spec.Field)))
		if _, err := s.db.ExecContext(ctx, alter); err != nil {
			return fmt.Errorf("%s: add column %s: %w", s.d.name, spec.Column, err)
		}
	}
	return nil
}

func (s *sqlStore) existingColumns(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, s.d.columnsQuery)
	if err != nil {
		return nil, fmt.Errorf("%s: list columns: %w", s.d.name, err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}

func (s *sqlStore) Put(ctx context.Context, n StoredNote) error {
	if err := validateColumns(n.Row); err != nil {
		return err
	}
	cols := append([]string{"id", "recipe_id"}, columns()...)
	args := make([]any, 0, len(cols))
	args = append(args, n.ID, n.RecipeID)
	for _, col := range cols[2:] {
		v, ok := n.Row[col]
		if !ok {
			args = append(args, nil)
			continue
		}
		args = append(args, s.d.encode(v))
	}

	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	updates := make([]string, 0, len(cols)-1)
	for i, col := range cols {
		quoted[i] = quoteIdent(col)
		marks[i] = s.d.placeholder(i + 1)
		if col != "id" {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", quoted[i], quoted[i]))
		}
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		tableName, strings.Join(quoted, ", "), strings.Join(marks, ", "), quoteIdent("id"), strings.Join(updates, ", "))

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: put note %s: %w", s.d.name, n.ID, err)
	}
	return nil
}

func (s *sqlStore) selectColumns() string {
	cols := append([]string{"id", "recipe_id"}, columns()...)
	for i, col := range cols {
		cols[i] = quoteIdent(col)
	}
	return strings.Join(cols, ", ")
}

func (s *sqlStore) Get(ctx context.Context, id string) (StoredNote, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		s.selectColumns(), tableName, quoteIdent("id"), s.d.placeholder(1))
	notes, err := s.query(ctx, query, id)
	if err != nil {
		return StoredNote{}, err
	}
	if len(notes) == 0 {
		return StoredNote{}, ErrNotFound
	}
	return notes[0], nil
}

func (s *sqlStore) List(ctx context.Context) ([]StoredNote, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", s.selectColumns(), tableName, quoteIdent("id"))
	return s.query(ctx, query)
}

func (s *sqlStore) ListByRecipe(ctx context.Context, recipeID string) ([]StoredNote, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s ORDER BY %s",
		s.selectColumns(), tableName, quoteIdent("recipe_id"), s.d.placeholder(1), quoteIdent("id"))
	return s.query(ctx, query, recipeID)
}

func (s *sqlStore) query(ctx context.Context, query string, args ...any) ([]StoredNote, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query notes: %w", s.d.name, err)
	}
	defer func() { _ = rows.Close() }()

	cols := columns()
	var out []StoredNote
	for rows.Next() {
		var id, recipeID string
		values := make([]any, len(cols))
		dest := make([]any, 0, len(cols)+2)
		dest = append(dest, &id, &recipeID)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s: scan note: %w", s.d.name, err)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if values[i] != nil {
				row[col] = values[i]
			}
		}
		out = append(out, StoredNote{ID: id, RecipeID: recipeID, Row: row})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate notes: %w", s.d.name, err)
	}
	return out, nil
}

func (s *sqlStore) UpdateColumns(ctx context.Context, id string, cols map[string]any) error {
	if err := validateColumns(cols); err != nil {
		return err
	}
	if len(cols) == 0 {
		_, err := s.Get(ctx, id)
		return err
	}

	// declaration order keeps the statement text stable
	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	for _, col := range columns() {
		v, ok := cols[col]
		if !ok {
			continue
		}
		args = append(args, s.d.encode(v))
		sets = append(sets, fmt.Sprintf("%s = %s", quoteIdent(col), s.d.placeholder(len(args))))
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		tableName, strings.Join(sets, ", "), quoteIdent("id"), s.d.placeholder(len(args)))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: update note %s: %w", s.d.name, id, err)
	}
	return requireAffected(res)
}

func (s *sqlStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", tableName, quoteIdent("id"), s.d.placeholder(1))
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: delete note %s: %w", s.d.name, id, err)
	}
	return requireAffected(res)
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

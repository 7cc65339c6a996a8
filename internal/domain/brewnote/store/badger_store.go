// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/note"
)

const badgerPrefix = "brewnote/"

// badgerRecord is the JSON value stored under brewnote/<id>.
type badgerRecord struct {
	ID       string         `json:"id"`
	RecipeID string         `json:"recipeId"`
	Row      map[string]any `json:"row"`
}

// BadgerStore keeps notes as JSON values in a Badger key-value store.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens the Badger directory at path. An empty path opens
// an in-memory instance.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error { return s.db.Close() }

func badgerKey(id string) []byte { return []byte(badgerPrefix + id) }

func encodeRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = note.StorageValue(v)
	}
	return out
}

func (s *BadgerStore) Put(_ context.Context, n StoredNote) error {
	if err := validateColumns(n.Row); err != nil {
		return err
	}
	buf, err := json.Marshal(badgerRecord{ID: n.ID, RecipeID: n.RecipeID, Row: encodeRow(n.Row)})
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(n.ID), buf)
	})
}

func readRecord(item *badger.Item) (StoredNote, error) {
	var rec badgerRecord
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	}); err != nil {
		return StoredNote{}, err
	}
	if rec.Row == nil {
		rec.Row = map[string]any{}
	}
	return StoredNote{ID: rec.ID, RecipeID: rec.RecipeID, Row: rec.Row}, nil
}

func (s *BadgerStore) Get(_ context.Context, id string) (StoredNote, error) {
	var out StoredNote
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(id))
		if err != nil {
			return err
		}
		out, err = readRecord(item)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return StoredNote{}, ErrNotFound
	}
	return out, err
}

func (s *BadgerStore) List(_ context.Context) ([]StoredNote, error) {
	return s.scan(func(StoredNote) bool { return true })
}

func (s *BadgerStore) ListByRecipe(_ context.Context, recipeID string) ([]StoredNote, error) {
	return s.scan(func(n StoredNote) bool { return n.RecipeID == recipeID })
}

func (s *BadgerStore) scan(keep func(StoredNote) bool) ([]StoredNote, error) {
	var out []StoredNote
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n, err := readRecord(it.Item())
			if err != nil {
				return err
			}
			if keep(n) {
				out = append(out, n)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortNotes(out)
	return out, nil
}

func (s *BadgerStore) UpdateColumns(_ context.Context, id string, cols map[string]any) error {
	if err := validateColumns(cols); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(id))
		if err != nil {
			return err
		}
		n, err := readRecord(item)
		if err != nil {
			return err
		}
		for col, v := range encodeRow(cols) {
			n.Row[col] = v
		}
		buf, err := json.Marshal(badgerRecord{ID: n.ID, RecipeID: n.RecipeID, Row: n.Row})
		if err != nil {
			return err
		}
		return txn.Set(badgerKey(id), buf)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *BadgerStore) Delete(_ context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(badgerKey(id)); err != nil {
			return err
		}
		return txn.Delete(badgerKey(id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

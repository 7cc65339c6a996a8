// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
)

const recipeKeyPrefix = "recipe:"

// Recipes stores recipe snapshots as JSON in a Cache, keyed by recipe id.
type Recipes struct {
	c   Cache
	ttl time.Duration
}

// NewRecipes wraps c. A nil c disables caching.
func NewRecipes(c Cache, ttl time.Duration) *Recipes {
	if c == nil {
		c = NoOp{}
	}
	return &Recipes{c: c, ttl: ttl}
}

// Put stores rec under rec.ID. Recipes without an id are not cached.
func (r *Recipes) Put(ctx context.Context, rec *model.Recipe) {
	if rec == nil || rec.ID == "" {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	r.c.Set(ctx, recipeKeyPrefix+rec.ID, data, r.ttl)
}

// Get returns the cached snapshot of recipe id.
func (r *Recipes) Get(ctx context.Context, id string) (*model.Recipe, bool) {
	data, ok := r.c.Get(ctx, recipeKeyPrefix+id)
	if !ok {
		return nil, false
	}
	var rec model.Recipe
	if err := json.Unmarshal(data, &rec); err != nil {
		r.c.Delete(ctx, recipeKeyPrefix+id)
		return nil, false
	}
	return &rec, true
}

// Forget drops recipe id.
func (r *Recipes) Forget(ctx context.Context, id string) {
	r.c.Delete(ctx, recipeKeyPrefix+id)
}

// Stats exposes the counters of the underlying cache.
func (r *Recipes) Stats() Stats {
	return r.c.Stats()
}

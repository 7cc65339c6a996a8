// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	defer c.Close()

	c.Set(ctx, "key1", []byte("value1"), 5*time.Minute)

	val, ok := c.Get(ctx, "key1")
	require.True(t, ok, "expected to find key1")
	assert.Equal(t, []byte("value1"), val)

	_, ok = c.Get(ctx, "nonexistent")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.Equal(t, 1, stats.CurrentSize)
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	defer c.Close()

	in := []byte("abc")
	c.Set(ctx, "k", in, 0)
	in[0] = 'x'

	out, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "abc", string(out))
}

func TestMemoryCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	defer c.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "shortlived", []byte("v"), time.Minute)
	c.Set(ctx, "forever", []byte("v"), 0)
	_, ok := c.Get(ctx, "shortlived")
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx, "shortlived")
	assert.False(t, ok, "expected key to be expired")
	_, ok = c.Get(ctx, "forever")
	assert.True(t, ok)

	assert.Equal(t, 1, c.deleteExpired())
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	defer c.Close()

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)
	c.Delete(ctx, "a")
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)

	c.Clear(ctx)
	assert.Equal(t, 0, c.Stats().CurrentSize)
}

func TestMemoryCache_JanitorStops(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(5 * time.Millisecond)
	c.Set(ctx, "gone", []byte("v"), time.Millisecond)

	assert.Eventually(t, func() bool {
		return c.Stats().CurrentSize == 0
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "Close is idempotent")
}

func TestNoOp(t *testing.T) {
	ctx := context.Background()
	var c Cache = NoOp{}
	c.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, Stats{}, c.Stats())
}

func TestRecipes_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryCache(0)
	defer mem.Close()
	r := NewRecipes(mem, time.Minute)

	rec := &model.Recipe{
		ID:        "pale",
		BoilSizeL: 25,
		OG:        1.052,
		Points:    model.TotalPoints{SugarKg: 4.5},
		Mash:      &model.Mash{Steps: []model.MashStep{{InfuseTempC: 68, StepTempC: 66}}},
		Yeasts:    []model.Yeast{{Name: "US-05", AttenuationPct: 78}},
	}
	r.Put(ctx, rec)

	got, ok := r.Get(ctx, "pale")
	require.True(t, ok)
	assert.Equal(t, rec, got)

	r.Forget(ctx, "pale")
	_, ok = r.Get(ctx, "pale")
	assert.False(t, ok)
}

func TestRecipes_SkipsAnonymousAndCorrupt(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryCache(0)
	defer mem.Close()
	r := NewRecipes(mem, time.Minute)

	r.Put(ctx, &model.Recipe{Name: "no id"})
	assert.Equal(t, 0, mem.Stats().CurrentSize)

	mem.Set(ctx, recipeKeyPrefix+"bad", []byte("{"), 0)
	_, ok := r.Get(ctx, "bad")
	assert.False(t, ok)
	assert.Equal(t, 0, mem.Stats().CurrentSize, "corrupt entry is dropped")
}

func TestRecipes_NilCache(t *testing.T) {
	r := NewRecipes(nil, time.Minute)
	r.Put(context.Background(), &model.Recipe{ID: "x"})
	_, ok := r.Get(context.Background(), "x")
	assert.False(t, ok)
}

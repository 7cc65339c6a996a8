// Copyright (c) 2025 ManuGH

package manager

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/brewlog/internal/cache"
	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
	"github.com/ManuGH/brewlog/internal/domain/brewnote/note"
	"github.com/ManuGH/brewlog/internal/domain/brewnote/store"
	"github.com/ManuGH/brewlog/internal/units"
)

func recipe() *model.Recipe {
	return &model.Recipe{
		ID:           "pale",
		Name:         "Pale",
		BoilSizeL:    25,
		FinalVolumeL: 20,
		BoilGrav:     1.048,
		BoilTimeMin:  60,
		OG:           1.052,
		FG:           1.010,
		PrimaryTempC: 19,
		Points:       model.TotalPoints{SugarKg: 4.5},
		Mash:         &model.Mash{Steps: []model.MashStep{{InfuseTempC: 72, StepTempC: 66}}},
		Yeasts:       []model.Yeast{{AttenuationPct: 77}},
	}
}

func newManager(t *testing.T, opts ...Option) (*Manager, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	fixed := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	opts = append([]Option{WithClock(func() time.Time { return fixed })}, opts...)
	return New(s, opts...), s
}

func TestManager_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	m, s := newManager(t)

	r, err := m.Create(ctx, recipe())
	require.NoError(t, err)
	require.NotEmpty(t, r.ID())

	stored, err := s.Get(ctx, r.ID())
	require.NoError(t, err)
	assert.Equal(t, "pale", stored.RecipeID)

	got, err := m.Get(ctx, r.ID())
	require.NoError(t, err)
	if diff := cmp.Diff(r.Snapshot(), got.Snapshot()); diff != "" {
		t.Errorf("reloaded note differs (-created +loaded):\n%s", diff)
	}
	assert.Equal(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), got.BrewDate())
	assert.False(t, got.Loading())

	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Create(ctx, nil)
	assert.ErrorIs(t, err, ErrRecipeUnknown)
}

func TestManager_SetCascadesAndPersists(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	r, err := m.Create(ctx, recipe())
	require.NoError(t, err)

	changes, err := m.Set(ctx, r.ID(), "fg", "1.008")
	require.NoError(t, err)
	fields := make([]model.Field, 0, len(changes))
	for _, c := range changes {
		fields = append(fields, c.Field)
	}
	assert.Equal(t, []model.Field{model.FieldFg, model.FieldABV, model.FieldAttenuation}, fields)

	got, err := m.Get(ctx, r.ID())
	require.NoError(t, err)
	assert.Equal(t, 1.008, got.Fg())
	assert.InDelta(t, (1.052-1.008)*130, got.ABV(), 1e-9)

	// column names and tags resolve too
	_, err = m.Set(ctx, r.ID(), "volume_into_fermenter", 19.5)
	require.NoError(t, err)
	_, err = m.Set(ctx, r.ID(), "NOTES", "Café lager")
	require.NoError(t, err)
	got, err = m.Get(ctx, r.ID())
	require.NoError(t, err)
	assert.Equal(t, 19.5, got.VolumeIntoFerm())
	assert.Equal(t, "Café lager", got.Notes(), "free text is NFC normalised")
}

func TestManager_SetProjectedPointsConverts(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	r, err := m.Create(ctx, recipe())
	require.NoError(t, err)

	_, err = m.Set(ctx, r.ID(), "projPoints", 5.0)
	require.NoError(t, err)
	got, err := m.Get(ctx, r.ID())
	require.NoError(t, err)
	assert.InDelta(t, units.ExtractToPoints(5, 25), got.ProjPoints(), 1e-12)
}

func TestManager_SetErrors(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	r, err := m.Create(ctx, recipe())
	require.NoError(t, err)

	_, err = m.Set(ctx, r.ID(), "colour", 12.0)
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = m.Set(ctx, r.ID(), "og", "heavy")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = m.Set(ctx, r.ID(), "og", "")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = m.Set(ctx, "missing", "og", 1.05)
	assert.ErrorIs(t, err, ErrNotFound)
}

type failingStore struct {
	*store.MemoryStore
}

func (failingStore) UpdateColumns(context.Context, string, map[string]any) error {
	return errors.New("disk full")
}

func TestManager_SetReportsFlushFailure(t *testing.T) {
	ctx := context.Background()
	fs := failingStore{store.NewMemoryStore()}
	m := New(fs)
	r, err := m.Create(ctx, recipe())
	require.NoError(t, err)

	_, err = m.Set(ctx, r.ID(), "og", 1.06)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestManager_ConcurrentSetsStayConsistent(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	r, err := m.Create(ctx, recipe())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := m.Set(ctx, r.ID(), "og", 1.040+float64(i)/1000)
			assert.NoError(t, err)
		}(i)
		go func(i int) {
			defer wg.Done()
			_, err := m.Set(ctx, r.ID(), "fg", 1.005+float64(i)/1000)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := m.Get(ctx, r.ID())
	require.NoError(t, err)
	n := got.Snapshot()
	assert.InDelta(t, (n.Og-n.Fg)*130, n.ABV, 1e-9)
	assert.InDelta(t, (n.Og-n.Fg)/(n.Og-1)*100, n.Attenuation, 1e-9)
}

func TestManager_RecalculateEffUsesCachedRecipe(t *testing.T) {
	ctx := context.Background()
	recipes := cache.NewRecipes(cache.NewMemoryCache(0), time.Hour)
	m, _ := newManager(t, WithRecipes(recipes))
	r, err := m.Create(ctx, recipe())
	require.NoError(t, err)

	changes, err := m.RecalculateEff(ctx, r.ID(), nil)
	require.NoError(t, err)
	require.Len(t, changes, 4)

	updated := recipe()
	updated.Points.SugarKg = 5
	_, err = m.RecalculateEff(ctx, r.ID(), updated)
	require.NoError(t, err)
	got, err := m.Get(ctx, r.ID())
	require.NoError(t, err)
	assert.InDelta(t, units.ExtractToPoints(5, 25), got.ProjPoints(), 1e-12)

	cached, ok := recipes.Get(ctx, "pale")
	require.True(t, ok)
	assert.Equal(t, 5.0, cached.Points.SugarKg, "explicit snapshot refreshes the cache")
}

func TestManager_RecalculateEffWithoutRecipe(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	r, err := m.Create(ctx, recipe())
	require.NoError(t, err)

	_, err = m.RecalculateEff(ctx, r.ID(), nil)
	assert.ErrorIs(t, err, ErrRecipeUnknown)
}

func TestManager_ListSortedByBrewDate(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	for i, day := range []int{20, 3, 11} {
		r := note.New(string(rune('a'+i)), "pale")
		r.SetBrewDate(time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC), true)
		require.NoError(t, s.Put(ctx, store.StoredNote{ID: r.ID(), RecipeID: "pale", Row: r.Row()}))
	}
	m := New(s)

	notes, err := m.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.ID())
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids)

	byRecipe, err := m.ListByRecipe(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, byRecipe)
}

func TestManager_Delete(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	r, err := m.Create(ctx, recipe())
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, r.ID()))
	assert.ErrorIs(t, m.Delete(ctx, r.ID()), ErrNotFound)
	_, err = m.Get(ctx, r.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveField(t *testing.T) {
	for _, name := range []string{"volumeIntoBK_l", "volume_into_bk"} {
		f, err := ResolveField(name)
		require.NoError(t, err, name)
		assert.Equal(t, model.FieldVolumeIntoBK, f)
	}
	_, err := ResolveField("")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestDiffers(t *testing.T) {
	a := model.BrewNote{EffIntoBK: math.NaN()}
	b := model.BrewNote{EffIntoBK: math.NaN()}
	changes := []model.Change{{Field: model.FieldEffIntoBK}}
	assert.False(t, differs(a, b, changes))
	b.EffIntoBK = 70
	assert.True(t, differs(a, b, changes))
}

type blockingStore struct {
	store.NoteStore
	entered chan struct{}
	release chan struct{}
}

func (s *blockingStore) Get(ctx context.Context, id string) (store.StoredNote, error) {
	select {
	case s.entered <- struct{}{}:
	default:
	}
	select {
	case <-s.release:
	case <-ctx.Done():
		return store.StoredNote{}, ctx.Err()
	}
	return s.NoteStore.Get(ctx, id)
}

func TestManager_GetSharedReadSurvivesCancel(t *testing.T) {
	ctx := context.Background()
	m, s := newManager(t)
	r, err := m.Create(ctx, recipe())
	require.NoError(t, err)

	bs := &blockingStore{NoteStore: s, entered: make(chan struct{}, 1), release: make(chan struct{})}
	m.store = bs

	firstCtx, cancel := context.WithCancel(ctx)
	firstDone := make(chan error, 1)
	go func() {
		_, err := m.Get(firstCtx, r.ID())
		firstDone <- err
	}()
	<-bs.entered

	secondDone := make(chan error, 1)
	go func() {
		_, err := m.Get(ctx, r.ID())
		secondDone <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)
	close(bs.release)

	assert.NoError(t, <-secondDone, "a joined caller is not failed by the first caller's cancel")
	assert.NoError(t, <-firstDone)
}

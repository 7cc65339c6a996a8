// Copyright (c) 2025 ManuGH

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/manager"
	"github.com/ManuGH/brewlog/internal/domain/brewnote/store"
)

const recipeJSON = `{
	"id": "pale",
	"name": "Pale",
	"boilSize_l": 25,
	"finalVolume_l": 20,
	"boilGrav": 1.048,
	"boilTime_min": 60,
	"og": 1.052,
	"fg": 1.010,
	"primaryTemp_c": 19,
	"points": {"sugar_kg": 4.5},
	"yeasts": [{"attenuation_pct": 77}]
}`

const recipeYAML = `
id: pale
name: Pale
boilSize_l: 25
finalVolume_l: 20
boilGrav: 1.048
og: 1.052
fg: 1.010
points:
  sugar_kg: 4.5
`

func newTestServer(t *testing.T, cfg Config) (*Server, *manager.Manager) {
	t.Helper()
	mgr := manager.New(store.NewMemoryStore())
	return New(mgr, cfg, nil), mgr
}

func do(t *testing.T, h http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createNote(t *testing.T, h http.Handler) noteResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/notes", "application/json", recipeJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var n noteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &n))
	return n
}

func TestAPI_CreateGetList(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	n := createNote(t, s)
	assert.Equal(t, "pale", n.RecipeID)
	assert.Equal(t, 1.052, n.Fields["og"])
	assert.Contains(t, n.Readings, "ogPlato")

	rec := do(t, s, http.MethodGet, "/api/v1/notes/"+n.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got noteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, n.ID, got.ID)

	rec = do(t, s, http.MethodGet, "/api/v1/notes?recipe=pale", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []noteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = do(t, s, http.MethodGet, "/api/v1/notes?recipe=stout", "", "")
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestAPI_CreateFromYAML(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	rec := do(t, s, http.MethodPost, "/api/v1/notes", "application/yaml", recipeYAML)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Location"))
}

func TestAPI_CreateRejectsBadBodies(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/v1/notes", "application/json", `{"id":`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/v1/notes", "application/json", `{"id":"x","hops":3}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/v1/notes", "application/json", `{"name":"no id"}`).Code)
}

func TestAPI_SetField(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	n := createNote(t, s)

	rec := do(t, s, http.MethodPatch, "/api/v1/notes/"+n.ID, "application/json", `{"field":"fg","value":1.008}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Changes []changeResponse `json:"changes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	cols := make([]string, 0, len(body.Changes))
	for _, c := range body.Changes {
		cols = append(cols, c.Column)
	}
	assert.Equal(t, []string{"fg", "abv", "attenuation"}, cols)

	assert.Equal(t, http.StatusBadRequest,
		do(t, s, http.MethodPatch, "/api/v1/notes/"+n.ID, "application/json", `{"field":"colour","value":1}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(t, s, http.MethodPatch, "/api/v1/notes/"+n.ID, "application/json", `{"field":"og","value":"thick"}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(t, s, http.MethodPatch, "/api/v1/notes/"+n.ID, "application/json", `{"value":1}`).Code)
	assert.Equal(t, http.StatusNotFound,
		do(t, s, http.MethodPatch, "/api/v1/notes/missing", "application/json", `{"field":"og","value":1.05}`).Code)
}

func TestAPI_NonFiniteEncodedAsStrings(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	n := createNote(t, s)

	// a projected fermenter volume of zero makes brewhouse efficiency divide by zero
	rec := do(t, s, http.MethodPatch, "/api/v1/notes/"+n.ID, "application/json", `{"field":"projVolIntoFerm_l","value":0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, s, http.MethodPatch, "/api/v1/notes/"+n.ID, "application/json", `{"field":"volumeIntoFerm_l","value":20}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"+Inf"`)

	rec = do(t, s, http.MethodGet, "/api/v1/notes/"+n.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got noteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "+Inf", got.Fields["brewhouseEff_pct"])
}

func TestAPI_RecalculateEff(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	n := createNote(t, s)

	// no cached recipe in the default manager
	rec := do(t, s, http.MethodPost, "/api/v1/notes/"+n.ID+"/recalculate-eff", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/v1/notes/"+n.ID+"/recalculate-eff", "application/json", recipeJSON)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "projected_points")
}

func TestAPI_Delete(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	n := createNote(t, s)

	assert.Equal(t, http.StatusNoContent, do(t, s, http.MethodDelete, "/api/v1/notes/"+n.ID, "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodDelete, "/api/v1/notes/"+n.ID, "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/v1/notes/"+n.ID, "", "").Code)
}

func TestAPI_HealthAndMetrics(t *testing.T) {
	mgr := manager.New(store.NewMemoryStore())
	healthy := true
	s := New(mgr, Config{}, func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("store unreachable")
	})

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/healthz", "", "").Code)
	healthy = false
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/healthz", "", "").Code)

	do(t, s, http.MethodGet, "/api/v1/notes", "", "")
	rec := do(t, s, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "brewlog_http_requests_total")

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/nope", "", "").Code)
}

func TestAPI_RateLimited(t *testing.T) {
	s, _ := newTestServer(t, Config{RateLimit: 1})
	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/notes", bytes.NewReader(nil))
		req.RemoteAddr = "192.0.2.7:4000"
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oasdiff/yaml"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
	"github.com/ManuGH/brewlog/internal/domain/brewnote/note"
	xglog "github.com/ManuGH/brewlog/internal/log"
)

// noteResponse is a note on the wire. Fields are keyed by property name;
// non-finite numbers are the strings "NaN", "+Inf" and "-Inf".
type noteResponse struct {
	ID       string         `json:"id"`
	RecipeID string         `json:"recipeId"`
	Fields   map[string]any `json:"fields"`
	Readings map[string]any `json:"readings"`
}

type changeResponse struct {
	Field  string `json:"field"`
	Column string `json:"column"`
	Value  any    `json:"value"`
}

type setFieldRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

func encodeValue(v any) any {
	return note.StorageValue(v)
}

func toNoteResponse(r *note.Record) noteResponse {
	snap := r.Snapshot()
	fields := make(map[string]any, len(model.Fields))
	for _, spec := range model.Fields {
		fields[spec.Property] = encodeValue(snap.Value(spec.Field))
	}
	rd := r.Readings()
	return noteResponse{
		ID:       r.ID(),
		RecipeID: r.RecipeID(),
		Fields:   fields,
		Readings: map[string]any{
			"ogPlato":             note.FormatNumber(rd.OGPlato),
			"fgPlato":             note.FormatNumber(rd.FGPlato),
			"kettlePlato":         note.FormatNumber(rd.KettlePlato),
			"projKettlePlato":     note.FormatNumber(rd.ProjKettlePlato),
			"apparentExtract_pct": note.FormatNumber(rd.ApparentExtract),
		},
	}
}

func toChangeResponses(changes []model.Change) []changeResponse {
	out := make([]changeResponse, 0, len(changes))
	for _, c := range changes {
		out = append(out, changeResponse{Field: c.Field.String(), Column: c.Field.Column(), Value: encodeValue(c.Value)})
	}
	return out
}

// decodeBody reads a JSON body, or a YAML body when the content type says
// so. YAML is converted to JSON first so both honour the json tags.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if isYAML(r.Header.Get("Content-Type")) {
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("parse body: %w", err)
	}
	return nil
}

func isYAML(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return true
	}
	return false
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := errStatus(err)
	if code >= http.StatusInternalServerError {
		xglog.WithContext(r.Context(), s.logger).Error().Err(err).
			Str(xglog.FieldEvent, "api.request_failed").
			Msg("request failed")
		writeError(w, code, "internal error")
		return
	}
	writeError(w, code, err.Error())
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	var (
		notes []*note.Record
		err   error
	)
	if recipeID := r.URL.Query().Get("recipe"); recipeID != "" {
		notes, err = s.mgr.ListByRecipe(r.Context(), recipeID)
	} else {
		notes, err = s.mgr.List(r.Context())
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var rec model.Recipe
	if err := s.decodeBody(w, r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if rec.ID == "" {
		writeError(w, http.StatusBadRequest, "recipe id is required")
		return
	}
	n, err := s.mgr.Create(r.Context(), &rec)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/notes/"+n.ID())
	writeJSON(w, http.StatusCreated, toNoteResponse(n))
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	n, err := s.mgr.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(n))
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	var req setFieldRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Field == "" {
		writeError(w, http.StatusBadRequest, "field is required")
		return
	}
	id := chi.URLParam(r, "id")
	ctx := xglog.ContextWithNoteID(r.Context(), id)
	changes, err := s.mgr.Set(ctx, id, req.Field, req.Value)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"changes": toChangeResponses(changes)})
}

func (s *Server) handleRecalculateEff(w http.ResponseWriter, r *http.Request) {
	var rec *model.Recipe
	if r.ContentLength != 0 {
		rec = &model.Recipe{}
		if err := s.decodeBody(w, r, rec); err != nil {
			if !errors.Is(err, io.EOF) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			rec = nil
		}
	}
	changes, err := s.mgr.RecalculateEff(r.Context(), chi.URLParam(r, "id"), rec)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"changes": toChangeResponses(changes)})
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.mgr.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

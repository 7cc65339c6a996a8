// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package note

import (
	"time"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
)

// Typed accessors. Every setter stores the value. Outside loading mode it
// also hands the value to the sink unless cacheOnly is set, then runs the
// field's cascade.
// SetProjPoints and SetProjFermPoints take extract mass in kg outside loading
// mode and stored points inside it.

func (r *Record) BrewDate() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.BrewDate
}

func (r *Record) SetBrewDate(v time.Time, cacheOnly bool) []model.Change {
	return r.set(model.FieldBrewDate, v, cacheOnly)
}

func (r *Record) FermentDate() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.FermentDate
}

func (r *Record) SetFermentDate(v time.Time, cacheOnly bool) []model.Change {
	return r.set(model.FieldFermentDate, v, cacheOnly)
}

func (r *Record) Notes() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.Notes
}

func (r *Record) SetNotes(v string, cacheOnly bool) []model.Change {
	return r.set(model.FieldNotes, v, cacheOnly)
}

func (r *Record) Sg() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.Sg
}

func (r *Record) SetSg(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldSg, v, cacheOnly)
}

func (r *Record) VolumeIntoBK() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.VolumeIntoBK
}

func (r *Record) SetVolumeIntoBK(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldVolumeIntoBK, v, cacheOnly)
}

func (r *Record) StrikeTemp() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.StrikeTemp
}

func (r *Record) SetStrikeTemp(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldStrikeTemp, v, cacheOnly)
}

func (r *Record) MashFinTemp() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.MashFinTemp
}

func (r *Record) SetMashFinTemp(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldMashFinTemp, v, cacheOnly)
}

func (r *Record) Og() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.Og
}

func (r *Record) SetOg(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldOg, v, cacheOnly)
}

func (r *Record) PostBoilVolume() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.PostBoilVolume
}

func (r *Record) SetPostBoilVolume(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldPostBoilVolume, v, cacheOnly)
}

func (r *Record) VolumeIntoFerm() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.VolumeIntoFerm
}

func (r *Record) SetVolumeIntoFerm(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldVolumeIntoFerm, v, cacheOnly)
}

func (r *Record) PitchTemp() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.PitchTemp
}

func (r *Record) SetPitchTemp(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldPitchTemp, v, cacheOnly)
}

func (r *Record) Fg() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.Fg
}

func (r *Record) SetFg(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldFg, v, cacheOnly)
}

func (r *Record) FinalVolume() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.FinalVolume
}

func (r *Record) SetFinalVolume(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldFinalVolume, v, cacheOnly)
}

func (r *Record) BoilOff() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.BoilOff
}

func (r *Record) SetBoilOff(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldBoilOff, v, cacheOnly)
}

func (r *Record) EffIntoBK() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.EffIntoBK
}

func (r *Record) SetEffIntoBK(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldEffIntoBK, v, cacheOnly)
}

func (r *Record) BrewhouseEff() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.BrewhouseEff
}

func (r *Record) SetBrewhouseEff(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldBrewhouseEff, v, cacheOnly)
}

func (r *Record) ABV() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.ABV
}

func (r *Record) SetABV(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldABV, v, cacheOnly)
}

func (r *Record) Attenuation() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.Attenuation
}

func (r *Record) SetAttenuation(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldAttenuation, v, cacheOnly)
}

func (r *Record) ProjBoilGrav() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.ProjBoilGrav
}

func (r *Record) SetProjBoilGrav(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldProjBoilGrav, v, cacheOnly)
}

func (r *Record) ProjVolIntoBK() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.ProjVolIntoBK
}

func (r *Record) SetProjVolIntoBK(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldProjVolIntoBK, v, cacheOnly)
}

func (r *Record) ProjStrikeTemp() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.ProjStrikeTemp
}

func (r *Record) SetProjStrikeTemp(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldProjStrikeTemp, v, cacheOnly)
}

func (r *Record) ProjMashFinTemp() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.ProjMashFinTemp
}

func (r *Record) SetProjMashFinTemp(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldProjMashFinTemp, v, cacheOnly)
}

func (r *Record) ProjOg() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.ProjOg
}

func (r *Record) SetProjOg(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldProjOg, v, cacheOnly)
}

func (r *Record) ProjVolIntoFerm() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.ProjVolIntoFerm
}

func (r *Record) SetProjVolIntoFerm(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldProjVolIntoFerm, v, cacheOnly)
}

func (r *Record) ProjFg() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.ProjFg
}

func (r *Record) SetProjFg(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldProjFg, v, cacheOnly)
}

func (r *Record) ProjEff() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.ProjEff
}

func (r *Record) SetProjEff(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldProjEff, v, cacheOnly)
}

func (r *Record) ProjABV() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.ProjABV
}

func (r *Record) SetProjABV(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldProjABV, v, cacheOnly)
}

func (r *Record) ProjPoints() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.ProjPoints
}

func (r *Record) SetProjPoints(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldProjPoints, v, cacheOnly)
}

func (r *Record) ProjFermPoints() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.ProjFermPoints
}

func (r *Record) SetProjFermPoints(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldProjFermPoints, v, cacheOnly)
}

func (r *Record) ProjAtten() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.ProjAtten
}

func (r *Record) SetProjAtten(v float64, cacheOnly bool) []model.Change {
	return r.set(model.FieldProjAtten, v, cacheOnly)
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package calc holds the derived-quantity formulas of a brew note and the
// static graph that decides which of them run after a field changes.
package calc

import (
	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
	"github.com/ManuGH/brewlog/internal/units"
)

// ABVFactor converts a gravity drop into % ABV.
const ABVFactor = 130.0

// Formula derives one numeric field from the current note.
// Compute reports ok=false when the inputs are degenerate and the target
// must be left untouched.
type Formula struct {
	Name     string
	Target   model.Field
	Triggers []model.Field
	Compute  func(n *model.BrewNote) (v float64, ok bool)
}

// Formulas in evaluation order. The trigger lists are the cascade table of
// the record setters; a formula may read more fields than it is triggered by.
var Formulas = []Formula{
	{
		Name:     "eff_into_bk",
		Target:   model.FieldEffIntoBK,
		Triggers: []model.Field{model.FieldSg, model.FieldVolumeIntoBK},
		Compute:  EffIntoBK,
	},
	{
		Name:     "projected_og",
		Target:   model.FieldProjOg,
		Triggers: []model.Field{model.FieldSg, model.FieldVolumeIntoBK},
		Compute:  ProjectedOG,
	},
	{
		Name:     "brewhouse_eff",
		Target:   model.FieldBrewhouseEff,
		Triggers: []model.Field{model.FieldVolumeIntoBK, model.FieldOg, model.FieldVolumeIntoFerm},
		Compute:  BrewhouseEff,
	},
	{
		Name:     "projected_abv",
		Target:   model.FieldProjABV,
		Triggers: []model.Field{model.FieldOg},
		Compute:  ProjectedABV,
	},
	{
		Name:     "actual_abv",
		Target:   model.FieldABV,
		Triggers: []model.Field{model.FieldOg, model.FieldFg},
		Compute:  ActualABV,
	},
	{
		Name:     "attenuation",
		Target:   model.FieldAttenuation,
		Triggers: []model.Field{model.FieldOg, model.FieldFg},
		Compute:  Attenuation,
	},
}

// Default is the graph built from Formulas.
var Default = MustGraph(Formulas)

// EffIntoBK is the share of the projected points that reached the kettle.
// maxPoints <= 0 happens on freshly created or loaded notes and yields 0.
func EffIntoBK(n *model.BrewNote) (float64, bool) {
	maxPoints := n.ProjPoints * n.ProjVolIntoBK
	actualPoints := units.GravityToPoints(n.Sg) * n.VolumeIntoBK
	if maxPoints <= 0.0 {
		return 0.0, false
	}
	return actualPoints / maxPoints * 100, true
}

// ProjectedOG scales the measured boil gravity by the ratio of actual to
// expected post-boil volume.
func ProjectedOG(n *model.BrewNote) (float64, bool) {
	expectedVol := n.ProjVolIntoBK - n.BoilOff
	if expectedVol <= 0.0 {
		return 0.0, false
	}
	points := units.GravityToPoints(n.Sg)
	return 1 + (points*n.VolumeIntoBK/expectedVol)/1000, true
}

// BrewhouseEff is the share of the projected fermenter points that reached
// the fermenter. expectedPoints <= 0 is not guarded: the non-finite result
// is stored as historical notes have it.
func BrewhouseEff(n *model.BrewNote) (float64, bool) {
	expectedPoints := n.ProjFermPoints * n.ProjVolIntoFerm
	actualPoints := units.GravityToPoints(n.Og) * n.VolumeIntoFerm
	return actualPoints / expectedPoints * 100.0, true
}

// ProjectedABV estimates ABV from the measured OG and the expected FG at the
// projected attenuation.
func ProjectedABV(n *model.BrewNote) (float64, bool) {
	estFg := 1 + (n.Og-1.0)*(1.0-n.ProjAtten/100.0)
	return (n.Og - estFg) * ABVFactor, true
}

// ActualABV is (og - fg) * 130.
func ActualABV(n *model.BrewNote) (float64, bool) {
	return (n.Og - n.Fg) * ABVFactor, true
}

// Attenuation is the apparent attenuation from OG and FG. og == 1 divides
// by zero and the non-finite result is kept.
func Attenuation(n *model.BrewNote) (float64, bool) {
	return (n.Og - n.Fg) / (n.Og - 1) * 100, true
}

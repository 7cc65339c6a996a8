// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package note

import (
	"github.com/ManuGH/brewlog/internal/domain/brewnote/calc"
	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
)

// Populate seeds the record from a recipe snapshot and returns every stored
// change in order.
//
// The order matters: volumes come first because the points conversion and
// every efficiency formula read them; the mash final temperature set from the
// first step is overridden by the second-to-last step when the mash has three
// or more steps.
func (r *Record) Populate(rec *model.Recipe) []model.Change {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changes []model.Change
	set := func(f model.Field, v any) {
		c, _ := r.setLocked(f, v, false)
		changes = append(changes, c...)
	}

	set(model.FieldProjVolIntoBK, rec.BoilSizeL)
	set(model.FieldVolumeIntoBK, rec.BoilSizeL)
	set(model.FieldPostBoilVolume, rec.PostBoilVolumeL)
	set(model.FieldProjVolIntoFerm, rec.FinalVolumeL)
	set(model.FieldVolumeIntoFerm, rec.FinalVolumeL)
	set(model.FieldFinalVolume, rec.FinalVolumeL)

	if boilOff, ok := rec.BoilOffL(); ok {
		set(model.FieldBoilOff, boilOff)
	}

	set(model.FieldProjPoints, rec.Points.Total())
	set(model.FieldProjFermPoints, rec.Points.Total())

	set(model.FieldSg, rec.BoilGrav)
	set(model.FieldProjBoilGrav, rec.BoilGrav)

	if rec.Mash != nil && len(rec.Mash.Steps) > 0 {
		steps := rec.Mash.Steps
		first := steps[0]
		set(model.FieldStrikeTemp, first.InfuseTempC)
		set(model.FieldProjStrikeTemp, first.InfuseTempC)
		set(model.FieldMashFinTemp, first.FinalTempC())
		set(model.FieldProjMashFinTemp, first.FinalTempC())

		if len(steps) > 2 {
			// end temperature as recorded, no step temperature fallback
			last := steps[len(steps)-2]
			set(model.FieldMashFinTemp, last.EndTempC)
			set(model.FieldProjMashFinTemp, last.EndTempC)
		}
	}

	set(model.FieldOg, rec.OG)
	set(model.FieldProjOg, rec.OG)

	set(model.FieldPitchTemp, rec.PrimaryTempC)

	set(model.FieldFg, rec.FG)
	set(model.FieldProjFg, rec.FG)

	set(model.FieldProjEff, rec.EfficiencyPct)
	set(model.FieldProjABV, rec.ABVPct)

	set(model.FieldProjAtten, rec.MaxAttenuationPct())
	return changes
}

// RecalculateEff recomputes the projected points from the recipe's current
// point breakdown and re-runs efficiency into boil and brewhouse efficiency.
// It repairs notes saved while the efficiency formulas were wrong and is
// idempotent.
func (r *Record) RecalculateEff(rec *model.Recipe) []model.Change {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changes []model.Change
	for _, f := range []model.Field{model.FieldProjPoints, model.FieldProjFermPoints} {
		c, _ := r.setLocked(f, rec.Points.Total(), false)
		changes = append(changes, c...)
	}
	for _, fm := range calc.Formulas {
		if fm.Target != model.FieldEffIntoBK && fm.Target != model.FieldBrewhouseEff {
			continue
		}
		if c, ok := r.recompute(fm); ok {
			changes = append(changes, c)
		}
	}
	return changes
}

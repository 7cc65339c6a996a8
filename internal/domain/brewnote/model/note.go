// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import (
	"fmt"
	"sort"
	"time"
)

// BrewNote is the stored state of one brewing session of a recipe.
// Zero times mean "not set". Volumes are litres, temperatures °C.
type BrewNote struct {
	ID       string `json:"id"`
	RecipeID string `json:"recipeId,omitempty"`

	BrewDate    time.Time `json:"brewDate"`
	FermentDate time.Time `json:"fermentDate"`
	Notes       string    `json:"notes"`

	Sg             float64 `json:"sg"`
	VolumeIntoBK   float64 `json:"volumeIntoBK_l"`
	StrikeTemp     float64 `json:"strikeTemp_c"`
	MashFinTemp    float64 `json:"mashFinTemp_c"`
	Og             float64 `json:"og"`
	PostBoilVolume float64 `json:"postBoilVolume_l"`
	VolumeIntoFerm float64 `json:"volumeIntoFerm_l"`
	PitchTemp      float64 `json:"pitchTemp_c"`
	Fg             float64 `json:"fg"`
	FinalVolume    float64 `json:"finalVolume_l"`
	BoilOff        float64 `json:"boilOff_l"`

	EffIntoBK    float64 `json:"effIntoBK_pct"`
	BrewhouseEff float64 `json:"brewhouseEff_pct"`
	ABV          float64 `json:"abv"`
	Attenuation  float64 `json:"attenuation"`

	ProjBoilGrav    float64 `json:"projBoilGrav"`
	ProjVolIntoBK   float64 `json:"projVolIntoBK_l"`
	ProjStrikeTemp  float64 `json:"projStrikeTemp_c"`
	ProjMashFinTemp float64 `json:"projMashFinTemp_c"`
	ProjOg          float64 `json:"projOg"`
	ProjVolIntoFerm float64 `json:"projVolIntoFerm_l"`
	ProjFg          float64 `json:"projFg"`
	ProjEff         float64 `json:"projEff_pct"`
	ProjABV         float64 `json:"projABV_pct"`
	ProjPoints      float64 `json:"projPoints"`
	ProjFermPoints  float64 `json:"projFermPoints"`
	ProjAtten       float64 `json:"projAtten"`
}

func (n *BrewNote) num(f Field) *float64 {
	switch f {
	case FieldSg:
		return &n.Sg
	case FieldVolumeIntoBK:
		return &n.VolumeIntoBK
	case FieldStrikeTemp:
		return &n.StrikeTemp
	case FieldMashFinTemp:
		return &n.MashFinTemp
	case FieldOg:
		return &n.Og
	case FieldPostBoilVolume:
		return &n.PostBoilVolume
	case FieldVolumeIntoFerm:
		return &n.VolumeIntoFerm
	case FieldPitchTemp:
		return &n.PitchTemp
	case FieldFg:
		return &n.Fg
	case FieldFinalVolume:
		return &n.FinalVolume
	case FieldBoilOff:
		return &n.BoilOff
	case FieldEffIntoBK:
		return &n.EffIntoBK
	case FieldBrewhouseEff:
		return &n.BrewhouseEff
	case FieldABV:
		return &n.ABV
	case FieldAttenuation:
		return &n.Attenuation
	case FieldProjBoilGrav:
		return &n.ProjBoilGrav
	case FieldProjVolIntoBK:
		return &n.ProjVolIntoBK
	case FieldProjStrikeTemp:
		return &n.ProjStrikeTemp
	case FieldProjMashFinTemp:
		return &n.ProjMashFinTemp
	case FieldProjOg:
		return &n.ProjOg
	case FieldProjVolIntoFerm:
		return &n.ProjVolIntoFerm
	case FieldProjFg:
		return &n.ProjFg
	case FieldProjEff:
		return &n.ProjEff
	case FieldProjABV:
		return &n.ProjABV
	case FieldProjPoints:
		return &n.ProjPoints
	case FieldProjFermPoints:
		return &n.ProjFermPoints
	case FieldProjAtten:
		return &n.ProjAtten
	}
	return nil
}

// Num returns the value of a numeric field, or 0 for any other field.
func (n *BrewNote) Num(f Field) float64 {
	if p := n.num(f); p != nil {
		return *p
	}
	return 0
}

// SetNum stores v in a numeric field. It reports false for non-numeric fields.
func (n *BrewNote) SetNum(f Field, v float64) bool {
	p := n.num(f)
	if p == nil {
		return false
	}
	*p = v
	return true
}

// Value returns the current value of f as float64, time.Time or string.
func (n *BrewNote) Value(f Field) any {
	switch f {
	case FieldBrewDate:
		return n.BrewDate
	case FieldFermentDate:
		return n.FermentDate
	case FieldNotes:
		return n.Notes
	}
	return n.Num(f)
}

// SetValue stores v in f. The dynamic type of v must match the field kind.
func (n *BrewNote) SetValue(f Field, v any) error {
	switch f.Kind() {
	case KindTime:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("field %s: want time.Time, got %T", f, v)
		}
		if f == FieldBrewDate {
			n.BrewDate = t
		} else {
			n.FermentDate = t
		}
	case KindText:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("field %s: want string, got %T", f, v)
		}
		n.Notes = s
	default:
		x, ok := v.(float64)
		if !ok {
			return fmt.Errorf("field %s: want float64, got %T", f, v)
		}
		if !n.SetNum(f, x) {
			return fmt.Errorf("unknown field %d", int(f))
		}
	}
	return nil
}

// Change is one stored (field, value) pair produced by a mutation.
type Change struct {
	Field Field
	Value any
}

func (c Change) String() string {
	return fmt.Sprintf("%s=%v", c.Field, c.Value)
}

// ByBrewDate sorts notes oldest brew first.
func ByBrewDate(notes []*BrewNote) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].BrewDate.Before(notes[j].BrewDate)
	})
}

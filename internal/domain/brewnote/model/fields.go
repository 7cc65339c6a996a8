// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import "fmt"

// Field identifies one stored value of a brew note.
type Field int

const (
	FieldBrewDate Field = iota
	FieldFermentDate
	FieldNotes

	// Measured
	FieldSg
	FieldVolumeIntoBK
	FieldStrikeTemp
	FieldMashFinTemp
	FieldOg
	FieldPostBoilVolume
	FieldVolumeIntoFerm
	FieldPitchTemp
	FieldFg
	FieldFinalVolume
	FieldBoilOff

	// Computed
	FieldEffIntoBK
	FieldBrewhouseEff
	FieldABV
	FieldAttenuation

	// Projected
	FieldProjBoilGrav
	FieldProjVolIntoBK
	FieldProjStrikeTemp
	FieldProjMashFinTemp
	FieldProjOg
	FieldProjVolIntoFerm
	FieldProjFg
	FieldProjEff
	FieldProjABV
	FieldProjPoints
	FieldProjFermPoints
	FieldProjAtten

	fieldCount
)

// Kind is the value type carried by a field.
type Kind int

const (
	KindNumber Kind = iota
	KindTime
	KindText
)

// FieldSpec names a field in each of the vocabularies that refer to it.
type FieldSpec struct {
	Field    Field
	Property string // API / in-memory name
	Column   string // storage column
	Tag      string // exchange tag
	Kind     Kind
}

// Fields lists every field in declaration order.
var Fields = [fieldCount]FieldSpec{
	{FieldBrewDate, "brewDate", "brewDate", "BREWDATE", KindTime},
	{FieldFermentDate, "fermentDate", "fermentDate", "DATE_FERMENTED_OUT", KindTime},
	{FieldNotes, "notes", "notes", "NOTES", KindText},

	{FieldSg, "sg", "sg", "SG", KindNumber},
	{FieldVolumeIntoBK, "volumeIntoBK_l", "volume_into_bk", "VOLUME_INTO_BK", KindNumber},
	{FieldStrikeTemp, "strikeTemp_c", "strike_temp", "STRIKE_TEMP", KindNumber},
	{FieldMashFinTemp, "mashFinTemp_c", "mash_final_temp", "MASH_FINAL_TEMP", KindNumber},
	{FieldOg, "og", "og", "OG", KindNumber},
	{FieldPostBoilVolume, "postBoilVolume_l", "post_boil_volume", "POST_BOIL_VOLUME", KindNumber},
	{FieldVolumeIntoFerm, "volumeIntoFerm_l", "volume_into_fermenter", "VOLUME_INTO_FERMENTER", KindNumber},
	{FieldPitchTemp, "pitchTemp_c", "pitch_temp", "PITCH_TEMP", KindNumber},
	{FieldFg, "fg", "fg", "FG", KindNumber},
	{FieldFinalVolume, "finalVolume_l", "final_volume", "FINAL_VOLUME", KindNumber},
	{FieldBoilOff, "boilOff_l", "boil_off", "BOIL_OFF", KindNumber},

	{FieldEffIntoBK, "effIntoBK_pct", "eff_into_bk", "EFF_INTO_BK", KindNumber},
	{FieldBrewhouseEff, "brewhouseEff_pct", "brewhouse_eff", "BREWHOUSE_EFF", KindNumber},
	{FieldABV, "abv", "abv", "ACTUAL_ABV", KindNumber},
	{FieldAttenuation, "attenuation", "attenuation", "ATTENUATION", KindNumber},

	{FieldProjBoilGrav, "projBoilGrav", "projected_boil_grav", "PROJECTED_BOIL_GRAV", KindNumber},
	{FieldProjVolIntoBK, "projVolIntoBK_l", "projected_vol_into_bk", "PROJECTED_VOL_INTO_BK", KindNumber},
	{FieldProjStrikeTemp, "projStrikeTemp_c", "projected_strike_temp", "PROJECTED_STRIKE_TEMP", KindNumber},
	{FieldProjMashFinTemp, "projMashFinTemp_c", "projected_mash_fin_temp", "PROJECTED_MASH_FIN_TEMP", KindNumber},
	{FieldProjOg, "projOg", "projectedm_og", "PROJECTED_OG", KindNumber},
	{FieldProjVolIntoFerm, "projVolIntoFerm_l", "projected_vol_into_ferm", "PROJECTED_VOL_INTO_FERM", KindNumber},
	{FieldProjFg, "projFg", "projectedm_fg", "PROJECTED_FG", KindNumber},
	{FieldProjEff, "projEff_pct", "projected_eff", "PROJECTED_EFF", KindNumber},
	{FieldProjABV, "projABV_pct", "projectedm_abv", "PROJECTED_ABV", KindNumber},
	{FieldProjPoints, "projPoints", "projected_points", "PROJECTED_POINTS", KindNumber},
	{FieldProjFermPoints, "projFermPoints", "projected_ferm_points", "PROJECTED_FERM_POINTS", KindNumber},
	{FieldProjAtten, "projAtten", "projected_atten", "PROJECTED_ATTEN", KindNumber},
}

var (
	byProperty = make(map[string]Field, fieldCount)
	byColumn   = make(map[string]Field, fieldCount)
	byTag      = make(map[string]Field, fieldCount)
)

func init() {
	for _, spec := range Fields {
		byProperty[spec.Property] = spec.Field
		byColumn[spec.Column] = spec.Field
		byTag[spec.Tag] = spec.Field
	}
}

// Spec returns the naming record of f.
func (f Field) Spec() FieldSpec {
	if f < 0 || f >= fieldCount {
		return FieldSpec{Field: f, Property: fmt.Sprintf("field(%d)", int(f))}
	}
	return Fields[f]
}

func (f Field) String() string  { return f.Spec().Property }
func (f Field) Column() string  { return f.Spec().Column }
func (f Field) Kind() Kind      { return f.Spec().Kind }
func (f Field) Valid() bool     { return f >= 0 && f < fieldCount }
func (f Field) IsNumeric() bool { return f.Valid() && f.Kind() == KindNumber }

// FieldByProperty resolves an API property name such as "volumeIntoBK_l".
func FieldByProperty(name string) (Field, bool) {
	f, ok := byProperty[name]
	return f, ok
}

// FieldByColumn resolves a storage column name such as "volume_into_bk".
func FieldByColumn(name string) (Field, bool) {
	f, ok := byColumn[name]
	return f, ok
}

// FieldByTag resolves an exchange tag such as "VOLUME_INTO_BK".
func FieldByTag(name string) (Field, bool) {
	f, ok := byTag[name]
	return f, ok
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

// DefaultAttenuationPct is used when a recipe has no yeast with a usable
// attenuation figure.
const DefaultAttenuationPct = 75.0

// Recipe is the read-only snapshot of recipe figures a brew note is seeded from.
type Recipe struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`

	BoilSizeL       float64 `yaml:"boilSize_l" json:"boilSize_l"`
	PostBoilVolumeL float64 `yaml:"postBoilVolume_l" json:"postBoilVolume_l"`
	FinalVolumeL    float64 `yaml:"finalVolume_l" json:"finalVolume_l"`
	BoilGrav        float64 `yaml:"boilGrav" json:"boilGrav"`
	BoilTimeMin     float64 `yaml:"boilTime_min" json:"boilTime_min"`
	OG              float64 `yaml:"og" json:"og"`
	FG              float64 `yaml:"fg" json:"fg"`
	PrimaryTempC    float64 `yaml:"primaryTemp_c" json:"primaryTemp_c"`
	EfficiencyPct   float64 `yaml:"efficiency_pct" json:"efficiency_pct"`
	ABVPct          float64 `yaml:"abv_pct" json:"abv_pct"`

	Points TotalPoints `yaml:"points" json:"points"`

	Equipment *Equipment `yaml:"equipment,omitempty" json:"equipment,omitempty"`
	Mash      *Mash      `yaml:"mash,omitempty" json:"mash,omitempty"`
	Yeasts    []Yeast    `yaml:"yeasts,omitempty" json:"yeasts,omitempty"`
}

// TotalPoints is the recipe's extract breakdown in kilograms of
// sucrose-equivalent sugar.
type TotalPoints struct {
	SugarKg          float64 `yaml:"sugar_kg" json:"sugar_kg"`
	SugarKgIgnoreEff float64 `yaml:"sugar_kg_ignoreEfficiency" json:"sugar_kg_ignoreEfficiency"`
}

// Total sums both contributions.
func (p TotalPoints) Total() float64 {
	return p.SugarKg + p.SugarKgIgnoreEff
}

// Equipment carries the equipment figures a brew note needs.
type Equipment struct {
	EvapRateLHr float64 `yaml:"evapRate_lHr" json:"evapRate_lHr"`
}

// Mash is an ordered list of mash steps.
type Mash struct {
	Steps []MashStep `yaml:"steps" json:"steps"`
}

// MashStep carries the temperatures of one mash step.
type MashStep struct {
	Name        string  `yaml:"name,omitempty" json:"name,omitempty"`
	InfuseTempC float64 `yaml:"infuseTemp_c" json:"infuseTemp_c"`
	StepTempC   float64 `yaml:"stepTemp_c" json:"stepTemp_c"`
	EndTempC    float64 `yaml:"endTemp_c" json:"endTemp_c"`
}

// FinalTempC is the end temperature, falling back to the step temperature
// when no end temperature was recorded.
func (s MashStep) FinalTempC() float64 {
	if s.EndTempC > 0 {
		return s.EndTempC
	}
	return s.StepTempC
}

// Yeast carries the attenuation figure of one yeast.
type Yeast struct {
	Name           string  `yaml:"name,omitempty" json:"name,omitempty"`
	AttenuationPct float64 `yaml:"attenuation_pct" json:"attenuation_pct"`
}

// BoilOffL is the volume boiled off over the recipe's boil time. It reports
// false when the recipe carries no equipment.
func (r *Recipe) BoilOffL() (float64, bool) {
	if r.Equipment == nil {
		return 0, false
	}
	return r.Equipment.EvapRateLHr * (r.BoilTimeMin / 60), true
}

// MaxAttenuationPct is the highest yeast attenuation, or
// DefaultAttenuationPct when there is no yeast or none reports a
// non-negative figure.
func (r *Recipe) MaxAttenuationPct() float64 {
	atten := -1.0
	for _, y := range r.Yeasts {
		if y.AttenuationPct > atten {
			atten = y.AttenuationPct
		}
	}
	if len(r.Yeasts) == 0 || atten < 0 {
		return DefaultAttenuationPct
	}
	return atten
}

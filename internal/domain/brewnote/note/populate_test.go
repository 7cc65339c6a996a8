// Copyright (c) 2025 ManuGH

package note

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
	"github.com/ManuGH/brewlog/internal/units"
)

func pale(t *testing.T) *model.Recipe {
	t.Helper()
	return &model.Recipe{
		ID:           "r1",
		Name:         "Pale",
		BoilSizeL:    25,
		FinalVolumeL: 20,
		BoilGrav:     1.050,
		BoilTimeMin:  60,
		OG:           1.052,
		FG:           1.010,
		PrimaryTempC: 19,
		Points:       model.TotalPoints{SugarKg: 4.5, SugarKgIgnoreEff: 0.5},
		Mash: &model.Mash{Steps: []model.MashStep{
			{Name: "Saccharification", InfuseTempC: 68, StepTempC: 66},
		}},
		Yeasts: []model.Yeast{{Name: "A", AttenuationPct: 72}, {Name: "B", AttenuationPct: 78}},
	}
}

func TestPopulate_EndToEnd(t *testing.T) {
	r := New("n1", "r1")
	r.Populate(pale(t))

	n := r.Snapshot()
	assert.Equal(t, 25.0, n.VolumeIntoBK)
	assert.Equal(t, 25.0, n.ProjVolIntoBK)
	assert.Equal(t, 20.0, n.VolumeIntoFerm)
	assert.Equal(t, 68.0, n.StrikeTemp)
	assert.Equal(t, 66.0, n.MashFinTemp)
	assert.Equal(t, 66.0, n.ProjMashFinTemp)
	assert.Equal(t, 78.0, n.ProjAtten)
	assert.Equal(t, 1.052, n.Og)
	assert.Equal(t, 1.052, n.ProjOg)
	assert.Equal(t, 1.010, n.Fg)
	assert.Equal(t, 19.0, n.PitchTemp)
	assert.Equal(t, 0.0, n.BoilOff, "no equipment, no boil-off")
	assert.InDelta(t, 80.77, n.Attenuation, 0.01)
	assert.InDelta(t, (1.052-1.010)*130, n.ABV, 1e-9)
	assert.InDelta(t, units.ExtractToPoints(5, 25), n.ProjPoints, 1e-12)
	assert.InDelta(t, units.ExtractToPoints(5, 20), n.ProjFermPoints, 1e-12)
}

func TestPopulate_Order(t *testing.T) {
	sink := &recordingSink{}
	r := New("n1", "r1", WithSink(sink))
	rec := pale(t)
	rec.Equipment = &model.Equipment{EvapRateLHr: 4}
	r.Populate(rec)

	cols := sink.columns()
	require.NotEmpty(t, cols)
	assert.Equal(t, []string{
		"projected_vol_into_bk", "volume_into_bk",
	}, cols[:2])

	index := func(col string) int {
		for i, c := range cols {
			if c == col {
				return i
			}
		}
		t.Fatalf("column %s not persisted", col)
		return -1
	}
	assert.Less(t, index("final_volume"), index("boil_off"))
	assert.Less(t, index("boil_off"), index("projected_points"))
	assert.Less(t, index("projected_ferm_points"), index("sg"))
	assert.Less(t, index("sg"), index("strike_temp"))
	assert.Less(t, index("mash_final_temp"), index("og"))
	assert.Equal(t, "projected_atten", cols[len(cols)-1])

	assert.Equal(t, 4.0, r.BoilOff())
}

func TestPopulate_MultiStepMash(t *testing.T) {
	rec := pale(t)
	rec.Mash.Steps = []model.MashStep{
		{Name: "Protein", InfuseTempC: 55, StepTempC: 52},
		{Name: "Sacch", StepTempC: 66, EndTempC: 64},
		{Name: "Mash out", StepTempC: 76, EndTempC: 77},
	}
	r := New("n1", "r1")
	r.Populate(rec)

	assert.Equal(t, 55.0, r.StrikeTemp())
	assert.Equal(t, 64.0, r.MashFinTemp())
	assert.Equal(t, 64.0, r.ProjMashFinTemp())
}

func TestPopulate_TwoStepMashKeepsFirst(t *testing.T) {
	rec := pale(t)
	rec.Mash.Steps = append(rec.Mash.Steps, model.MashStep{Name: "Mash out", StepTempC: 76, EndTempC: 77})
	r := New("n1", "r1")
	r.Populate(rec)

	assert.Equal(t, 66.0, r.MashFinTemp())
}

func TestPopulate_DefaultAttenuation(t *testing.T) {
	rec := pale(t)
	rec.Yeasts = nil
	r := New("n1", "r1")
	r.Populate(rec)
	assert.Equal(t, model.DefaultAttenuationPct, r.ProjAtten())

	rec.Yeasts = []model.Yeast{{Name: "unknown", AttenuationPct: -1}}
	r = New("n2", "r1")
	r.Populate(rec)
	assert.Equal(t, model.DefaultAttenuationPct, r.ProjAtten())
}

func TestRecalculateEff_Idempotent(t *testing.T) {
	r := New("n1", "r1")
	rec := pale(t)
	r.Populate(rec)

	rec.Points.SugarKg = 5.0
	r.RecalculateEff(rec)
	first := r.Snapshot()

	changes := r.RecalculateEff(rec)
	second := r.Snapshot()

	assert.Equal(t, first, second)
	fields := make([]model.Field, 0, len(changes))
	for _, c := range changes {
		fields = append(fields, c.Field)
	}
	assert.Equal(t, []model.Field{
		model.FieldProjPoints, model.FieldProjFermPoints, model.FieldEffIntoBK, model.FieldBrewhouseEff,
	}, fields)
	assert.InDelta(t, units.ExtractToPoints(5.5, 25), second.ProjPoints, 1e-12)
}

// Copyright (c) 2025 ManuGH

package calc

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
)

func TestDefaultGraph_Plans(t *testing.T) {
	tests := []struct {
		field model.Field
		want  []model.Field
	}{
		{model.FieldSg, []model.Field{model.FieldEffIntoBK, model.FieldProjOg}},
		{model.FieldVolumeIntoBK, []model.Field{model.FieldEffIntoBK, model.FieldProjOg, model.FieldBrewhouseEff}},
		{model.FieldOg, []model.Field{model.FieldBrewhouseEff, model.FieldProjABV, model.FieldABV, model.FieldAttenuation}},
		{model.FieldVolumeIntoFerm, []model.Field{model.FieldBrewhouseEff}},
		{model.FieldFg, []model.Field{model.FieldABV, model.FieldAttenuation}},
	}
	for _, tt := range tests {
		t.Run(tt.field.String(), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Default.Dependents(tt.field)); diff != "" {
				t.Errorf("Dependents(%s) mismatch (-want +got):\n%s", tt.field, diff)
			}
		})
	}
}

func TestDefaultGraph_NoCascadeFields(t *testing.T) {
	cascading := map[model.Field]bool{
		model.FieldSg:             true,
		model.FieldVolumeIntoBK:   true,
		model.FieldOg:             true,
		model.FieldVolumeIntoFerm: true,
		model.FieldFg:             true,
	}
	for _, spec := range model.Fields {
		if cascading[spec.Field] {
			continue
		}
		assert.Empty(t, Default.Plan(spec.Field), "field %s must not cascade", spec.Field)
	}
}

func TestNewGraph_RejectsCycle(t *testing.T) {
	_, err := NewGraph([]Formula{
		{Name: "a", Target: model.FieldOg, Triggers: []model.Field{model.FieldFg}, Compute: ActualABV},
		{Name: "b", Target: model.FieldFg, Triggers: []model.Field{model.FieldOg}, Compute: ActualABV},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle detected")
}

func TestNewGraph_RejectsSelfTrigger(t *testing.T) {
	_, err := NewGraph([]Formula{
		{Name: "self", Target: model.FieldOg, Triggers: []model.Field{model.FieldOg}, Compute: ActualABV},
	})
	require.Error(t, err)
}

func TestNewGraph_RejectsTextTarget(t *testing.T) {
	_, err := NewGraph([]Formula{
		{Name: "notes", Target: model.FieldNotes, Triggers: []model.Field{model.FieldOg}, Compute: ActualABV},
	})
	require.Error(t, err)
}

func TestNewGraph_TransitivePlan(t *testing.T) {
	// og -> abv -> attenuation: a chained formula must follow the one it reads.
	g, err := NewGraph([]Formula{
		{Name: "second", Target: model.FieldAttenuation, Triggers: []model.Field{model.FieldABV}, Compute: Attenuation},
		{Name: "first", Target: model.FieldABV, Triggers: []model.Field{model.FieldOg}, Compute: ActualABV},
	})
	require.NoError(t, err)
	assert.Equal(t, []model.Field{model.FieldABV, model.FieldAttenuation}, g.Dependents(model.FieldOg))
}

func TestEffIntoBK(t *testing.T) {
	n := &model.BrewNote{Sg: 1.050, VolumeIntoBK: 25, ProjPoints: 62.5, ProjVolIntoBK: 25}
	v, ok := EffIntoBK(n)
	require.True(t, ok)
	assert.InDelta(t, 80.0, v, 1e-9)

	n.ProjPoints = 0
	v, ok = EffIntoBK(n)
	assert.False(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestProjectedOG(t *testing.T) {
	n := &model.BrewNote{Sg: 1.040, VolumeIntoBK: 30, ProjVolIntoBK: 28, BoilOff: 4}
	v, ok := ProjectedOG(n)
	require.True(t, ok)
	assert.InDelta(t, 1.050, v, 1e-9)

	n.BoilOff = n.ProjVolIntoBK
	v, ok = ProjectedOG(n)
	assert.False(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestBrewhouseEff(t *testing.T) {
	n := &model.BrewNote{Og: 1.052, VolumeIntoFerm: 20, ProjFermPoints: 65, ProjVolIntoFerm: 20}
	v, ok := BrewhouseEff(n)
	require.True(t, ok)
	assert.InDelta(t, 80.0, v, 1e-9)

	n.ProjFermPoints = 0
	v, ok = BrewhouseEff(n)
	require.True(t, ok)
	assert.True(t, math.IsInf(v, 1), "expected +Inf, got %v", v)
}

func TestABVAndAttenuation(t *testing.T) {
	n := &model.BrewNote{Og: 1.052, Fg: 1.010, ProjAtten: 75}

	abv, _ := ActualABV(n)
	assert.InDelta(t, 5.46, abv, 1e-9)

	proj, _ := ProjectedABV(n)
	assert.InDelta(t, 0.052*0.75*130, proj, 1e-9)

	att, _ := Attenuation(n)
	assert.InDelta(t, 80.769, att, 1e-3)

	n.Og = 1.0
	n.Fg = 1.0
	att, ok := Attenuation(n)
	require.True(t, ok)
	assert.True(t, math.IsNaN(att))

	n.Fg = 0.998
	att, _ = Attenuation(n)
	assert.True(t, math.IsInf(att, 1))
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package note

import (
	"github.com/ManuGH/brewlog/internal/units"
)

// Readings are report-only values derived from the stored fields. They are
// never stored.
type Readings struct {
	OGPlato         float64 `json:"ogPlato"`
	FGPlato         float64 `json:"fgPlato"`
	KettlePlato     float64 `json:"kettlePlato"`
	ProjKettlePlato float64 `json:"projKettlePlato"`
	ApparentExtract float64 `json:"apparentExtract_pct"`
}

// Readings computes the gravity readings of the record in degrees Plato.
func (r *Record) Readings() Readings {
	r.mu.Lock()
	n := r.n
	r.mu.Unlock()

	rd := Readings{
		OGPlato:         units.SGToPlato20C(n.Og),
		FGPlato:         units.SGToPlato20C(n.Fg),
		KettlePlato:     units.PointsToPlato(units.GravityToPoints(n.Sg)*n.VolumeIntoBK, n.VolumeIntoBK),
		ProjKettlePlato: units.PointsToPlato(n.ProjPoints*n.ProjVolIntoBK, n.ProjVolIntoBK),
	}
	if rd.OGPlato > 0 {
		rd.ApparentExtract = rd.FGPlato / rd.OGPlato * 100
	}
	return rd
}

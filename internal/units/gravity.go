// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package units converts between specific gravity, gravity points and degrees Plato.
// All functions are pure.
package units

import "math"

// SucroseDensityKgL is the density of sucrose used when extract and water
// volumes are assumed to be additive.
const SucroseDensityKgL = 1.587

// Coefficients of plato(sg) at 20°C/20°C, lowest order first.
var platoFromSG20C = [4]float64{-616.868, 1111.14, -630.272, 135.997}

const (
	newtonMaxIter = 64
	newtonTol     = 1e-12
)

// GravityToPoints returns (sg-1)*1000.
func GravityToPoints(sg float64) float64 {
	return (sg - 1.0) * 1000.0
}

// PointsToGravity is the inverse of GravityToPoints.
func PointsToGravity(points float64) float64 {
	return 1.0 + points/1000.0
}

// SGToPlato20C evaluates the 20°C/20°C Plato polynomial.
func SGToPlato20C(sg float64) float64 {
	c := platoFromSG20C
	return c[0] + sg*(c[1]+sg*(c[2]+sg*c[3]))
}

func platoSlope(sg float64) float64 {
	c := platoFromSG20C
	return c[1] + sg*(2*c[2]+sg*3*c[3])
}

// PlatoToSG20C returns the specific gravity whose Plato reading is plato.
// The polynomial is strictly increasing, so Newton's method from a linear
// first guess converges to the unique root.
func PlatoToSG20C(plato float64) float64 {
	if math.IsNaN(plato) || math.IsInf(plato, 0) {
		return plato
	}
	sg := 1.0 + plato/259.0
	for i := 0; i < newtonMaxIter; i++ {
		step := (SGToPlato20C(sg) - plato) / platoSlope(sg)
		sg -= step
		if math.Abs(step) < newtonTol {
			break
		}
	}
	return sg
}

// PointsToPlato converts gravity points spread over volumeL litres
// (points = (SG-1)*1000*L) into degrees Plato. Non-positive volumes yield 0.
func PointsToPlato(points, volumeL float64) float64 {
	if volumeL <= 0 {
		return 0
	}
	return SGToPlato20C(PointsToGravity(points / volumeL))
}

// ExtractToPlato returns the Plato reading of wortL litres of wort holding
// extractKg of sucrose-equivalent extract. Non-positive volumes yield 0.
func ExtractToPlato(extractKg, wortL float64) float64 {
	if wortL <= 0 {
		return 0
	}
	waterKg := wortL - extractKg/SucroseDensityKgL
	return extractKg / (extractKg + waterKg) * 100.0
}

// ExtractToPoints runs extract mass through Plato and gravity and returns
// the result in gravity points. Non-positive volumes yield 0.
func ExtractToPoints(extractKg, wortL float64) float64 {
	if wortL <= 0 {
		return 0
	}
	return GravityToPoints(PlatoToSG20C(ExtractToPlato(extractKg, wortL)))
}

// SPDX-License-Identifier: MIT

// Package metrics exposes brewlog's Prometheus collectors. Everything is
// registered on the default registry through promauto.
package metrics

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Formula outcomes.
const (
	OutcomeStored    = "stored"
	OutcomeGuarded   = "guarded"
	OutcomeNonFinite = "non_finite"
)

var (
	formulaEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewlog_formula_evaluations_total",
		Help: "Derived-quantity evaluations by formula and outcome",
	}, []string{"formula", "outcome"}) // outcome=stored|guarded|non_finite

	sinkWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewlog_sink_writes_total",
		Help: "Column flushes of note changes by result",
	}, []string{"result"}) // result=success|failure

	noteMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewlog_note_mutations_total",
		Help: "Field mutations applied to notes",
	}, []string{"field"})

	cascadeSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "brewlog_cascade_changes",
		Help:    "Stored changes per mutation, the input included",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 8},
	})

	recalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewlog_recalculations_total",
		Help: "Efficiency recalculations by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	recipeCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewlog_recipe_cache_requests_total",
		Help: "Recipe snapshot cache lookups by result",
	}, []string{"result"}) // result=hit|miss
)

// FormulaObserver counts formula evaluations. It satisfies note.Observer.
type FormulaObserver struct{}

// Recomputed records one evaluation.
func (FormulaObserver) Recomputed(formula string, value float64, stored bool) {
	formulaEvaluations.WithLabelValues(formula, FormulaOutcome(value, stored)).Inc()
}

// FormulaOutcome classifies an evaluation.
func FormulaOutcome(value float64, stored bool) string {
	switch {
	case !stored:
		return OutcomeGuarded
	case math.IsNaN(value) || math.IsInf(value, 0):
		return OutcomeNonFinite
	default:
		return OutcomeStored
	}
}

func IncSinkWrite(err error) { sinkWrites.WithLabelValues(resultLabel(err)).Inc() }

// RecordMutation counts a mutation of field and the size of its cascade.
func RecordMutation(field string, changes int) {
	noteMutations.WithLabelValues(field).Inc()
	cascadeSize.Observe(float64(changes))
}

func IncRecalculation(err error) { recalculations.WithLabelValues(resultLabel(err)).Inc() }

// IncRecipeCache records a cache lookup.
func IncRecipeCache(hit bool) {
	if hit {
		recipeCacheRequests.WithLabelValues("hit").Inc()
		return
	}
	recipeCacheRequests.WithLabelValues("miss").Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package calc

import (
	"fmt"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
)

// vertex ids: fields occupy [0, len(model.Fields)), formulas follow.
type vertex int

// Graph is the static dependency graph between fields and formulas.
// Edges run field -> formula (the field triggers the formula) and
// formula -> field (the formula writes the field).
type Graph struct {
	formulas []Formula
	out      map[vertex][]vertex
	order    []vertex // topological order of all vertices
	plans    map[model.Field][]Formula
}

func fieldVertex(f model.Field) vertex { return vertex(f) }

func (g *Graph) formulaVertex(i int) vertex { return vertex(len(model.Fields) + i) }

func (g *Graph) isFormula(v vertex) bool { return int(v) >= len(model.Fields) }

// NewGraph wires formulas into a graph and precomputes, for every field, the
// formulas to run when it changes. It fails if the wiring has a cycle.
func NewGraph(formulas []Formula) (*Graph, error) {
	g := &Graph{
		formulas: formulas,
		out:      make(map[vertex][]vertex),
		plans:    make(map[model.Field][]Formula),
	}
	for i, fm := range formulas {
		if !fm.Target.IsNumeric() {
			return nil, fmt.Errorf("formula %s: target %s is not numeric", fm.Name, fm.Target)
		}
		fv := g.formulaVertex(i)
		for _, trig := range fm.Triggers {
			if trig == fm.Target {
				return nil, fmt.Errorf("formula %s: self-referential trigger %s", fm.Name, trig)
			}
			g.out[fieldVertex(trig)] = append(g.out[fieldVertex(trig)], fv)
		}
		g.out[fv] = append(g.out[fv], fieldVertex(fm.Target))
	}
	if err := g.sort(); err != nil {
		return nil, err
	}
	for _, spec := range model.Fields {
		g.plans[spec.Field] = g.plan(spec.Field)
	}
	return g, nil
}

// MustGraph is NewGraph for static wiring tables.
func MustGraph(formulas []Formula) *Graph {
	g, err := NewGraph(formulas)
	if err != nil {
		panic(err)
	}
	return g
}

// sort runs Kahn's algorithm, always taking the lowest ready vertex so that
// formulas keep their declaration order where the edges allow it.
func (g *Graph) sort() error {
	total := len(model.Fields) + len(g.formulas)
	indeg := make([]int, total)
	for _, targets := range g.out {
		for _, t := range targets {
			indeg[t]++
		}
	}
	done := make([]bool, total)
	for len(g.order) < total {
		next := vertex(-1)
		for v := 0; v < total; v++ {
			if !done[v] && indeg[v] == 0 {
				next = vertex(v)
				break
			}
		}
		if next < 0 {
			for v := 0; v < total; v++ {
				if !done[v] {
					return fmt.Errorf("cycle detected involving %s", g.label(vertex(v)))
				}
			}
			return fmt.Errorf("cycle detected")
		}
		done[next] = true
		g.order = append(g.order, next)
		for _, t := range g.out[next] {
			indeg[t]--
		}
	}
	return nil
}

func (g *Graph) label(v vertex) string {
	if g.isFormula(v) {
		return "formula " + g.formulas[int(v)-len(model.Fields)].Name
	}
	return "field " + model.Field(v).String()
}

// plan collects every formula reachable from f, ordered topologically.
func (g *Graph) plan(f model.Field) []Formula {
	seen := make(map[vertex]bool)
	var visit func(v vertex)
	visit = func(v vertex) {
		for _, t := range g.out[v] {
			if !seen[t] {
				seen[t] = true
				visit(t)
			}
		}
	}
	visit(fieldVertex(f))

	var out []Formula
	for _, v := range g.order {
		if seen[v] && g.isFormula(v) {
			out = append(out, g.formulas[int(v)-len(model.Fields)])
		}
	}
	return out
}

// Plan returns the formulas to evaluate, in order, after f changes.
func (g *Graph) Plan(f model.Field) []Formula {
	return g.plans[f]
}

// Dependents returns the fields written by the plan of f.
func (g *Graph) Dependents(f model.Field) []model.Field {
	plan := g.Plan(f)
	out := make([]model.Field, 0, len(plan))
	for _, fm := range plan {
		out = append(out, fm.Target)
	}
	return out
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/manager"
)

// runRecalcCLI recomputes the efficiency figures of every note brewed from
// a recipe, after the recipe's grain bill changed.
func runRecalcCLI(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("brewlog recalc-eff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file (YAML)")
	recipePath := fs.String("recipe", "", "updated recipe snapshot (YAML)")
	concurrency := fs.Int("concurrency", 4, "notes recalculated in parallel")
	perSecond := fs.Float64("rate", 0, "maximum notes per second (0 = unlimited)")
	dryRun := fs.Bool("dry-run", false, "print the changes without writing them")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *recipePath == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --recipe is required")
		return 2
	}
	rec, err := loadRecipe(*recipePath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	return withDeps(*configPath, stderr, func(ctx context.Context, d *deps) error {
		res, err := d.manager.RecalculateAll(ctx, rec, manager.BatchOptions{
			Concurrency:    *concurrency,
			NotesPerSecond: *perSecond,
			DryRun:         *dryRun,
		})
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(res.Changes))
		for id := range res.Changes {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			_, _ = fmt.Fprintf(stdout, "%s\n", id)
			printChanges(stdout, res.Changes[id])
		}

		verb := "updated"
		if *dryRun {
			verb = "would update"
		}
		_, _ = fmt.Fprintf(stdout, "%s %d of %d notes for recipe %s\n", verb, res.Changed, res.Notes, rec.ID)
		return nil
	})
}

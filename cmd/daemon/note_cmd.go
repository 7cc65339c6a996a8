// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
	"github.com/ManuGH/brewlog/internal/domain/brewnote/note"
)

func runNoteCLI(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printNoteUsage(stdout)
		return 0
	}

	switch args[0] {
	case "new":
		return runNoteNew(args[1:], stdout, stderr)
	case "show":
		return runNoteShow(args[1:], stdout, stderr)
	case "set":
		return runNoteSet(args[1:], stdout, stderr)
	case "list":
		return runNoteList(args[1:], stdout, stderr)
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printNoteUsage(stderr)
		return 2
	}
}

func printNoteUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  brewlog note new --recipe recipe.yaml [--config config.yaml]")
	_, _ = fmt.Fprintln(w, "  brewlog note show <id> [--config config.yaml]")
	_, _ = fmt.Fprintln(w, "  brewlog note set <id> <field> <value> [--config config.yaml]")
	_, _ = fmt.Fprintln(w, "  brewlog note list [--recipe-id ID] [--config config.yaml]")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Fields may be named by property (volumeIntoBK_l), column (volume_into_bk)")
	_, _ = fmt.Fprintln(w, "or exchange tag (VOLUME_INTO_BK).")
}

// loadRecipe reads a recipe snapshot from a YAML file. Unknown keys are
// rejected.
func loadRecipe(path string) (*model.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var rec model.Recipe
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("parse recipe %s: %w", path, err)
	}
	if rec.ID == "" {
		return nil, fmt.Errorf("recipe %s: id is required", path)
	}
	return &rec, nil
}

// withDeps loads config and opens the backing store for one CLI command.
func withDeps(configPath string, stderr io.Writer, fn func(ctx context.Context, d *deps) error) int {
	cfg, err := loadConfig(resolveConfigPath(configPath))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}
	ctx := context.Background()
	d, err := openDeps(ctx, cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = d.Close() }()

	if err := fn(ctx, d); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// parseInterspersed lets positional arguments come before flags.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func runNoteNew(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("brewlog note new", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file (YAML)")
	recipePath := fs.String("recipe", "", "recipe snapshot (YAML)")
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
		n, err := d.manager.Create(ctx, rec)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(stdout, n.ID())
		return nil
	})
}

func runNoteShow(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("brewlog note show", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file (YAML)")
	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return 2
	}
	if len(pos) != 1 {
		_, _ = fmt.Fprintln(stderr, "Error: note show takes exactly one note id")
		return 2
	}

	return withDeps(*configPath, stderr, func(ctx context.Context, d *deps) error {
		n, err := d.manager.Get(ctx, pos[0])
		if err != nil {
			return err
		}
		printNote(stdout, n)
		return nil
	})
}

func runNoteSet(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("brewlog note set", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file (YAML)")
	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return 2
	}
	if len(pos) != 3 {
		_, _ = fmt.Fprintln(stderr, "Error: note set takes <id> <field> <value>")
		return 2
	}

	return withDeps(*configPath, stderr, func(ctx context.Context, d *deps) error {
		changes, err := d.manager.Set(ctx, pos[0], pos[1], pos[2])
		if err != nil {
			return err
		}
		printChanges(stdout, changes)
		return nil
	})
}

func runNoteList(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("brewlog note list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file (YAML)")
	recipeID := fs.String("recipe-id", "", "only notes of this recipe")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	return withDeps(*configPath, stderr, func(ctx context.Context, d *deps) error {
		var (
			notes []*note.Record
			err   error
		)
		if *recipeID != "" {
			notes, err = d.manager.ListByRecipe(ctx, *recipeID)
		} else {
			notes, err = d.manager.List(ctx)
		}
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "ID\tRECIPE\tBREW DATE\tOG\tFG\tABV")
		for _, n := range notes {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				n.ID(), n.RecipeID(), n.BrewDate().Format("2006-01-02"),
				formatFloat(n.Og()), formatFloat(n.Fg()), formatFloat(n.ABV()))
		}
		return tw.Flush()
	})
}

func printNote(w io.Writer, n *note.Record) {
	snap := n.Snapshot()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "id\t%s\n", n.ID())
	_, _ = fmt.Fprintf(tw, "recipe\t%s\n", n.RecipeID())
	for _, spec := range model.Fields {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", spec.Property, formatValue(snap.Value(spec.Field)))
	}
	rd := n.Readings()
	_, _ = fmt.Fprintf(tw, "ogPlato\t%s\n", formatFloat(rd.OGPlato))
	_, _ = fmt.Fprintf(tw, "fgPlato\t%s\n", formatFloat(rd.FGPlato))
	_, _ = fmt.Fprintf(tw, "apparentExtract_pct\t%s\n", formatFloat(rd.ApparentExtract))
	_ = tw.Flush()
}

func printChanges(w io.Writer, changes []model.Change) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range changes {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Field.String(), c.Field.Column(), formatValue(c.Value))
	}
	_ = tw.Flush()
}

func formatValue(v any) string {
	switch x := note.StorageValue(v).(type) {
	case float64:
		return formatFloat(x)
	case string:
		if x == "" {
			return "-"
		}
		return strings.ReplaceAll(x, "\n", " ")
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	if s, ok := note.FormatNumber(f).(string); ok {
		return s
	}
	return strconv.FormatFloat(f, 'g', 6, 64)
}

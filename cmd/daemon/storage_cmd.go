// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ManuGH/brewlog/internal/config"
	"github.com/ManuGH/brewlog/internal/persistence/sqlite"
)

func runStorageCLI(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printStorageUsage(stdout)
		return 0
	}

	switch args[0] {
	case "verify":
		return runStorageVerify(args[1:], stdout, stderr)
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printStorageUsage(stderr)
		return 2
	}
}

func printStorageUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  brewlog storage verify [--path PATH] [--config config.yaml] [--mode quick|full]")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Flags:")
	_, _ = fmt.Fprintln(w, "  --path string  SQLite database file (defaults to the configured store)")
	_, _ = fmt.Fprintln(w, "  --mode string  Verification mode: quick (default) or full")
}

func runStorageVerify(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("brewlog storage verify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("path", "", "Path to the SQLite database file")
	configPath := fs.String("config", "", "path to config file (YAML)")
	mode := fs.String("mode", "quick", "Verification mode: quick or full")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	m := strings.ToLower(strings.TrimSpace(*mode))
	if m != "quick" && m != "full" {
		_, _ = fmt.Fprintf(stderr, "Error: invalid mode %q. Use 'quick' or 'full'.\n", *mode)
		return 2
	}

	dbPath := strings.TrimSpace(*path)
	if dbPath == "" {
		cfg, err := config.NewLoader(resolveConfigPath(*configPath), version).Load()
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Configuration error: %v\n", err)
			return 1
		}
		if cfg.Store.Backend != config.StoreSqlite {
			_, _ = fmt.Fprintf(stderr, "Error: store backend is %q; verify only checks sqlite databases\n", cfg.Store.Backend)
			return 2
		}
		dbPath = cfg.StorePath()
	}
	return doVerify(stdout, stderr, dbPath, m)
}

func doVerify(stdout, stderr io.Writer, path, mode string) int {
	_, _ = fmt.Fprintf(stderr, "Verifying integrity of %s (mode: %s)...\n", path, mode)

	issues, err := sqlite.VerifyIntegrity(context.Background(), path, mode)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Verification interrupted by system error: %v\n", err)
		return 1
	}
	if issues != nil {
		_, _ = fmt.Fprintln(stderr, "CORRUPTION DETECTED")
		for _, issue := range issues {
			_, _ = fmt.Fprintf(stderr, "  - %s\n", issue)
		}
		return 1
	}
	_, _ = fmt.Fprintln(stdout, "Integrity verified: ok")
	return 0
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"

	"github.com/ManuGH/brewlog/internal/api"
	"github.com/ManuGH/brewlog/internal/config"
	"github.com/ManuGH/brewlog/internal/daemon"
	xglog "github.com/ManuGH/brewlog/internal/log"
	"github.com/ManuGH/brewlog/internal/telemetry"
)

func serve(ctx context.Context, configPath string) error {
	xglog.Configure(xglog.Config{Level: "info", Service: "brewlog", Version: version})
	logger := xglog.WithComponent("daemon")

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	source := "env+defaults"
	if configPath != "" {
		source = "file"
	}
	logger.Info().
		Str("event", "config.loaded").
		Str("source", source).
		Str(xglog.FieldPath, configPath).
		Msg("loaded configuration")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
		StoreBackend:   cfg.Store.Backend,
		CacheBackend:   cfg.Cache.Backend,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	deps, err := openDeps(ctx, cfg)
	if err != nil {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
		return err
	}

	tracing := ""
	if cfg.Telemetry.Enabled {
		tracing = cfg.LogService
	}
	handler := api.New(deps.manager, api.Config{
		RateLimit:      cfg.API.RateLimit,
		TracingService: tracing,
	}, deps.healthy)

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.API.ListenAddr).
		Str("store", cfg.Store.Backend).
		Str("cache", cfg.Cache.Backend).
		Msg("starting brewlog")

	holder := config.NewHolder(cfg, config.NewLoader(configPath, version), configPath)
	app := daemon.NewApp(logger, api.HTTPServer(cfg.API.ListenAddr, handler), holder)
	app.OnReload(func(next config.AppConfig) {
		xglog.SetLevel(next.LogLevel)
	})
	app.RegisterShutdownHook("telemetry", tp.Shutdown)
	deps.registerHooks(app)

	return app.Run(ctx)
}

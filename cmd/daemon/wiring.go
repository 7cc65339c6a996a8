// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ManuGH/brewlog/internal/cache"
	"github.com/ManuGH/brewlog/internal/config"
	"github.com/ManuGH/brewlog/internal/daemon"
	"github.com/ManuGH/brewlog/internal/domain/brewnote/manager"
	"github.com/ManuGH/brewlog/internal/domain/brewnote/store"
	xglog "github.com/ManuGH/brewlog/internal/log"
)

// deps are the long-lived resources behind a manager.
type deps struct {
	store   store.NoteStore
	cache   cache.Cache
	manager *manager.Manager
}

func openDeps(ctx context.Context, cfg config.AppConfig) (*deps, error) {
	backend := cfg.Store.Backend
	if backend == "" {
		backend = store.BackendSqlite
	}
	s, err := store.Open(ctx, backend, cfg.StorePath(), cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", backend, err)
	}
	s = store.Instrumented(s, backend)

	c, err := openCache(ctx, cfg)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	return &deps{
		store: s,
		cache: c,
		manager: manager.New(s,
			manager.WithRecipes(cache.NewRecipes(c, cfg.Cache.TTL)),
		),
	}, nil
}

func openCache(ctx context.Context, cfg config.AppConfig) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		}, xglog.WithComponent("cache"))
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return c, nil
	case config.CacheNone:
		return cache.NoOp{}, nil
	default:
		return cache.NewMemoryCache(time.Minute), nil
	}
}

// healthProbeID is looked up on every health check; a miss is the expected
// answer and costs one keyed read on every backend.
const healthProbeID = "_healthz"

// healthy reports whether the store and cache answer.
func (d *deps) healthy(ctx context.Context) error {
	if _, err := d.store.Get(ctx, healthProbeID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("store: %w", err)
	}
	if hc, ok := d.cache.(interface{ HealthCheck(context.Context) error }); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}
	return nil
}

func (d *deps) registerHooks(app *daemon.App) {
	app.RegisterShutdownHook("store", func(context.Context) error { return d.store.Close() })
	app.RegisterShutdownHook("cache", func(context.Context) error { return d.cache.Close() })
}

func (d *deps) Close() error {
	cerr := d.cache.Close()
	if err := d.store.Close(); err != nil {
		return err
	}
	return cerr
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"

	"github.com/ManuGH/brewlog/internal/metrics"
	"github.com/ManuGH/brewlog/internal/validate"
)

// Validate checks cfg and creates DataDir when missing. Failures wrap
// ErrInvalid.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.Directory("dataDir", cfg.DataDir, false)
	v.LogLevel("logLevel", cfg.LogLevel)
	v.NotEmpty("logService", cfg.LogService)

	v.OneOf("store.backend", cfg.Store.Backend, []string{StoreMemory, StoreSqlite, StorePostgres, StoreBadger})
	switch cfg.Store.Backend {
	case StoreSqlite:
		v.NotEmpty("store.path", cfg.Store.Path)
	case StorePostgres:
		v.NotEmpty("store.dsn", cfg.Store.DSN)
	}

	v.OneOf("cache.backend", cfg.Cache.Backend, []string{CacheMemory, CacheRedis, CacheNone})
	if cfg.Cache.Backend == CacheRedis {
		v.HostPort("cache.redisAddr", cfg.Cache.RedisAddr)
	}
	if cfg.Cache.TTL < 0 {
		v.AddError("cache.ttl", "value cannot be negative", cfg.Cache.TTL)
	}
	v.NonNegative("cache.redisDB", cfg.Cache.RedisDB)

	v.ListenAddr("api.listenAddr", cfg.API.ListenAddr)
	v.NonNegative("api.rateLimit", cfg.API.RateLimit)

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.Fraction("telemetry.samplingRate", cfg.Telemetry.SamplingRate)
	}

	if err := v.Err(); err != nil {
		metrics.IncConfigValidationError()
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads brewlog's configuration: defaults, then a strict
// YAML file, then BREWLOG_* environment overrides, then validation.
package config

import (
	"time"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreSqlite   = "sqlite"
	StorePostgres = "postgres"
	StoreBadger   = "badger"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// AppConfig is the resolved configuration.
type AppConfig struct {
	Version    string          `yaml:"-"`
	DataDir    string          `yaml:"dataDir"`
	LogLevel   string          `yaml:"logLevel"`
	LogService string          `yaml:"logService"`
	Store      StoreConfig     `yaml:"store"`
	Cache      CacheConfig     `yaml:"cache"`
	API        APIConfig       `yaml:"api"`
	Telemetry  TelemetryConfig `yaml:"telemetry"`
}

// StoreConfig selects the note store.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	// Path is the sqlite file or badger directory. Relative paths resolve
	// against DataDir; an empty badger path runs in memory.
	Path string `yaml:"path"`
	DSN  string `yaml:"dsn"`
}

// CacheConfig selects the recipe snapshot cache.
type CacheConfig struct {
	Backend       string        `yaml:"backend"`
	RedisAddr     string        `yaml:"redisAddr"`
	RedisPassword string        `yaml:"redisPassword"`
	RedisDB       int           `yaml:"redisDB"`
	TTL           time.Duration `yaml:"ttl"`
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	ListenAddr string `yaml:"listenAddr"`
	// RateLimit is requests per minute per client IP; 0 disables limiting.
	RateLimit int `yaml:"rateLimit"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
	Environment  string  `yaml:"environment"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() AppConfig {
	return AppConfig{
		DataDir:    "data",
		LogLevel:   "info",
		LogService: "brewlog",
		Store: StoreConfig{
			Backend: StoreSqlite,
			Path:    "brewlog.db",
		},
		Cache: CacheConfig{
			Backend:   CacheMemory,
			RedisAddr: "localhost:6379",
			TTL:       10 * time.Minute,
		},
		API: APIConfig{
			ListenAddr: ":8088",
			RateLimit:  120,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
			Environment:  "production",
		},
	}
}

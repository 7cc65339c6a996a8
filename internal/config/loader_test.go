// Copyright (c) 2025 ManuGH

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "brewlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsOnly(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)

	cfg, err := NewLoader("", "1.2.3").Load()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, StoreSqlite, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(dir, "brewlog.db"), cfg.StorePath())
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
dataDir: `+dir+`
logLevel: debug
store:
  backend: badger
  path: notes
cache:
  backend: redis
  redisAddr: cache:6379
  ttl: 2m
api:
  rateLimit: 10
`)
	t.Setenv(EnvRateLimit, "30")
	t.Setenv(EnvCacheTTL, "not-a-duration")

	l := NewLoader(path, "")
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, StoreBadger, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(dir, "notes"), cfg.StorePath())
	assert.Equal(t, "cache:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL, "invalid env value keeps the file value")
	assert.Equal(t, 30, cfg.API.RateLimit, "env beats file")
	assert.Equal(t, ":8088", cfg.API.ListenAddr, "untouched keys keep defaults")
	assert.Contains(t, l.ConsumedEnvKeys, EnvRateLimit)
}

func TestLoad_StrictUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "dataDir: "+dir+"\nstore:\n  engine: sqlite\n")

	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownConfigField), "got %v", err)
}

func TestLoad_RejectsMultipleDocuments(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "logLevel: info\n---\nlogLevel: debug\n")

	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple documents")
}

func TestLoad_RejectsNonYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brewlog.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only YAML supported")
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)
	path := writeConfig(t, dir, "")

	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults().Store, cfg.Store)
}

func TestValidate(t *testing.T) {
	base := Defaults()
	base.DataDir = t.TempDir()
	require.NoError(t, Validate(base))

	tests := []struct {
		name   string
		mutate func(*AppConfig)
		field  string
	}{
		{"unknown store", func(c *AppConfig) { c.Store.Backend = "mongo" }, "store.backend"},
		{"postgres without dsn", func(c *AppConfig) { c.Store.Backend = StorePostgres }, "store.dsn"},
		{"redis without host", func(c *AppConfig) { c.Cache.Backend = CacheRedis; c.Cache.RedisAddr = "6379" }, "cache.redisAddr"},
		{"negative ttl", func(c *AppConfig) { c.Cache.TTL = -time.Second }, "cache.ttl"},
		{"bad listen addr", func(c *AppConfig) { c.API.ListenAddr = "8088" }, "api.listenAddr"},
		{"bad level", func(c *AppConfig) { c.LogLevel = "chatty" }, "logLevel"},
		{"sampling out of range", func(c *AppConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.SamplingRate = 2
		}, "telemetry.samplingRate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestMasked(t *testing.T) {
	cfg := Defaults()
	cfg.Store.DSN = "postgres://brew:hunter2@db:5432/brewlog?sslmode=disable"
	cfg.Cache.RedisPassword = "s3cret"

	m := cfg.Masked()
	assert.NotContains(t, m.Store.DSN, "hunter2")
	assert.Contains(t, m.Store.DSN, "brew:")
	assert.Contains(t, m.Store.DSN, "db:5432")
	assert.Equal(t, redacted, m.Cache.RedisPassword)
	assert.Contains(t, cfg.Store.DSN, "hunter2", "original untouched")

	assert.Equal(t, redacted, MaskURL("host=db password=x"))
	assert.Equal(t, "", MaskURL(""))
}

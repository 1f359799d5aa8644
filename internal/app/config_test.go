package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "missing catalogue", mutate: func(c *Config) { c.CataloguePath = "" }, wantErr: "catalogue path is a required"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "invalid log level"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "invalid log format"},
		{name: "bad policy", mutate: func(c *Config) { c.Policy = "sometimes" }, wantErr: "unknown synthesis policy"},
		{name: "bad archive format", mutate: func(c *Config) { c.ArchiveFormat = "rar" }, wantErr: "invalid archive format"},
		{name: "no workers", mutate: func(c *Config) { c.WorkerCount = 0 }, wantErr: "workers must be at least 1"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Storage.Backend = StorageS3 }, wantErr: "storage bucket is required"},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage.Backend = "ftp" }, wantErr: "invalid storage backend"},
		{name: "unknown task backend", mutate: func(c *Config) { c.Tasks.Backend = "etcd" }, wantErr: "invalid task backend"},
		{
			name: "redis without address",
			mutate: func(c *Config) {
				c.Tasks.Backend = TasksRedis
				c.Tasks.RedisAddr = ""
			},
			wantErr: "redis address is required",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			got, err := NewConfig(cfg)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, cfg, *got)
		})
	}
}

func TestNewConfig_ReportsEveryProblem(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.LogLevel = "loud"
	cfg.Storage.Backend = "ftp"

	_, err := NewConfig(cfg)
	require.ErrorContains(t, err, "invalid log level")
	require.ErrorContains(t, err, "invalid storage backend")
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "palletforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalogue: ./pallets
workers: 8
archive_format: tar.zst
storage:
  backend: s3
  bucket: artifacts
  endpoint: http://localhost:9000
  url_ttl: 15m
tasks:
  backend: redis
  retention: 24h
`), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, LoadConfigFile(path, &cfg))

	require.Equal(t, "./pallets", cfg.CataloguePath)
	require.Equal(t, 8, cfg.WorkerCount)
	require.Equal(t, "tar.zst", cfg.ArchiveFormat)
	require.Equal(t, StorageS3, cfg.Storage.Backend)
	require.Equal(t, "http://localhost:9000", cfg.Storage.Endpoint)
	require.Equal(t, 15*time.Minute, cfg.Storage.URLTTL)
	require.Equal(t, TasksRedis, cfg.Tasks.Backend)
	require.Equal(t, 24*time.Hour, cfg.Tasks.Retention)
	require.Equal(t, "localhost:6379", cfg.Tasks.RedisAddr, "unset keys keep their defaults")
	require.Equal(t, "skeleton", cfg.SkeletonPath)

	_, err := NewConfig(cfg)
	require.NoError(t, err)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("colour: blue\n"), 0o644))

	cfg := DefaultConfig()
	require.ErrorContains(t, LoadConfigFile(unknown, &cfg), "failed to parse config file")
	require.ErrorContains(t, LoadConfigFile(filepath.Join(dir, "missing.yaml"), &cfg), "failed to read config file")

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	require.NoError(t, LoadConfigFile(empty, &cfg))
}

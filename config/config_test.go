package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alextaconet/en-croissant/pgn"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "data", cfg.DataDir)
	require.Equal(t, "sessions", cfg.SessionsDir)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	require.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	require.Equal(t, "croissant", cfg.MongoDatabase)
	require.Equal(t, pgn.DefaultMaxBytes, cfg.ParseMaxBytes)
	require.Equal(t, pgn.DefaultMaxDepth, cfg.ParseMaxDepth)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "croissant.yaml")
	data := []byte("sessions_dir: /var/lib/croissant/sessions\n" +
		"redis_addr: redis:6379\n" +
		"session_ttl: 1h\n" +
		"parse_max_depth: 16\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "/var/lib/croissant/sessions", cfg.SessionsDir)
	require.Equal(t, "redis:6379", cfg.RedisAddr)
	require.Equal(t, time.Hour, cfg.SessionTTL)
	require.Equal(t, 16, cfg.ParseMaxDepth)
	require.Equal(t, "croissant", cfg.MongoDatabase)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CROISSANT_REDIS_ADDR", "cache:6380")
	t.Setenv("CROISSANT_SESSION_TTL", "90m")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "cache:6380", cfg.RedisAddr)
	require.Equal(t, 90*time.Minute, cfg.SessionTTL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

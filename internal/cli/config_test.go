package cli

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/metaclass/internal/engine"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.SubtypeCache)
	assert.False(t, cfg.ExposeInternalSources)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_FromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "metaclass.yaml"), "subtype_cache: false\nlog_level: debug\n")
	t.Chdir(dir)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.False(t, cfg.SubtypeCache)
	assert.False(t, cfg.ExposeInternalSources)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "expose_internal_sources: true\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.ExposeInternalSources)
	assert.True(t, cfg.SubtypeCache)
}

func TestLoadConfig_ExplicitPathMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "metaclass.yaml"), "subtype_cache: true\nlog_level: warn\n")
	t.Chdir(dir)
	t.Setenv("METACLASS_SUBTYPE_CACHE", "false")
	t.Setenv("METACLASS_LOG_LEVEL", "ERROR")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.False(t, cfg.SubtypeCache)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadConfig_InvalidLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "log_level: loud\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log_level")
}

func TestConfig_NewLogger(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	cfg := &Config{LogLevel: "warn"}
	logger, err := cfg.NewLogger(&buf, false)
	require.NoError(t, err)
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.True(t, logger.Enabled(ctx, slog.LevelWarn))

	verbose, err := cfg.NewLogger(&buf, true)
	require.NoError(t, err)
	assert.True(t, verbose.Enabled(ctx, slog.LevelDebug))

	verbose.Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}

func TestConfig_EngineOptions(t *testing.T) {
	cfg := DefaultConfig()
	assert.Len(t, cfg.EngineOptions(nil), 2)
	assert.Len(t, cfg.EngineOptions(slog.Default()), 3)
}

func TestConfig_DisablesSubtypeCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nocache.yaml")
	writeFile(t, path, "subtype_cache: false\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	eng := engine.New(cfg.EngineOptions(nil)...)
	boolClass, err := eng.Lookup("bool")
	require.NoError(t, err)
	intClass, err := eng.Lookup("int")
	require.NoError(t, err)

	assert.True(t, eng.IsSubtype(boolClass, intClass))
	assert.True(t, eng.IsSubtype(boolClass, intClass))

	stats := eng.OracleStats()
	assert.Zero(t, stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Zero(t, stats.Entries)
}

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tray-menu-app/config"
)

func setAppDataHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("APPDATA", dir)
	return dir
}

func TestLoadStartupConfigWritesDefault(t *testing.T) {
	home := setAppDataHome(t)

	cfg, path := loadStartupConfig("")
	require.NotNil(t, cfg)
	assert.FileExists(t, path)
	assert.True(t, filepath.IsAbs(cfg.Logging.FilePath))
	assert.Contains(t, cfg.History.DatabasePath, home)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfigContent, data)
}

func TestLoadStartupConfigFallsBackOnInvalidFile(t *testing.T) {
	setAppDataHome(t)
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: shout\n"), 0644))

	cfg, got := loadStartupConfig(path)
	assert.Equal(t, path, got)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestSetupLoggerWithFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, handler, level := setupLogger(config.LoggingConfig{
		Level:       "warn",
		FileEnabled: true,
		FilePath:    logPath,
		MaxFileSize: "1MB",
		MaxFiles:    2,
	}, nil)
	assert.Equal(t, slog.LevelWarn, level.Level())

	logger.Warn("⚠️ 写入文件", "k", "v")
	logger.Info("不会写入")
	require.NoError(t, handler.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[WARN] ⚠️ 写入文件 k=v")
	assert.NotContains(t, string(data), "不会写入")
}

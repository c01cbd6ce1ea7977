package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	appDirName      = "TrayMenuApp"
	appDirNameLower = "tray-menu-app"
)

// GetAppDataDir 获取应用数据目录（跨平台）
// Windows: %APPDATA%\TrayMenuApp
// macOS: ~/Library/Application Support/TrayMenuApp
// Linux: $XDG_DATA_HOME/tray-menu-app 或 ~/.local/share/tray-menu-app
func GetAppDataDir() string {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			baseDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(baseDir, appDirName)

	case "darwin":
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "Library", "Application Support", appDirName)

	case "linux":
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			return filepath.Join(xdgDataHome, appDirNameLower)
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".local", "share", appDirNameLower)

	default:
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "."+appDirNameLower)
	}
}

// GetDataDir 数据目录（SQLite 等）
func GetDataDir() string {
	return filepath.Join(GetAppDataDir(), "data")
}

// GetLogDir 日志目录
func GetLogDir() string {
	return filepath.Join(GetAppDataDir(), "logs")
}

// GetConfigPath 默认配置文件路径
func GetConfigPath() string {
	return filepath.Join(GetAppDataDir(), "config.yaml")
}

// EnsureAppDirs 创建应用目录
func EnsureAppDirs() error {
	for _, dir := range []string{GetAppDataDir(), GetDataDir(), GetLogDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// ExpandDirVars 展开 $HOME / $APPDATA / $TEMP 占位符
func ExpandDirVars(path string) string {
	homeDir, _ := os.UserHomeDir()
	replacer := strings.NewReplacer(
		"$HOME", homeDir,
		"$APPDATA", GetAppDataDir(),
		"$TEMP", os.TempDir(),
	)
	return filepath.Clean(replacer.Replace(path))
}

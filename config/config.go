package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Window  WindowConfig  `yaml:"window"`
	Tray    TrayConfig    `yaml:"tray"`
	Logging LoggingConfig `yaml:"logging"`
	Invoke  InvokeConfig  `yaml:"invoke"`
	History HistoryConfig `yaml:"history"`
	Plugins PluginsConfig `yaml:"plugins"`
}

// AppConfig 主窗口初始参数（修改后需重启生效）
type AppConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	MinWidth  int    `yaml:"min_width"`
	MinHeight int    `yaml:"min_height"`
}

// WindowConfig 主窗口显示/隐藏流程参数
type WindowConfig struct {
	MainLabel        string        `yaml:"main_label"`         // 主窗口标识，默认: main
	ShowSettleDelay  time.Duration `yaml:"show_settle_delay"`  // 显示后等待生效的时间，默认: 200ms
	RetrySettleDelay time.Duration `yaml:"retry_settle_delay"` // 重试显示后的等待时间，默认: 100ms
	FinalCheckDelay  time.Duration `yaml:"final_check_delay"`  // 最终可见性检查前的等待，默认: 100ms
	PollInterval     time.Duration `yaml:"poll_interval"`      // >0 时改为轮询等待，0 表示固定等待
}

type TrayConfig struct {
	Enabled bool   `yaml:"enabled"`
	Tooltip string `yaml:"tooltip"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	FileEnabled bool   `yaml:"file_enabled"`  // Enable file logging
	FilePath    string `yaml:"file_path"`     // Log file path
	MaxFileSize string `yaml:"max_file_size"` // Max file size (e.g., "10MB")
	MaxFiles    int    `yaml:"max_files"`     // Max number of rotated files to keep
}

// InvokeConfig 本地命令调用服务（调试/自动化用，默认关闭）
type InvokeConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	MaxConns int    `yaml:"max_conns"`
}

// Addr 监听地址
func (c InvokeConfig) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.Port))
}

// HistoryConfig 命令调用历史（SQLite，默认关闭）
type HistoryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
	MaxRecords   int    `yaml:"max_records"` // 0 表示不限制
}

type PluginsConfig struct {
	FS     FSPluginConfig     `yaml:"fs"`
	Opener OpenerPluginConfig `yaml:"opener"`
}

// FSPluginConfig 文件系统插件
type FSPluginConfig struct {
	// Scope 允许访问的根目录，支持 $HOME / $APPDATA / $TEMP 占位；为空表示不限制
	Scope []string `yaml:"scope"`
}

type OpenerPluginConfig struct {
	AllowedSchemes []string `yaml:"allowed_schemes"`
}

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses, defaults and validates configuration bytes
func Parse(data []byte) (*Config, error) {
	// 等待参数的默认值在解析前填入：显式写 0 表示不等待，与未配置区分
	config := Config{Window: defaultWindowTiming()}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.setDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func defaultWindowTiming() WindowConfig {
	return WindowConfig{
		ShowSettleDelay:  200 * time.Millisecond,
		RetrySettleDelay: 100 * time.Millisecond,
		FinalCheckDelay:  100 * time.Millisecond,
	}
}

// setDefaults sets default values for configuration
func (c *Config) setDefaults() {
	if c.App.Title == "" {
		c.App.Title = "我的托盘菜单应用"
	}
	if c.App.Width == 0 {
		c.App.Width = 800
	}
	if c.App.Height == 0 {
		c.App.Height = 600
	}
	if c.App.MinWidth == 0 {
		c.App.MinWidth = 400
	}
	if c.App.MinHeight == 0 {
		c.App.MinHeight = 300
	}

	if c.Window.MainLabel == "" {
		c.Window.MainLabel = "main"
	}

	if c.Tray.Tooltip == "" {
		c.Tray.Tooltip = c.App.Title
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.FileEnabled && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}
	if c.Logging.FileEnabled && c.Logging.MaxFileSize == "" {
		c.Logging.MaxFileSize = "10MB"
	}
	if c.Logging.FileEnabled && c.Logging.MaxFiles == 0 {
		c.Logging.MaxFiles = 5
	}

	if c.Invoke.Host == "" {
		c.Invoke.Host = "127.0.0.1"
	}
	if c.Invoke.Port == 0 {
		c.Invoke.Port = 17321
	}
	if c.Invoke.MaxConns == 0 {
		c.Invoke.MaxConns = 16
	}

	if c.History.DatabasePath == "" {
		c.History.DatabasePath = "data/history.db"
	}
	if c.History.MaxRecords == 0 {
		c.History.MaxRecords = 1000
	}

	if len(c.Plugins.Opener.AllowedSchemes) == 0 {
		c.Plugins.Opener.AllowedSchemes = []string{"http", "https", "mailto"}
	}
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.App.Width < 0 || c.App.Height < 0 {
		return fmt.Errorf("app: width/height must not be negative")
	}

	if c.Window.ShowSettleDelay < 0 || c.Window.RetrySettleDelay < 0 ||
		c.Window.FinalCheckDelay < 0 || c.Window.PollInterval < 0 {
		return fmt.Errorf("window: delays must not be negative")
	}
	// 单次显示流程在事件线程上阻塞，限制上限
	if total := c.Window.ShowSettleDelay + c.Window.RetrySettleDelay + c.Window.FinalCheckDelay; total > 5*time.Second {
		return fmt.Errorf("window: total show delay %s exceeds 5s", total)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging: invalid level %q", c.Logging.Level)
	}
	if c.Logging.FileEnabled {
		if _, err := humanize.ParseBytes(c.Logging.MaxFileSize); err != nil {
			return fmt.Errorf("logging: invalid max_file_size %q: %w", c.Logging.MaxFileSize, err)
		}
		if c.Logging.MaxFiles < 0 {
			return fmt.Errorf("logging: max_files must not be negative")
		}
	}

	if c.Invoke.Port < 0 || c.Invoke.Port > 65535 {
		return fmt.Errorf("invoke: invalid port %d", c.Invoke.Port)
	}
	if c.Invoke.MaxConns < 0 {
		return fmt.Errorf("invoke: max_conns must not be negative")
	}

	if c.History.MaxRecords < 0 {
		return fmt.Errorf("history: max_records must not be negative")
	}

	for _, scheme := range c.Plugins.Opener.AllowedSchemes {
		if scheme == "" || strings.ContainsAny(scheme, ":/") {
			return fmt.Errorf("plugins.opener: invalid scheme %q", scheme)
		}
	}

	return nil
}

// ResolvePath 将相对路径解析到 baseDir 下，绝对路径原样返回
func ResolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ConfigWatcher watches the configuration file and reloads it on change
type ConfigWatcher struct {
	configPath    string
	config        *Config
	mutex         sync.RWMutex
	watcher       *fsnotify.Watcher
	logger        *slog.Logger
	callbacks     []func(*Config)
	lastModTime   time.Time
	debounceTimer *time.Timer
	debounce      time.Duration
}

// NewConfigWatcher creates a new configuration watcher
func NewConfigWatcher(configPath string, logger *slog.Logger) (*ConfigWatcher, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}

	fileInfo, err := os.Stat(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	cw := &ConfigWatcher{
		configPath:  configPath,
		config:      config,
		watcher:     watcher,
		logger:      logger,
		callbacks:   make([]func(*Config), 0),
		lastModTime: fileInfo.ModTime(),
		debounce:    500 * time.Millisecond,
	}

	if err := watcher.Add(configPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}

	go cw.watchLoop()

	return cw, nil
}

// GetConfig returns the current configuration (thread-safe)
func (cw *ConfigWatcher) GetConfig() *Config {
	cw.mutex.RLock()
	defer cw.mutex.RUnlock()
	return cw.config
}

// Path returns the watched file path
func (cw *ConfigWatcher) Path() string {
	return cw.configPath
}

// UpdateLogger updates the logger used by the config watcher
func (cw *ConfigWatcher) UpdateLogger(logger *slog.Logger) {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()
	cw.logger = logger
}

func (cw *ConfigWatcher) log() *slog.Logger {
	cw.mutex.RLock()
	defer cw.mutex.RUnlock()
	return cw.logger
}

// AddReloadCallback adds a callback function that will be called when config is reloaded
func (cw *ConfigWatcher) AddReloadCallback(callback func(*Config)) {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()
	cw.callbacks = append(cw.callbacks, callback)
}

// watchLoop monitors the config file for changes
func (cw *ConfigWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fileInfo, err := os.Stat(cw.configPath)
				if err != nil {
					cw.log().Warn(fmt.Sprintf("⚠️ 无法获取配置文件信息: %v", err))
					continue
				}

				cw.mutex.Lock()
				if !fileInfo.ModTime().After(cw.lastModTime) {
					cw.mutex.Unlock()
					continue
				}
				cw.lastModTime = fileInfo.ModTime()

				if cw.debounceTimer != nil {
					cw.debounceTimer.Stop()
				}
				cw.debounceTimer = time.AfterFunc(cw.debounce, func() {
					cw.log().Info(fmt.Sprintf("🔄 检测到配置文件变更，正在重新加载... - 文件: %s", event.Name))
					if err := cw.reloadConfig(); err != nil {
						cw.log().Error(fmt.Sprintf("❌ 配置文件重新加载失败: %v", err))
					} else {
						cw.log().Info("✅ 配置文件重新加载成功")
					}
				})
				cw.mutex.Unlock()
			}

			// 部分编辑器保存时会先删除/重命名文件
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				time.Sleep(100 * time.Millisecond)
				if _, err := os.Stat(cw.configPath); err == nil {
					cw.watcher.Add(cw.configPath)
					cw.log().Info(fmt.Sprintf("🔄 重新监听配置文件: %s", cw.configPath))
				}
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.log().Error(fmt.Sprintf("⚠️ 配置文件监听错误: %v", err))
		}
	}
}

// reloadConfig reloads the configuration from file
func (cw *ConfigWatcher) reloadConfig() error {
	newConfig, err := LoadConfig(cw.configPath)
	if err != nil {
		return err
	}

	cw.mutex.Lock()
	oldConfig := cw.config
	cw.config = newConfig
	callbacks := make([]func(*Config), len(cw.callbacks))
	copy(callbacks, cw.callbacks)
	cw.mutex.Unlock()

	for _, callback := range callbacks {
		callback(newConfig)
	}

	cw.logConfigChanges(oldConfig, newConfig)

	return nil
}

// logConfigChanges logs the key differences between old and new configurations
func (cw *ConfigWatcher) logConfigChanges(oldConfig, newConfig *Config) {
	logger := cw.log()

	if oldConfig.Logging.Level != newConfig.Logging.Level {
		logger.Info("📝 日志级别变更",
			"old_level", oldConfig.Logging.Level,
			"new_level", newConfig.Logging.Level)
	}

	if oldConfig.Window != newConfig.Window {
		logger.Info("🪟 窗口显示参数变更",
			"settle", newConfig.Window.ShowSettleDelay,
			"retry", newConfig.Window.RetrySettleDelay,
			"final", newConfig.Window.FinalCheckDelay,
			"poll", newConfig.Window.PollInterval)
	}

	if oldConfig.Tray.Tooltip != newConfig.Tray.Tooltip {
		logger.Info("🔔 托盘提示变更",
			"old_tooltip", oldConfig.Tray.Tooltip,
			"new_tooltip", newConfig.Tray.Tooltip)
	}

	if oldConfig.Invoke != newConfig.Invoke {
		logger.Info("🌐 调用服务配置变更（需重启生效）",
			"enabled", newConfig.Invoke.Enabled,
			"addr", newConfig.Invoke.Addr())
	}

	if oldConfig.History != newConfig.History {
		logger.Info("📊 调用历史配置变更（需重启生效）",
			"enabled", newConfig.History.Enabled)
	}
}

// Close stops the configuration watcher
func (cw *ConfigWatcher) Close() error {
	cw.mutex.Lock()
	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.mutex.Unlock()
	return cw.watcher.Close()
}

// EnsureConfigFile 配置文件不存在时写入默认内容，返回是否新建
func EnsureConfigFile(path string, defaultContent []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, defaultContent, 0644); err != nil {
		return false, fmt.Errorf("failed to write default config: %w", err)
	}
	return true, nil
}

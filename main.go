// main.go - 托盘菜单应用 Wails 入口

package main

import (
	"embed"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"tray-menu-app/config"
	"tray-menu-app/internal/logging"
	"tray-menu-app/internal/menu"
	"tray-menu-app/internal/utils"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

// 版本信息
var (
	Version   = "1.0.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// 命令行参数
var (
	configPath  = flag.String("config", "", "配置文件路径（默认位于应用数据目录）")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

// 嵌入前端资源
//
//go:embed all:frontend/dist
var assets embed.FS

// 嵌入应用图标
//
//go:embed build/appicon.png
var icon []byte

// 嵌入默认配置文件
//
//go:embed config/config.yaml
var defaultConfigContent []byte

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("Tray Menu App\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Built: %s\n", BuildTime)
		os.Exit(0)
	}

	cfg, path := loadStartupConfig(*configPath)

	emitter := logging.NewEventEmitter(nil)
	logger, logHandler, logLevel := setupLogger(cfg.Logging, emitter)
	slog.SetDefault(logger)

	logger.Info("🚀 托盘菜单应用启动中...", "version", Version, "config_file", path)

	app := NewApp(cfg, path)
	app.logger = logger
	app.logHandler = logHandler
	app.logLevel = logLevel
	app.logEmitter = emitter
	app.icon = icon

	// 菜单构建失败时窗口不会打开
	appMenu, err := menu.Build(menu.Default(), app.onMenuClick)
	if err != nil {
		logger.Error("❌ 菜单构建失败", "error", err)
		os.Exit(1)
	}

	err = wails.Run(&options.App{
		Title:     cfg.App.Title,
		Width:     cfg.App.Width,
		Height:    cfg.App.Height,
		MinWidth:  cfg.App.MinWidth,
		MinHeight: cfg.App.MinHeight,

		AssetServer: &assetserver.Options{
			Assets: assets,
		},

		BackgroundColour: &options.RGBA{R: 246, G: 246, B: 246, A: 1},

		Menu: appMenu,

		// 生命周期回调
		OnStartup:     app.startup,
		OnDomReady:    app.domReady,
		OnBeforeClose: app.beforeClose,
		OnShutdown:    app.shutdown,

		// 绑定到前端的方法
		Bind: []interface{}{
			app,
		},

		Mac: &mac.Options{
			About: &mac.AboutInfo{
				Title:   cfg.App.Title,
				Message: fmt.Sprintf("托盘与菜单示例应用\n版本 %s", Version),
				Icon:    icon,
			},
		},

		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			DisableWindowIcon:    false,
		},
	})

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadStartupConfig 在窗口创建前加载配置：首次运行时把内置默认配置写入应用目录，
// 配置文件损坏时回退到内置默认值
func loadStartupConfig(flagPath string) (*config.Config, string) {
	if err := utils.EnsureAppDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️ 无法创建应用目录: %v\n", err)
	}

	path := flagPath
	if path == "" {
		path = utils.GetConfigPath()
		if created, err := config.EnsureConfigFile(path, defaultConfigContent); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️ 无法写入默认配置: %v\n", err)
		} else if created {
			fmt.Printf("📝 已生成默认配置: %s\n", path)
		}
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️ 配置加载失败，使用内置默认配置: %v\n", err)
		cfg, err = config.Parse(defaultConfigContent)
		if err != nil {
			// 内置配置由测试保证可解析
			panic(fmt.Sprintf("内置配置无效: %v", err))
		}
	}

	resolvePaths(cfg)
	return cfg, path
}

// resolvePaths 相对路径统一落到应用数据目录
func resolvePaths(cfg *config.Config) {
	base := utils.GetAppDataDir()
	cfg.Logging.FilePath = config.ResolvePath(base, cfg.Logging.FilePath)
	cfg.History.DatabasePath = config.ResolvePath(base, cfg.History.DatabasePath)
}

// setupLogger 配置结构化日志，返回 logger、处理器和可热更新的级别
func setupLogger(cfg config.LoggingConfig, emitter *logging.EventEmitter) (*slog.Logger, *logging.Handler, *slog.LevelVar) {
	level := &slog.LevelVar{}
	level.Set(logging.ParseLevel(cfg.Level))

	opts := logging.HandlerOptions{Level: level, Emitter: emitter}

	if cfg.FileEnabled {
		maxSize, err := logging.ParseSize(cfg.MaxFileSize)
		if err != nil {
			fmt.Printf("警告：无法解析日志文件大小配置 '%s'，使用默认值 10MB: %v\n", cfg.MaxFileSize, err)
			maxSize = 10 * 1000 * 1000
		}

		rotator, err := logging.NewFileRotator(cfg.FilePath, maxSize, cfg.MaxFiles)
		if err != nil {
			fmt.Printf("警告：无法创建日志文件轮转器: %v\n", err)
		} else {
			opts.File = rotator
			fmt.Printf("🔧 文件日志已启用: 路径=%s\n", cfg.FilePath)
		}
	}

	handler := logging.NewHandler(opts)
	return slog.New(handler), handler, level
}

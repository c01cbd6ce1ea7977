// app.go - Wails 应用核心结构
// 持有窗口、托盘、插件等全部运行时组件，显式传递给各处理函数

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"tray-menu-app/config"
	"tray-menu-app/internal/commands"
	"tray-menu-app/internal/history"
	"tray-menu-app/internal/invoke"
	"tray-menu-app/internal/logging"
	"tray-menu-app/internal/menu"
	"tray-menu-app/internal/plugins"
	"tray-menu-app/internal/tray"
	"tray-menu-app/internal/window"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// historyWriteTimeout 单次写入调用历史的最长等待
const historyWriteTimeout = 5 * time.Second

// App 是 Wails 应用的核心结构
type App struct {
	// Wails 上下文
	ctx context.Context

	config        *config.Config
	configPath    string
	configWatcher *config.ConfigWatcher

	logger     *slog.Logger
	logHandler *logging.Handler
	logLevel   *slog.LevelVar
	logEmitter *logging.EventEmitter

	commands       *commands.Registry
	host           window.Host
	reconciler     *window.Reconciler
	menuDispatcher *menu.Dispatcher
	trayCtrl       tray.Controller
	icon           []byte

	plugins  *plugins.Registry
	fs       *plugins.FS
	dialog   *plugins.Dialog
	notifier *plugins.Notification
	opener   *plugins.Opener

	invokeServer *invoke.Server
	history      history.Store

	// 可替换的宿主行为（测试用）
	exit func(code int)
	emit func(ctx context.Context, event string, data ...interface{})

	startTime time.Time
	mu        sync.RWMutex
	isRunning bool
}

// NewApp 创建应用实例，组件在 startup 中初始化
func NewApp(cfg *config.Config, configPath string) *App {
	a := &App{
		config:     cfg,
		configPath: configPath,
		logger:     slog.Default(),
		exit:       os.Exit,
		emit:       runtime.EventsEmit,
		startTime:  time.Now(),
	}
	a.commands = commands.NewRegistry(commands.WithObserver(a.observeInvocation))
	a.menuDispatcher = menu.NewDispatcher(a.emitToMain, a.quit, a.logger)
	return a
}

// startup 在 Wails 应用启动时调用
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	if a.logEmitter != nil {
		a.logEmitter.Start(ctx)
	}

	// 1. 窗口宿主与显示流程
	a.setupWindow(window.NewWailsHost(ctx, a.config.Window.MainLabel, false))

	// 2. 插件
	if err := a.setupPlugins(ctx); err != nil {
		a.logger.Error("❌ 插件初始化失败", "error", err)
		a.emitError("插件初始化失败", err.Error())
	}

	// 3. 调用历史（可选）
	a.setupHistory(ctx)

	// 4. 托盘
	a.setupTray(ctx)

	// 5. 本地命令调用服务（可选）
	a.startInvokeServer()

	// 6. 配置热重载
	a.setupConfigReload()

	a.mu.Lock()
	a.isRunning = true
	a.mu.Unlock()

	a.logger.Info("✅ 托盘菜单应用启动完成", "plugins", a.plugins.Names())
}

// shutdown 在 Wails 应用关闭时调用
func (a *App) shutdown(ctx context.Context) {
	a.mu.Lock()
	a.isRunning = false
	trayCtrl := a.trayCtrl
	invokeServer := a.invokeServer
	store := a.history
	configWatcher := a.configWatcher
	a.trayCtrl = nil
	a.invokeServer = nil
	a.history = nil
	a.mu.Unlock()

	a.logger.Info("🛑 正在关闭托盘菜单应用...")

	if invokeServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := invokeServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("命令调用服务关闭失败", "error", err)
		}
		cancel()
	}

	if store != nil {
		if err := store.Close(); err != nil {
			a.logger.Error("调用历史数据库关闭失败", "error", err)
		}
	}

	if trayCtrl != nil {
		trayCtrl.Stop()
	}

	if configWatcher != nil {
		_ = configWatcher.Close()
	}

	if a.logEmitter != nil {
		a.logEmitter.Stop()
	}

	a.logger.Info("✅ 托盘菜单应用已关闭")

	if a.logHandler != nil {
		_ = a.logHandler.Close()
	}
}

// domReady 在前端 DOM 准备就绪时调用
func (a *App) domReady(ctx context.Context) {
	a.emitSystemStatus()
}

// beforeClose 关闭主窗口时隐藏到托盘而不是退出
func (a *App) beforeClose(ctx context.Context) bool {
	if a.reconciler == nil {
		return false
	}
	return a.reconciler.CloseRequested(a.reconciler.Label())
}

// quit 立即结束进程（托盘退出、菜单退出），不做清理
func (a *App) quit(code int) {
	a.logger.Info("👋 应用退出", "code", code)
	a.exit(code)
}

func (a *App) setupWindow(host window.Host) {
	a.host = host
	a.reconciler = window.NewReconciler(host,
		window.WithLabel(a.config.Window.MainLabel),
		window.WithTiming(timingFromConfig(a.config.Window)),
		window.WithLogger(a.logger),
	)
}

func timingFromConfig(cfg config.WindowConfig) window.Timing {
	return window.Timing{
		SettleDelay:     cfg.ShowSettleDelay,
		RetryDelay:      cfg.RetrySettleDelay,
		FinalCheckDelay: cfg.FinalCheckDelay,
		PollInterval:    cfg.PollInterval,
	}
}

func (a *App) setupPlugins(ctx context.Context) error {
	a.fs = plugins.NewFS(a.config.Plugins.FS.Scope)
	a.dialog = plugins.NewDialog(nil)
	a.notifier = plugins.NewNotification(a.emit)
	a.opener = plugins.NewOpener(a.config.Plugins.Opener.AllowedSchemes, nil)

	a.plugins = plugins.NewRegistry()
	for _, p := range []plugins.Plugin{a.fs, a.dialog, a.notifier, a.opener} {
		if err := a.plugins.Register(p); err != nil {
			return err
		}
	}
	return a.plugins.Init(ctx)
}

func (a *App) setupHistory(ctx context.Context) {
	cfg := a.config.History
	if !cfg.Enabled {
		return
	}

	store, err := history.Open(ctx, cfg.DatabasePath, cfg.MaxRecords, a.logger)
	if err != nil {
		a.logger.Warn("⚠️ 调用历史不可用", "error", err)
		a.emitNotification("warning", "调用历史不可用", err.Error())
		return
	}

	a.mu.Lock()
	a.history = store
	a.mu.Unlock()
}

func (a *App) setupTray(ctx context.Context) {
	if !a.config.Tray.Enabled {
		a.logger.Info("托盘已禁用")
		return
	}

	ctrl, err := tray.Start(ctx, tray.Options{
		Icon:    a.icon,
		Tooltip: a.config.Tray.Tooltip,
		OnShow:  a.showFromTray,
		OnHide:  a.hideFromTray,
		OnQuit:  func() { a.quit(0) },
	})
	if err != nil {
		a.logger.Warn("⚠️ 托盘启动失败", "error", err)
		return
	}

	a.mu.Lock()
	a.trayCtrl = ctrl
	a.mu.Unlock()
	a.logger.Info("🖥️ 系统托盘已启动")
}

func (a *App) showFromTray() {
	if _, err := a.reconciler.Show(a.ctx); err != nil {
		a.logger.Error("❌ 托盘：显示窗口失败", "error", err)
	}
}

func (a *App) hideFromTray() {
	if err := a.reconciler.Hide(a.ctx); err != nil {
		a.logger.Error("❌ 托盘：隐藏窗口失败", "error", err)
	}
}

// onMenuClick 菜单点击回调（Wails 在 UI 线程调用）
func (a *App) onMenuClick(id menu.ID) {
	a.menuDispatcher.Dispatch(id)
}

func (a *App) startInvokeServer() {
	cfg := a.config.Invoke
	if !cfg.Enabled {
		return
	}

	srv := invoke.NewServer(a.commands, invoke.Options{Addr: cfg.Addr(), MaxConns: cfg.MaxConns}, a.logger)
	if err := srv.Start(); err != nil {
		a.logger.Error("❌ 命令调用服务启动失败", "error", err)
		a.emitError("命令调用服务启动失败", err.Error())
		return
	}
	if cfg.Host != "127.0.0.1" && cfg.Host != "localhost" && cfg.Host != "::1" {
		a.logger.Warn("⚠️ 安全警告：命令调用服务绑定到非本地地址")
	}

	a.mu.Lock()
	a.invokeServer = srv
	a.mu.Unlock()
}

// setupConfigReload 设置配置热重载
func (a *App) setupConfigReload() {
	watcher, err := config.NewConfigWatcher(a.configPath, a.logger)
	if err != nil {
		a.logger.Warn("⚠️ 配置热重载不可用", "error", err)
		return
	}
	a.configWatcher = watcher
	watcher.AddReloadCallback(a.applyConfig)
	a.logger.Info("🔄 配置热重载已启用")
}

// applyConfig 应用热更新的配置；窗口尺寸、文件日志、命令调用服务和调用历史开关需重启生效
func (a *App) applyConfig(newCfg *config.Config) {
	resolvePaths(newCfg)

	a.mu.Lock()
	a.config = newCfg
	trayCtrl := a.trayCtrl
	store := a.history
	a.mu.Unlock()

	if a.logLevel != nil {
		a.logLevel.Set(logging.ParseLevel(newCfg.Logging.Level))
	}
	if a.reconciler != nil {
		a.reconciler.SetTiming(timingFromConfig(newCfg.Window))
	}
	if trayCtrl != nil {
		trayCtrl.SetTooltip(newCfg.Tray.Tooltip)
	}
	if a.fs != nil {
		a.fs.SetScope(newCfg.Plugins.FS.Scope)
	}
	if a.opener != nil {
		a.opener.SetAllowedSchemes(newCfg.Plugins.Opener.AllowedSchemes)
	}
	if s, ok := store.(*history.SQLiteStore); ok {
		s.SetMaxRecords(newCfg.History.MaxRecords)
	}

	a.logger.Info("🔄 配置已重新加载")
	a.emitConfigReloaded()
}

// observeInvocation 记录经命令注册表发起的调用
func (a *App) observeInvocation(ctx context.Context, name string, args json.RawMessage, result any, err error) {
	a.recordInvocation(ctx, name, string(args), result, err)
}

// recordInvocation 写入调用历史（未启用时忽略）
func (a *App) recordInvocation(ctx context.Context, name, args string, result any, callErr error) {
	a.mu.RLock()
	store := a.history
	a.mu.RUnlock()
	if store == nil {
		return
	}

	rec := &history.Record{Command: name, Args: args}
	if callErr != nil {
		rec.Error = callErr.Error()
	} else if data, err := json.Marshal(result); err == nil {
		rec.Result = string(data)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyWriteTimeout)
	defer cancel()
	if err := store.Append(writeCtx, rec); err != nil {
		a.logger.Warn("⚠️ 写入调用历史失败", "command", name, "error", err)
	}
}

func marshalArgs(args map[string]any) string {
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(data)
}

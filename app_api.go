// app_api.go - 暴露给前端的 API 方法 (Wails Bindings)
// 这些方法会被自动生成为 JavaScript 调用
//
// API 文件按功能模块拆分:
// - app_api.go         - 命令、系统状态 (本文件)
// - app_api_window.go  - 主窗口控制
// - app_api_plugins.go - 文件系统、对话框、通知、链接打开
// - app_api_history.go - 调用历史

package main

import (
	"fmt"
	"runtime"
	"time"

	"tray-menu-app/internal/commands"
)

// ============================================================
// 命令 API
// ============================================================

// Greet 问候
func (a *App) Greet(name string) string {
	result := commands.Greet(name)
	a.recordInvocation(a.ctx, "greet", marshalArgs(map[string]any{"name": name}), result, nil)
	return result
}

// Calculate 四则运算，operation 为 add / subtract / multiply / divide
func (a *App) Calculate(operation string, x, y float64) (float64, error) {
	result, err := commands.Calculate(operation, x, y)
	a.recordInvocation(a.ctx, "calculate",
		marshalArgs(map[string]any{"operation": operation, "a": x, "b": y}), result, err)
	return result, err
}

// SafeDivide 除法，除数为零时返回错误
func (a *App) SafeDivide(x, y float64) (float64, error) {
	result, err := commands.SafeDivide(x, y)
	a.recordInvocation(a.ctx, "safe_divide", marshalArgs(map[string]any{"a": x, "b": y}), result, err)
	return result, err
}

// ProcessNumbers 统计求和、平均值、最大值和最小值
func (a *App) ProcessNumbers(numbers []float64) commands.Statistics {
	stats := commands.ProcessNumbers(numbers)
	a.recordInvocation(a.ctx, "process_numbers", marshalArgs(map[string]any{"numbers": numbers}), stats, nil)
	return stats
}

// GetTimestamp 当前 UNIX 时间戳（秒）
func (a *App) GetTimestamp() uint64 {
	ts := commands.Timestamp(time.Now())
	a.recordInvocation(a.ctx, "get_timestamp", "{}", ts, nil)
	return ts
}

// GetSystemInfo 操作系统类型
func (a *App) GetSystemInfo() string {
	info := commands.SystemInfo()
	a.recordInvocation(a.ctx, "get_system_info", "{}", info, nil)
	return info
}

// ListCommands 可按名称调用的命令
func (a *App) ListCommands() []string {
	return a.commands.Names()
}

// InvokeCommand 按名称调用命令，argsJSON 为命名参数对象
func (a *App) InvokeCommand(name, argsJSON string) (any, error) {
	return a.commands.Invoke(a.apiContext(), name, []byte(argsJSON))
}

// ============================================================
// 系统状态 API
// ============================================================

// SystemStatus 系统状态结构
type SystemStatus struct {
	Version        string   `json:"version"`
	OS             string   `json:"os"`
	Uptime         string   `json:"uptime"`
	UptimeSeconds  int64    `json:"uptime_seconds"`
	StartTime      string   `json:"start_time"` // ISO8601 格式的启动时间
	ConfigPath     string   `json:"config_path"`
	Running        bool     `json:"running"`
	TrayEnabled    bool     `json:"tray_enabled"`
	HistoryEnabled bool     `json:"history_enabled"`
	InvokeAddress  string   `json:"invoke_address"`
	Plugins        []string `json:"plugins"`
}

// GetSystemStatus 获取系统状态
func (a *App) GetSystemStatus() SystemStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()

	uptime := time.Since(a.startTime)

	status := SystemStatus{
		Version:        Version,
		OS:             runtime.GOOS,
		Uptime:         formatDuration(uptime),
		UptimeSeconds:  int64(uptime.Seconds()),
		StartTime:      a.startTime.Format(time.RFC3339),
		ConfigPath:     a.configPath,
		Running:        a.isRunning,
		TrayEnabled:    a.trayCtrl != nil,
		HistoryEnabled: a.history != nil,
		Plugins:        []string{},
	}
	if a.invokeServer != nil {
		status.InvokeAddress = a.invokeServer.Addr()
	}
	if a.plugins != nil {
		status.Plugins = a.plugins.Names()
	}

	return status
}

// formatDuration 格式化时长为 "1h2m3s" 风格
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

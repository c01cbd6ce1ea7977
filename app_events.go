// app_events.go - Wails 事件发射
// 将 Go 后端状态变化通知到前端

package main

import (
	"tray-menu-app/internal/menu"
	"tray-menu-app/internal/plugins"
)

// 事件名称常量
const (
	EventSystemStatus   = "system:status"
	EventConfigReloaded = "config:reloaded"
	EventHistoryUpdate  = "history:update"
	EventError          = "error"
	EventMenuAction     = menu.EventMenuAction
	EventNotification   = plugins.EventNotification
)

// emitToMain 向主窗口发送事件（Wails v2 只有一个窗口）
func (a *App) emitToMain(event string, data ...any) {
	if a.ctx == nil {
		return
	}
	a.emit(a.ctx, event, data...)
}

// emitSystemStatus 发送系统状态更新到前端
func (a *App) emitSystemStatus() {
	a.emitToMain(EventSystemStatus, a.GetSystemStatus())
}

// emitConfigReloaded 通知前端配置已重载
func (a *App) emitConfigReloaded() {
	a.emitToMain(EventConfigReloaded, nil)
}

// emitError 发送错误通知到前端
func (a *App) emitError(title, message string) {
	a.emitToMain(EventError, map[string]string{
		"title":   title,
		"message": message,
	})
}

// emitNotification 发送通知到前端，通知插件未就绪时直接发事件
func (a *App) emitNotification(level, title, message string) {
	if a.notifier != nil {
		if _, err := a.notifier.SendLevel(level, title, message); err == nil {
			return
		}
	}
	a.emitToMain(EventNotification, map[string]string{
		"level":   level, // "info", "warning", "error", "success"
		"title":   title,
		"message": message,
	})
}

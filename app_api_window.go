package main

import (
	"fmt"

	"tray-menu-app/internal/window"
)

// windowControls 宿主提供的额外窗口控制（WailsHost 实现）
type windowControls interface {
	SetTitle(title string)
	SetSize(size window.Size)
}

func (a *App) mainWindow() (window.Window, error) {
	if a.reconciler == nil {
		return nil, fmt.Errorf("窗口尚未初始化")
	}
	w, ok := a.host.Window(a.reconciler.Label())
	if !ok {
		return nil, fmt.Errorf("%w: %s", window.ErrWindowNotFound, a.reconciler.Label())
	}
	return w, nil
}

// ShowMainWindow 显示主窗口（完整的显示-复查-重试流程）
func (a *App) ShowMainWindow() (window.ShowResult, error) {
	if a.reconciler == nil {
		return window.ShowResult{}, fmt.Errorf("窗口尚未初始化")
	}
	return a.reconciler.Show(a.ctx)
}

// HideMainWindow 隐藏主窗口到托盘
func (a *App) HideMainWindow() error {
	if a.reconciler == nil {
		return fmt.Errorf("窗口尚未初始化")
	}
	return a.reconciler.Hide(a.ctx)
}

// ToggleMainWindow 切换主窗口可见性（托盘图标激活的统一入口）
func (a *App) ToggleMainWindow() error {
	if a.reconciler == nil {
		return fmt.Errorf("窗口尚未初始化")
	}
	return a.reconciler.Toggle(a.ctx)
}

// CenterMainWindow 主窗口居中
func (a *App) CenterMainWindow() error {
	w, err := a.mainWindow()
	if err != nil {
		return err
	}
	return w.Center()
}

// SetMainWindowTitle 设置主窗口标题
func (a *App) SetMainWindowTitle(title string) error {
	wc, ok := a.host.(windowControls)
	if !ok {
		return fmt.Errorf("当前宿主不支持设置窗口标题")
	}
	wc.SetTitle(title)
	return nil
}

// SetMainWindowSize 设置主窗口尺寸，size 形如 "800x600"
func (a *App) SetMainWindowSize(size string) error {
	parsed, err := window.ParseSize(size)
	if err != nil {
		return err
	}
	wc, ok := a.host.(windowControls)
	if !ok {
		return fmt.Errorf("当前宿主不支持设置窗口尺寸")
	}
	wc.SetSize(parsed)
	return nil
}

package main

import (
	"fmt"

	"tray-menu-app/internal/plugins"
)

// ============================================================
// 文件系统
// ============================================================

func (a *App) fsPlugin() (*plugins.FS, error) {
	if a.fs == nil {
		return nil, fmt.Errorf("文件系统插件尚未初始化")
	}
	return a.fs, nil
}

// ReadTextFile 读取文本文件（限于允许访问的目录）
func (a *App) ReadTextFile(path string) (string, error) {
	fs, err := a.fsPlugin()
	if err != nil {
		return "", err
	}
	return fs.ReadTextFile(path)
}

// WriteTextFile 写入文本文件
func (a *App) WriteTextFile(path, contents string) error {
	fs, err := a.fsPlugin()
	if err != nil {
		return err
	}
	return fs.WriteTextFile(path, contents)
}

// ReadDir 列出目录
func (a *App) ReadDir(path string) ([]plugins.DirEntry, error) {
	fs, err := a.fsPlugin()
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(path)
}

// PathExists 路径是否存在
func (a *App) PathExists(path string) (bool, error) {
	fs, err := a.fsPlugin()
	if err != nil {
		return false, err
	}
	return fs.Exists(path)
}

// RemovePath 删除文件或空目录
func (a *App) RemovePath(path string) error {
	fs, err := a.fsPlugin()
	if err != nil {
		return err
	}
	return fs.Remove(path)
}

// ============================================================
// 对话框
// ============================================================

// OpenFileDialog 打开文件选择框，取消时返回空字符串
func (a *App) OpenFileDialog(title string, filters []plugins.FileFilter) (string, error) {
	if a.dialog == nil {
		return "", fmt.Errorf("对话框插件尚未初始化")
	}
	return a.dialog.OpenFile(title, filters)
}

// SaveFileDialog 打开保存对话框，取消时返回空字符串
func (a *App) SaveFileDialog(defaultName string, filters []plugins.FileFilter) (string, error) {
	if a.dialog == nil {
		return "", fmt.Errorf("对话框插件尚未初始化")
	}
	return a.dialog.SaveFile(defaultName, filters)
}

// MessageDialog 显示提示框，kind 为 info / warning / error
func (a *App) MessageDialog(kind, title, message string) error {
	if a.dialog == nil {
		return fmt.Errorf("对话框插件尚未初始化")
	}
	return a.dialog.Message(kind, title, message)
}

// AskDialog 显示是/否询问框
func (a *App) AskDialog(title, message string) (bool, error) {
	if a.dialog == nil {
		return false, fmt.Errorf("对话框插件尚未初始化")
	}
	return a.dialog.Ask(title, message)
}

// ============================================================
// 通知
// ============================================================

// IsNotificationPermissionGranted 桌面通知权限，始终为 true
func (a *App) IsNotificationPermissionGranted() bool {
	return a.notifier == nil || a.notifier.IsPermissionGranted()
}

// RequestNotificationPermission 申请通知权限，始终返回 "granted"
func (a *App) RequestNotificationPermission() string {
	return plugins.PermissionGranted
}

// SendNotification 发送通知
func (a *App) SendNotification(title, body string) (plugins.Notice, error) {
	if a.notifier == nil {
		return plugins.Notice{}, fmt.Errorf("通知插件尚未初始化")
	}
	return a.notifier.Send(title, body)
}

// ============================================================
// 外部链接
// ============================================================

// OpenURL 用系统浏览器打开链接（仅允许白名单协议）
func (a *App) OpenURL(url string) error {
	if a.opener == nil {
		return fmt.Errorf("打开器插件尚未初始化")
	}
	return a.opener.OpenURL(url)
}

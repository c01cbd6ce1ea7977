package tray

import (
	"context"
	"fmt"
)

// Controller 表示托盘控制器
type Controller interface {
	Stop()
	// SetTooltip 更新悬浮提示（配置热重载）
	SetTooltip(tooltip string)
}

// Options 托盘启动参数。
type Options struct {
	// Icon 托盘图标内容（Windows 推荐 .ico 字节；其它平台可忽略）。
	Icon []byte

	// Tooltip 托盘悬浮提示文本。
	Tooltip string

	// OnShow 点击“显示窗口”时触发。
	OnShow func()

	// OnHide 点击“隐藏窗口”时触发。
	OnHide func()

	// OnQuit 点击“退出”时触发，应直接结束进程。
	OnQuit func()
}

// EntryID 托盘菜单项标识
type EntryID int

const (
	Show EntryID = iota + 1
	Hide
	Quit
)

func (id EntryID) String() string {
	switch id {
	case Show:
		return "show"
	case Hide:
		return "hide"
	case Quit:
		return "quit"
	}
	return fmt.Sprintf("EntryID(%d)", int(id))
}

// Entry 托盘菜单项
type Entry struct {
	ID      EntryID
	Label   string
	Tooltip string
}

// Entries 固定的三项托盘菜单
func Entries() []Entry {
	return []Entry{
		{ID: Show, Label: "显示窗口", Tooltip: "显示应用主窗口"},
		{ID: Hide, Label: "隐藏窗口", Tooltip: "隐藏到托盘"},
		{ID: Quit, Label: "退出", Tooltip: "退出应用"},
	}
}

// Dispatch 把菜单项点击映射到对应回调
func Dispatch(id EntryID, opts Options) {
	var fn func()
	switch id {
	case Show:
		fn = opts.OnShow
	case Hide:
		fn = opts.OnHide
	case Quit:
		fn = opts.OnQuit
	}
	if fn != nil {
		fn()
	}
}

// Start 启动系统托盘（平台相关实现）。
func Start(ctx context.Context, opts Options) (Controller, error) {
	return start(ctx, opts)
}

package menu

import (
	"log/slog"
)

// EventMenuAction 发往主窗口的菜单事件名，载荷为菜单项字符串标识
const EventMenuAction = "menu-action"

// EmitFunc 向前端发送事件
type EmitFunc func(event string, data ...any)

// Dispatcher 菜单点击分发：退出项直接结束进程，其余交给前端决定行为
type Dispatcher struct {
	emit   EmitFunc
	exit   func(code int)
	logger *slog.Logger
}

// NewDispatcher 创建分发器，exit 一般为 os.Exit
func NewDispatcher(emit EmitFunc, exit func(int), logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{emit: emit, exit: exit, logger: logger}
}

// Dispatch 处理一次菜单点击
func (d *Dispatcher) Dispatch(id ID) {
	switch id {
	case QuitApp:
		d.logger.Info("👋 菜单：退出应用")
		d.exit(0)
	case New, Open, Save, SaveAs, Undo, Redo, Cut, Copy, Paste, ZoomIn, ZoomOut, ZoomReset, About:
		d.logger.Debug("菜单操作", "id", id.String())
		if d.emit != nil {
			d.emit(EventMenuAction, id.String())
		}
	default:
		d.logger.Warn("⚠️ 未知菜单项", "id", int(id))
	}
}

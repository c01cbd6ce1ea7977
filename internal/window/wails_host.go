package window

import (
	"context"
	"sync/atomic"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// WailsHost 基于 Wails v2 runtime 的宿主实现。Wails v2 只有一个窗口。
//
// Wails v2 没有查询窗口可见性的接口，这里记录最近一次由本进程发出的
// show/hide 结果作为可见状态；最小化状态仍然实时查询。
type WailsHost struct {
	ctx   context.Context
	main  *wailsWindow
	label string
}

// NewWailsHost 创建宿主，ctx 必须是 Wails OnStartup 传入的上下文。
// startHidden 对应 options.App.StartHidden。
func NewWailsHost(ctx context.Context, label string, startHidden bool) *WailsHost {
	if label == "" {
		label = MainLabel
	}
	w := &wailsWindow{ctx: ctx, label: label}
	w.visible.Store(!startHidden)
	return &WailsHost{ctx: ctx, main: w, label: label}
}

// Window 实现 Host
func (h *WailsHost) Window(label string) (Window, bool) {
	if h.ctx == nil || label != h.label {
		return nil, false
	}
	return h.main, true
}

// Labels 实现 Host
func (h *WailsHost) Labels() []string {
	if h.ctx == nil {
		return nil
	}
	return []string{h.label}
}

// SetTitle 设置主窗口标题
func (h *WailsHost) SetTitle(title string) {
	runtime.WindowSetTitle(h.ctx, title)
}

// SetSize 设置主窗口尺寸
func (h *WailsHost) SetSize(size Size) {
	runtime.WindowSetSize(h.ctx, size.Width, size.Height)
}

type wailsWindow struct {
	ctx     context.Context
	label   string
	visible atomic.Bool
}

func (w *wailsWindow) Label() string { return w.label }

func (w *wailsWindow) IsVisible() (bool, error) {
	return w.visible.Load(), nil
}

func (w *wailsWindow) IsMinimised() (bool, error) {
	return runtime.WindowIsMinimised(w.ctx), nil
}

func (w *wailsWindow) Show() error {
	runtime.WindowShow(w.ctx)
	w.visible.Store(true)
	return nil
}

func (w *wailsWindow) Hide() error {
	runtime.WindowHide(w.ctx)
	w.visible.Store(false)
	return nil
}

func (w *wailsWindow) Unminimise() error {
	runtime.WindowUnminimise(w.ctx)
	return nil
}

func (w *wailsWindow) Center() error {
	runtime.WindowCenter(w.ctx)
	return nil
}

// SetFocus 通过临时置顶把窗口带到前台
func (w *wailsWindow) SetFocus() error {
	runtime.WindowSetAlwaysOnTop(w.ctx, true)
	runtime.WindowSetAlwaysOnTop(w.ctx, false)
	return nil
}

// Package window 负责主窗口的显示/隐藏协调（最小化到托盘）。
//
// 可见性状态由宿主窗口系统持有，本包只在需要时查询，不做缓存：
// 宿主的 show/hide 可能异步生效，每次变更后都要重新查询。
package window

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MainLabel 主窗口的固定标识
const MainLabel = "main"

// ErrWindowNotFound 按标识找不到窗口
var ErrWindowNotFound = errors.New("窗口不存在")

// Window 宿主窗口句柄，所有调用都可能失败
type Window interface {
	Label() string
	IsVisible() (bool, error)
	IsMinimised() (bool, error)
	Show() error
	Hide() error
	Unminimise() error
	Center() error
	SetFocus() error
}

// Host 宿主窗口系统
type Host interface {
	// Window 按标识获取窗口
	Window(label string) (Window, bool)
	// Labels 当前所有窗口标识（诊断用）
	Labels() []string
}

// Size 窗口逻辑尺寸
type Size struct {
	Width  int
	Height int
}

// ParseSize 解析 "800x600" 形式的尺寸
func ParseSize(s string) (Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Size{}, fmt.Errorf("无效的窗口尺寸 %q: 应为 宽x高", s)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return Size{}, fmt.Errorf("无效的窗口宽度 %q: %w", w, err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return Size{}, fmt.Errorf("无效的窗口高度 %q: %w", h, err)
	}
	if width <= 0 || height <= 0 {
		return Size{}, fmt.Errorf("无效的窗口尺寸 %q: 宽高必须为正数", s)
	}
	return Size{Width: width, Height: height}, nil
}

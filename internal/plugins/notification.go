package plugins

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// EventNotification 前端订阅的通知事件
const EventNotification = "notification"

// PermissionGranted 桌面端通知无需授权
const PermissionGranted = "granted"

// EmitFunc 事件发送函数，签名与 runtime.EventsEmit 一致
type EmitFunc func(ctx context.Context, event string, data ...interface{})

// Notice 一条通知
type Notice struct {
	ID        string `json:"id"`
	Level     string `json:"level"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Timestamp int64  `json:"timestamp"`
}

// Notification 通过 Wails 事件把通知交给前端展示
type Notification struct {
	emit EmitFunc
	now  func() time.Time

	mu  sync.RWMutex
	ctx context.Context
}

// NewNotification 创建通知插件，emit 为空时使用 Wails runtime
func NewNotification(emit EmitFunc) *Notification {
	if emit == nil {
		emit = runtime.EventsEmit
	}
	return &Notification{emit: emit, now: time.Now}
}

func (n *Notification) Name() string { return "notification" }

func (n *Notification) Init(ctx context.Context) error {
	n.mu.Lock()
	n.ctx = ctx
	n.mu.Unlock()
	return nil
}

// IsPermissionGranted 始终为 true
func (n *Notification) IsPermissionGranted() bool { return true }

// RequestPermission 始终返回 granted
func (n *Notification) RequestPermission() string { return PermissionGranted }

// Send 发送 info 级别通知
func (n *Notification) Send(title, body string) (Notice, error) {
	return n.SendLevel("info", title, body)
}

// SendLevel 发送指定级别（info / success / warning / error）的通知
func (n *Notification) SendLevel(level, title, body string) (Notice, error) {
	n.mu.RLock()
	ctx := n.ctx
	n.mu.RUnlock()

	if ctx == nil {
		return Notice{}, fmt.Errorf("通知插件尚未初始化")
	}
	if title == "" {
		return Notice{}, fmt.Errorf("通知标题不能为空")
	}

	notice := Notice{
		ID:        uuid.NewString(),
		Level:     level,
		Title:     title,
		Body:      body,
		Timestamp: n.now().UnixMilli(),
	}
	n.emit(ctx, EventNotification, notice)
	return notice, nil
}

package logging

import (
	"context"
	"sync"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// EventLogBatch 前端订阅的日志批量事件
const EventLogBatch = "log:batch"

// EmitFunc 事件发送函数，签名与 runtime.EventsEmit 一致
type EmitFunc func(ctx context.Context, event string, data ...interface{})

// EventEmitter 把日志攒批后以 log:batch 事件推给前端。
//
// Start 之前写入的日志先留在待发送缓冲里，窗口就绪后一并补发，
// 这样启动阶段的日志也能出现在前端面板上。缓冲有上限，写满时
// 丢弃 DEBUG/INFO，WARN/ERROR 挤掉最旧的一条。
type EventEmitter struct {
	emit          EmitFunc
	batchSize     int
	flushInterval time.Duration
	maxPending    int

	mu      sync.Mutex
	pending []LogEntry
	dropped uint64
	running bool
	stopped bool
	wake    chan struct{}
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewEventEmitter 创建事件发射器，emit 为空时使用 Wails runtime
func NewEventEmitter(emit EmitFunc) *EventEmitter {
	if emit == nil {
		emit = runtime.EventsEmit
	}
	return &EventEmitter{
		emit:          emit,
		batchSize:     10,
		flushInterval: 100 * time.Millisecond,
		maxPending:    2000,
		wake:          make(chan struct{}, 1),
	}
}

// Start 开始向前端发送（窗口 startup 之后调用），重复调用无效果
func (e *EventEmitter) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running || e.stopped {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	e.running = true
	e.cancel = cancel
	e.done = make(chan struct{})

	go e.run(ctx, loopCtx, e.done)
	e.signal()
}

// Stop 发出剩余日志后停止，之后的 Emit 被忽略
func (e *EventEmitter) Stop() {
	e.mu.Lock()
	e.stopped = true
	if !e.running {
		e.pending = nil
		e.mu.Unlock()
		return
	}
	e.running = false
	cancel, done := e.cancel, e.done
	e.mu.Unlock()

	cancel()
	<-done
}

// Emit 记录一条日志，不阻塞调用方
func (e *EventEmitter) Emit(entry LogEntry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}

	if len(e.pending) >= e.maxPending {
		if entry.Level != "WARN" && entry.Level != "ERROR" {
			e.dropped++
			return
		}
		e.pending = e.pending[1:]
		e.dropped++
	}
	e.pending = append(e.pending, entry)

	if e.running && len(e.pending) >= e.batchSize {
		e.signal()
	}
}

// IsEnabled 是否正在向前端发送
func (e *EventEmitter) IsEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Dropped 因缓冲已满被丢弃的日志条数
func (e *EventEmitter) Dropped() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dropped
}

// signal 需持有 e.mu
func (e *EventEmitter) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// take 取出最多 n 条待发送日志，返回独立的切片
func (e *EventEmitter) take(n int) []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) == 0 {
		return nil
	}
	n = min(n, len(e.pending))
	batch := make([]LogEntry, n)
	copy(batch, e.pending)
	e.pending = e.pending[n:]
	if len(e.pending) == 0 {
		e.pending = nil
	}
	return batch
}

// run 中 emitCtx 是传给 Wails 的应用上下文，loopCtx 控制循环退出
func (e *EventEmitter) run(emitCtx, loopCtx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(e.flushInterval)
	defer ticker.Stop()

	drain := func() {
		for batch := e.take(e.batchSize); batch != nil; batch = e.take(e.batchSize) {
			e.emit(emitCtx, EventLogBatch, batch)
		}
	}

	for {
		select {
		case <-loopCtx.Done():
			drain()
			return
		case <-e.wake:
			drain()
		case <-ticker.C:
			drain()
		}
	}
}

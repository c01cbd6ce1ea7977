// Package logging 提供控制台/文件日志处理器，以及向前端推送日志的事件发射器。
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// LogEntry 推送给前端的日志条目
type LogEntry struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// maxConsoleMessage 控制台单条日志的最大长度
const maxConsoleMessage = 500

// ParseLevel 解析日志级别，未知值按 info 处理
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Handler 简化的日志处理器：
// [时间] [PID:n] [GID:n] [LEVEL] message k=v ...
type Handler struct {
	level   *slog.LevelVar
	console io.Writer
	file    io.Writer
	emitter *EventEmitter

	mu    *sync.Mutex
	attrs []string // WithAttrs 时已按当时的分组格式化
	group string
}

// HandlerOptions Handler 构造参数
type HandlerOptions struct {
	Level   *slog.LevelVar
	Console io.Writer // 默认 os.Stdout
	File    io.Writer // 可选，一般为 *FileRotator
	Emitter *EventEmitter
}

// NewHandler 创建处理器
func NewHandler(opts HandlerOptions) *Handler {
	h := &Handler{
		level:   opts.Level,
		console: opts.Console,
		file:    opts.File,
		emitter: opts.Emitter,
		mu:      &sync.Mutex{},
	}
	if h.level == nil {
		h.level = &slog.LevelVar{}
	}
	if h.console == nil {
		h.console = os.Stdout
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	attrs := append([]string(nil), h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.formatAttr(a))
		return true
	})

	message := r.Message
	if len(attrs) > 0 {
		message = message + " " + strings.Join(attrs, " ")
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	timestamp := ts.Format("2006-01-02 15:04:05.000")
	level := levelName(r.Level)
	prefix := fmt.Sprintf("[%s] [PID:%d] [GID:%d] [%s] ", timestamp, os.Getpid(), getGoroutineID(), level)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.file != nil {
		if _, err := io.WriteString(h.file, prefix+message+"\n"); err != nil {
			fmt.Fprintf(os.Stderr, "写入日志文件失败: %v\n", err)
		}
	}

	display := message
	if len(display) > maxConsoleMessage {
		display = display[:maxConsoleMessage] + "... (显示截断)"
	}
	if _, err := io.WriteString(h.console, prefix+display+"\n"); err != nil {
		return err
	}

	if h.emitter != nil {
		h.emitter.Emit(LogEntry{Time: timestamp, Level: level, Message: message})
	}

	return nil
}

func (h *Handler) formatAttr(a slog.Attr) string {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	return fmt.Sprintf("%s=%v", key, a.Value)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]string(nil), h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, h.formatAttr(a))
	}
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group = clone.group + "." + name
	} else {
		clone.group = name
	}
	return &clone
}

// SetLevel 动态调整级别
func (h *Handler) SetLevel(level slog.Level) {
	h.level.Set(level)
}

// Close 关闭文件输出
func (h *Handler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.file.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func levelName(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DEBUG"
	case l < slog.LevelWarn:
		return "INFO"
	case l < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

func getGoroutineID() int {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	fields := strings.Fields(string(buf))
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}
	return id
}

package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnknownCommand 命令名称未注册
var ErrUnknownCommand = errors.New("未知命令")

// Handler 处理一次命名调用，args 为 JSON 形式的命名参数
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Observer 在每次调用完成后被回调（成功或失败）
type Observer func(ctx context.Context, name string, args json.RawMessage, result any, err error)

// Registry 命令名称到处理函数的映射，是前端按名称调用命令的边界。
// 命令集合在构造时固定，不支持运行时注册。
type Registry struct {
	handlers map[string]Handler
	observer Observer
	now      func() time.Time
}

// RegistryOption 配置 Registry
type RegistryOption func(*Registry)

// WithObserver 设置调用观察者
func WithObserver(o Observer) RegistryOption {
	return func(r *Registry) { r.observer = o }
}

// WithClock 替换时间源（测试用）
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry 创建包含全部内置命令的注册表
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}

	r.handlers = map[string]Handler{
		"greet": func(_ context.Context, raw json.RawMessage) (any, error) {
			var args struct {
				Name string `json:"name"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return Greet(args.Name), nil
		},
		"calculate": func(_ context.Context, raw json.RawMessage) (any, error) {
			var args struct {
				Operation string  `json:"operation"`
				A         float64 `json:"a"`
				B         float64 `json:"b"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return Calculate(args.Operation, args.A, args.B)
		},
		"safe_divide": func(_ context.Context, raw json.RawMessage) (any, error) {
			var args struct {
				A float64 `json:"a"`
				B float64 `json:"b"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return SafeDivide(args.A, args.B)
		},
		"process_numbers": func(_ context.Context, raw json.RawMessage) (any, error) {
			var args struct {
				Numbers []float64 `json:"numbers"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return ProcessNumbers(args.Numbers), nil
		},
		"get_timestamp": func(context.Context, json.RawMessage) (any, error) {
			return Timestamp(r.now()), nil
		},
		"get_system_info": func(context.Context, json.RawMessage) (any, error) {
			return SystemInfo(), nil
		},
	}

	return r
}

// Names 返回已注册的命令名称（排序后）
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke 按名称调用命令
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	result, err := h(ctx, args)
	if r.observer != nil {
		r.observer(ctx, name, args, result, err)
	}
	return result, err
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("参数解析失败: %w", err)
	}
	return nil
}

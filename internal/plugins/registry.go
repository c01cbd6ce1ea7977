// Package plugins 提供前端可用的宿主能力：文件系统、对话框、通知和外部链接打开。
package plugins

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Plugin 宿主能力插件
type Plugin interface {
	Name() string
	// Init 在窗口 startup 时调用，ctx 为 Wails 运行时上下文
	Init(ctx context.Context) error
}

// ErrDuplicatePlugin 同名插件重复注册
var ErrDuplicatePlugin = errors.New("插件已注册")

// Registry 按注册顺序保存插件
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	byName  map[string]Plugin
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Plugin)}
}

// Register 注册插件，名称为空或重复时报错
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if name == "" {
		return fmt.Errorf("插件名称不能为空")
	}
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, name)
	}
	r.plugins = append(r.plugins, p)
	r.byName[name] = p
	return nil
}

// Init 依次初始化全部插件，遇到第一个错误即返回
func (r *Registry) Init(ctx context.Context) error {
	r.mu.RLock()
	plugins := append([]Plugin(nil), r.plugins...)
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := p.Init(ctx); err != nil {
			return fmt.Errorf("初始化插件 %s 失败: %w", p.Name(), err)
		}
	}
	return nil
}

// Names 按注册顺序返回插件名称
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.plugins))
	for _, p := range r.plugins {
		names = append(names, p.Name())
	}
	return names
}

// Get 按名称查找插件
func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byName[name]
	return p, ok
}

package plugins

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// DialogRuntime Wails 对话框调用，测试时可替换
type DialogRuntime interface {
	OpenFileDialog(ctx context.Context, opts runtime.OpenDialogOptions) (string, error)
	SaveFileDialog(ctx context.Context, opts runtime.SaveDialogOptions) (string, error)
	MessageDialog(ctx context.Context, opts runtime.MessageDialogOptions) (string, error)
}

type wailsDialogs struct{}

func (wailsDialogs) OpenFileDialog(ctx context.Context, opts runtime.OpenDialogOptions) (string, error) {
	return runtime.OpenFileDialog(ctx, opts)
}

func (wailsDialogs) SaveFileDialog(ctx context.Context, opts runtime.SaveDialogOptions) (string, error) {
	return runtime.SaveFileDialog(ctx, opts)
}

func (wailsDialogs) MessageDialog(ctx context.Context, opts runtime.MessageDialogOptions) (string, error) {
	return runtime.MessageDialog(ctx, opts)
}

// FileFilter 文件类型过滤，extensions 不带点
type FileFilter struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

// Dialog 原生对话框插件
type Dialog struct {
	rt DialogRuntime

	mu  sync.RWMutex
	ctx context.Context
}

// NewDialog 创建对话框插件，rt 为空时使用 Wails runtime
func NewDialog(rt DialogRuntime) *Dialog {
	if rt == nil {
		rt = wailsDialogs{}
	}
	return &Dialog{rt: rt}
}

func (d *Dialog) Name() string { return "dialog" }

func (d *Dialog) Init(ctx context.Context) error {
	d.mu.Lock()
	d.ctx = ctx
	d.mu.Unlock()
	return nil
}

func (d *Dialog) context() (context.Context, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.ctx == nil {
		return nil, fmt.Errorf("对话框插件尚未初始化")
	}
	return d.ctx, nil
}

func toWailsFilters(filters []FileFilter) []runtime.FileFilter {
	if len(filters) == 0 {
		return nil
	}
	result := make([]runtime.FileFilter, 0, len(filters))
	for _, f := range filters {
		patterns := make([]string, 0, len(f.Extensions))
		for _, ext := range f.Extensions {
			ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
			if ext == "" {
				continue
			}
			patterns = append(patterns, "*."+ext)
		}
		if len(patterns) == 0 {
			continue
		}
		result = append(result, runtime.FileFilter{
			DisplayName: f.Name,
			Pattern:     strings.Join(patterns, ";"),
		})
	}
	return result
}

// OpenFile 打开文件选择框，用户取消时返回空字符串
func (d *Dialog) OpenFile(title string, filters []FileFilter) (string, error) {
	ctx, err := d.context()
	if err != nil {
		return "", err
	}
	return d.rt.OpenFileDialog(ctx, runtime.OpenDialogOptions{
		Title:   title,
		Filters: toWailsFilters(filters),
	})
}

// SaveFile 打开保存对话框，用户取消时返回空字符串
func (d *Dialog) SaveFile(defaultName string, filters []FileFilter) (string, error) {
	ctx, err := d.context()
	if err != nil {
		return "", err
	}
	return d.rt.SaveFileDialog(ctx, runtime.SaveDialogOptions{
		DefaultFilename: defaultName,
		Filters:         toWailsFilters(filters),
	})
}

func messageKind(kind string) (runtime.DialogType, error) {
	switch strings.ToLower(kind) {
	case "", "info":
		return runtime.InfoDialog, nil
	case "warning":
		return runtime.WarningDialog, nil
	case "error":
		return runtime.ErrorDialog, nil
	default:
		return "", fmt.Errorf("不支持的对话框类型: %s", kind)
	}
}

// Message 显示提示框，kind 为 info / warning / error
func (d *Dialog) Message(kind, title, message string) error {
	ctx, err := d.context()
	if err != nil {
		return err
	}
	dt, err := messageKind(kind)
	if err != nil {
		return err
	}
	_, err = d.rt.MessageDialog(ctx, runtime.MessageDialogOptions{
		Type:    dt,
		Title:   title,
		Message: message,
	})
	return err
}

// Ask 显示是/否询问框
func (d *Dialog) Ask(title, message string) (bool, error) {
	ctx, err := d.context()
	if err != nil {
		return false, err
	}
	answer, err := d.rt.MessageDialog(ctx, runtime.MessageDialogOptions{
		Type:          runtime.QuestionDialog,
		Title:         title,
		Message:       message,
		Buttons:       []string{"Yes", "No"},
		DefaultButton: "Yes",
		CancelButton:  "No",
	})
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "Yes"), nil
}

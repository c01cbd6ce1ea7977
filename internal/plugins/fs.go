package plugins

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"tray-menu-app/internal/utils"
)

// ErrPathNotAllowed 路径不在允许范围内
var ErrPathNotAllowed = errors.New("路径不在允许访问的范围内")

// DirEntry 目录项
type DirEntry struct {
	Name  string `json:"name"`
	IsDir bool   `json:"isDirectory"`
	Size  int64  `json:"size"`
}

// FS 受限文件系统访问，只允许 scope 中的根目录及其子路径
type FS struct {
	mu    sync.RWMutex
	roots []string
	// resolved 为 roots 解析符号链接后的路径，与 roots 一一对应
	resolved []string
}

// NewFS 创建文件系统插件，scope 支持 $HOME / $APPDATA / $TEMP 占位，空 scope 表示不限制
func NewFS(scope []string) *FS {
	f := &FS{}
	f.SetScope(scope)
	return f
}

func (f *FS) Name() string { return "fs" }

func (f *FS) Init(context.Context) error { return nil }

// SetScope 替换允许访问的根目录（配置热更新时调用）
func (f *FS) SetScope(scope []string) {
	roots := make([]string, 0, len(scope))
	resolved := make([]string, 0, len(scope))
	for _, s := range scope {
		if strings.TrimSpace(s) == "" {
			continue
		}
		root, err := filepath.Abs(utils.ExpandDirVars(s))
		if err != nil {
			continue
		}
		resolvedRoot, err := evalExistingPrefix(root)
		if err != nil {
			continue
		}
		roots = append(roots, root)
		resolved = append(resolved, resolvedRoot)
	}

	f.mu.Lock()
	f.roots = roots
	f.resolved = resolved
	f.mu.Unlock()
}

// Scope 返回展开后的根目录
func (f *FS) Scope() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.roots...)
}

func (f *FS) resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("路径不能为空")
	}
	abs, err := filepath.Abs(utils.ExpandDirVars(path))
	if err != nil {
		return "", err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.roots) == 0 {
		return abs, nil
	}

	// 按符号链接解析后的真实路径判断，防止范围内的链接指向范围外
	target, err := evalExistingPrefix(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPathNotAllowed, path)
	}
	for _, root := range f.resolved {
		if within(root, target) {
			return abs, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrPathNotAllowed, path)
}

// evalExistingPrefix 解析路径中最长的已存在前缀上的符号链接，不存在的尾部原样拼接。
// 已存在但无法解析的条目（悬空链接、循环链接）返回错误。
func evalExistingPrefix(path string) (string, error) {
	cur := filepath.Clean(path)
	var tail []string
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			for i := len(tail) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, tail[i])
			}
			return resolved, nil
		}
		if _, lerr := os.Lstat(cur); lerr == nil {
			return "", err
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return path, nil
		}
		tail = append(tail, filepath.Base(cur))
		cur = parent
	}
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// ReadTextFile 读取文本文件
func (f *FS) ReadTextFile(path string) (string, error) {
	p, err := f.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteTextFile 写入文本文件（覆盖）
func (f *FS) WriteTextFile(path, contents string) error {
	p, err := f.resolve(path)
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(contents), 0644)
}

// ReadDir 列出目录，按名称排序
func (f *FS) ReadDir(path string) ([]DirEntry, error) {
	p, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		return nil, err
	}

	result := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		entry := DirEntry{Name: e.Name(), IsDir: e.IsDir()}
		if info, err := e.Info(); err == nil && !e.IsDir() {
			entry.Size = info.Size()
		}
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Exists 判断路径是否存在
func (f *FS) Exists(path string) (bool, error) {
	p, err := f.resolve(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Remove 删除文件或空目录
func (f *FS) Remove(path string) error {
	p, err := f.resolve(path)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

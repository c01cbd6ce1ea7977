package plugins

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// ErrSchemeNotAllowed URL 协议不在白名单内
var ErrSchemeNotAllowed = errors.New("不允许打开该类型的链接")

// OpenFunc 用系统默认程序打开 URL
type OpenFunc func(ctx context.Context, url string)

// Opener 外部链接打开插件
type Opener struct {
	open OpenFunc

	mu      sync.RWMutex
	ctx     context.Context
	allowed map[string]bool
}

// NewOpener 创建打开器，open 为空时使用 runtime.BrowserOpenURL
func NewOpener(allowedSchemes []string, open OpenFunc) *Opener {
	if open == nil {
		open = runtime.BrowserOpenURL
	}
	o := &Opener{open: open}
	o.SetAllowedSchemes(allowedSchemes)
	return o
}

func (o *Opener) Name() string { return "opener" }

func (o *Opener) Init(ctx context.Context) error {
	o.mu.Lock()
	o.ctx = ctx
	o.mu.Unlock()
	return nil
}

// SetAllowedSchemes 替换协议白名单
func (o *Opener) SetAllowedSchemes(schemes []string) {
	allowed := make(map[string]bool, len(schemes))
	for _, s := range schemes {
		allowed[strings.ToLower(s)] = true
	}
	o.mu.Lock()
	o.allowed = allowed
	o.mu.Unlock()
}

// OpenURL 校验协议后打开链接
func (o *Opener) OpenURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("无效的链接: %w", err)
	}

	o.mu.RLock()
	ctx := o.ctx
	ok := o.allowed[strings.ToLower(u.Scheme)]
	o.mu.RUnlock()

	if u.Scheme == "" || !ok {
		return fmt.Errorf("%w: %q", ErrSchemeNotAllowed, u.Scheme)
	}
	if ctx == nil {
		return fmt.Errorf("打开器插件尚未初始化")
	}

	o.open(ctx, u.String())
	return nil
}

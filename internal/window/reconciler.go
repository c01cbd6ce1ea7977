package window

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Timing 显示流程中的等待参数。
// PollInterval > 0 时，SettleDelay 作为轮询上限，可见即提前返回；否则固定等待。
type Timing struct {
	SettleDelay     time.Duration
	RetryDelay      time.Duration
	FinalCheckDelay time.Duration
	PollInterval    time.Duration
}

// DefaultTiming 默认等待参数（单次显示最多阻塞约 400ms）
func DefaultTiming() Timing {
	return Timing{
		SettleDelay:     200 * time.Millisecond,
		RetryDelay:      100 * time.Millisecond,
		FinalCheckDelay: 100 * time.Millisecond,
	}
}

// ShowResult 显示流程的结果
type ShowResult struct {
	// Retried 首次显示后仍不可见，执行了一次 居中+再显示
	Retried bool
	// Visible 最终检查时的可见状态，仅用于诊断
	Visible bool
}

// Reconciler 主窗口可见性协调器。
// 由启动流程显式构造，并传入所有菜单/托盘/窗口事件回调。
type Reconciler struct {
	host   Host
	label  string
	logger *slog.Logger
	sleep  func(context.Context, time.Duration)

	mu     sync.RWMutex
	timing Timing
}

// Option 配置 Reconciler
type Option func(*Reconciler)

// WithLabel 指定主窗口标识
func WithLabel(label string) Option {
	return func(r *Reconciler) {
		if label != "" {
			r.label = label
		}
	}
}

// WithTiming 指定等待参数
func WithTiming(t Timing) Option {
	return func(r *Reconciler) { r.timing = t }
}

// WithLogger 指定日志
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSleep 替换等待实现（测试用）
func WithSleep(fn func(context.Context, time.Duration)) Option {
	return func(r *Reconciler) { r.sleep = fn }
}

// NewReconciler 创建协调器
func NewReconciler(host Host, opts ...Option) *Reconciler {
	r := &Reconciler{
		host:   host,
		label:  MainLabel,
		logger: slog.Default(),
		sleep:  sleepContext,
		timing: DefaultTiming(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Label 主窗口标识
func (r *Reconciler) Label() string {
	return r.label
}

// SetTiming 更新等待参数（配置热重载）
func (r *Reconciler) SetTiming(t Timing) {
	r.mu.Lock()
	r.timing = t
	r.mu.Unlock()
}

// Timing 当前等待参数
func (r *Reconciler) Timing() Timing {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.timing
}

func (r *Reconciler) mainWindow() (Window, error) {
	w, ok := r.host.Window(r.label)
	if !ok {
		r.logger.Error("❌ 无法获取主窗口",
			"label", r.label,
			"available", r.host.Labels())
		return nil, fmt.Errorf("%w: %s", ErrWindowNotFound, r.label)
	}
	return w, nil
}

// Show 显示主窗口。宿主的 show 可能异步生效，因此：
// 显示后等待并复查，仍不可见时 居中+再显示 一次；无论结果如何都尝试聚焦。
// 找不到主窗口时不会重建窗口。
func (r *Reconciler) Show(ctx context.Context) (ShowResult, error) {
	var result ShowResult

	w, err := r.mainWindow()
	if err != nil {
		return result, err
	}
	timing := r.Timing()

	minimised, err := w.IsMinimised()
	if err != nil {
		r.logger.Warn("⚠️ 查询窗口最小化状态失败", "label", r.label, "error", err)
	}
	if minimised {
		if err := w.Unminimise(); err != nil {
			r.logger.Warn("⚠️ 取消最小化失败", "label", r.label, "error", err)
		} else {
			r.logger.Debug("取消最小化成功", "label", r.label)
		}
	}

	if err := w.Show(); err != nil {
		r.logger.Error("❌ 窗口显示失败", "label", r.label, "error", err)
		return result, fmt.Errorf("显示窗口失败: %w", err)
	}

	visible, known := r.waitVisible(ctx, w, timing.SettleDelay, timing.PollInterval)
	if !known {
		r.logger.Debug("可见状态未知，跳过重试", "label", r.label)
	}
	if known && !visible {
		result.Retried = true
		r.logger.Warn("⚠️ 窗口显示后仍然不可见，尝试居中后再次显示", "label", r.label)

		if err := w.Center(); err != nil {
			r.logger.Warn("⚠️ 窗口居中失败", "label", r.label, "error", err)
		}
		if err := w.Show(); err != nil {
			r.logger.Warn("⚠️ 再次显示窗口失败", "label", r.label, "error", err)
		} else {
			r.sleep(ctx, timing.RetryDelay)
		}
	}

	if err := w.SetFocus(); err != nil {
		r.logger.Warn("⚠️ 窗口焦点设置失败", "label", r.label, "error", err)
	}

	r.sleep(ctx, timing.FinalCheckDelay)
	visible, _ = r.queryVisible(w)
	result.Visible = visible
	r.logger.Info("🪟 窗口显示流程完成",
		"label", r.label,
		"visible", visible,
		"retried", result.Retried)

	return result, nil
}

// waitVisible 等待窗口变为可见，返回最后一次查询结果；
// known 为 false 表示最后一次查询失败，状态未知
func (r *Reconciler) waitVisible(ctx context.Context, w Window, timeout, interval time.Duration) (visible, known bool) {
	if interval <= 0 || interval >= timeout {
		r.sleep(ctx, timeout)
		return r.queryVisible(w)
	}

	var waited time.Duration
	for waited < timeout {
		step := min(interval, timeout-waited)
		r.sleep(ctx, step)
		waited += step

		visible, known = r.queryVisible(w)
		if visible {
			return true, true
		}
		if ctx.Err() != nil {
			break
		}
	}
	return visible, known
}

func (r *Reconciler) queryVisible(w Window) (visible, ok bool) {
	visible, err := w.IsVisible()
	if err != nil {
		r.logger.Warn("⚠️ 查询窗口可见状态失败", "label", r.label, "error", err)
		return false, false
	}
	return visible, true
}

// Hide 隐藏主窗口，不重试。对已隐藏的窗口再次隐藏不视为错误。
func (r *Reconciler) Hide(_ context.Context) error {
	w, err := r.mainWindow()
	if err != nil {
		return err
	}
	if err := w.Hide(); err != nil {
		r.logger.Error("❌ 窗口隐藏失败", "label", r.label, "error", err)
		return fmt.Errorf("隐藏窗口失败: %w", err)
	}
	r.logger.Info("🙈 窗口隐藏成功", "label", r.label)
	return nil
}

// Toggle 可见则隐藏，否则走完整的显示流程
func (r *Reconciler) Toggle(ctx context.Context) error {
	w, err := r.mainWindow()
	if err != nil {
		return err
	}
	if visible, _ := r.queryVisible(w); visible {
		return r.Hide(ctx)
	}
	_, err = r.Show(ctx)
	return err
}

// CloseRequested 处理窗口关闭请求，返回 true 表示阻止默认关闭。
// 主窗口改为隐藏（进程继续驻留托盘），其它窗口按默认流程关闭。
func (r *Reconciler) CloseRequested(label string) bool {
	if label != r.label {
		r.logger.Debug("非主窗口关闭，允许正常关闭", "label", label)
		return false
	}

	r.logger.Info("🚪 主窗口关闭请求：阻止关闭并隐藏", "label", label)
	if err := r.Hide(context.Background()); err != nil {
		r.logger.Warn("⚠️ 关闭请求转隐藏失败", "label", label, "error", err)
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

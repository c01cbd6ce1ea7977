package window

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow 可脚本化的窗口：记录调用序列，show 生效与否由 showTakesEffect 决定
type fakeWindow struct {
	label     string
	visible   bool
	minimised bool
	destroyed bool

	// 第 n 次 Show 是否立即生效（超出长度时默认生效）
	showTakesEffect []bool
	shows           int

	showErr    error
	hideErr    error
	visibleErr error

	calls []string
}

func (w *fakeWindow) Label() string { return w.label }

func (w *fakeWindow) IsVisible() (bool, error) {
	w.calls = append(w.calls, "is_visible")
	if w.visibleErr != nil {
		return false, w.visibleErr
	}
	return w.visible, nil
}

func (w *fakeWindow) IsMinimised() (bool, error) {
	w.calls = append(w.calls, "is_minimised")
	return w.minimised, nil
}

func (w *fakeWindow) Show() error {
	w.calls = append(w.calls, "show")
	if w.showErr != nil {
		return w.showErr
	}
	effect := true
	if w.shows < len(w.showTakesEffect) {
		effect = w.showTakesEffect[w.shows]
	}
	w.shows++
	if effect {
		w.visible = true
	}
	return nil
}

func (w *fakeWindow) Hide() error {
	w.calls = append(w.calls, "hide")
	if w.hideErr != nil {
		return w.hideErr
	}
	w.visible = false
	return nil
}

func (w *fakeWindow) Unminimise() error {
	w.calls = append(w.calls, "unminimise")
	w.minimised = false
	return nil
}

func (w *fakeWindow) Center() error {
	w.calls = append(w.calls, "center")
	return nil
}

func (w *fakeWindow) SetFocus() error {
	w.calls = append(w.calls, "focus")
	return nil
}

type fakeHost struct {
	windows map[string]*fakeWindow
}

func newFakeHost(windows ...*fakeWindow) *fakeHost {
	h := &fakeHost{windows: make(map[string]*fakeWindow)}
	for _, w := range windows {
		h.windows[w.label] = w
	}
	return h
}

func (h *fakeHost) Window(label string) (Window, bool) {
	w, ok := h.windows[label]
	if !ok || w.destroyed {
		return nil, false
	}
	return w, true
}

func (h *fakeHost) Labels() []string {
	var labels []string
	for label, w := range h.windows {
		if !w.destroyed {
			labels = append(labels, label)
		}
	}
	return labels
}

// close 模拟宿主的关闭流程：回调决定是否阻止销毁
func (h *fakeHost) close(r *Reconciler, label string) {
	if r.CloseRequested(label) {
		return
	}
	if w, ok := h.windows[label]; ok {
		w.destroyed = true
	}
}

type sleepRecorder struct {
	slept []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) {
	s.slept = append(s.slept, d)
}

func newTestReconciler(host Host, rec *sleepRecorder, opts ...Option) *Reconciler {
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithSleep(rec.sleep),
	}
	return NewReconciler(host, append(base, opts...)...)
}

func TestShow_AlreadyVisibleSkipsRetry(t *testing.T) {
	w := &fakeWindow{label: MainLabel, visible: true}
	rec := &sleepRecorder{}
	r := newTestReconciler(newFakeHost(w), rec)

	result, err := r.Show(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Retried)
	assert.True(t, result.Visible)
	assert.NotContains(t, w.calls, "center")
	assert.Equal(t, 1, w.shows)
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 100 * time.Millisecond}, rec.slept)
}

func TestShow_UnminimisesBeforeShow(t *testing.T) {
	w := &fakeWindow{label: MainLabel, minimised: true}
	r := newTestReconciler(newFakeHost(w), &sleepRecorder{})

	_, err := r.Show(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"is_minimised", "unminimise", "show", "is_visible", "focus", "is_visible"}, w.calls)
}

func TestShow_RetriesExactlyOnceAndAlwaysFocuses(t *testing.T) {
	// 两次 show 都不生效：只允许一次 居中+再显示
	w := &fakeWindow{label: MainLabel, showTakesEffect: []bool{false, false}}
	rec := &sleepRecorder{}
	r := newTestReconciler(newFakeHost(w), rec)

	result, err := r.Show(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Retried)
	assert.False(t, result.Visible)
	assert.Equal(t, []string{
		"is_minimised", "show", "is_visible", "center", "show", "focus", "is_visible",
	}, w.calls)
	assert.Equal(t, []time.Duration{
		200 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond,
	}, rec.slept)
}

func TestShow_RetrySucceeds(t *testing.T) {
	w := &fakeWindow{label: MainLabel, showTakesEffect: []bool{false, true}}
	r := newTestReconciler(newFakeHost(w), &sleepRecorder{})

	result, err := r.Show(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Retried)
	assert.True(t, result.Visible)
}

func TestShow_VisibilityQueryErrorSkipsRetry(t *testing.T) {
	w := &fakeWindow{label: MainLabel, visibleErr: errors.New("query failed")}
	r := newTestReconciler(newFakeHost(w), &sleepRecorder{})

	result, err := r.Show(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Retried)
	assert.False(t, result.Visible)
	assert.Equal(t, []string{"is_minimised", "show", "is_visible", "focus", "is_visible"}, w.calls)
}

func TestShow_MissingWindow(t *testing.T) {
	rec := &sleepRecorder{}
	r := newTestReconciler(newFakeHost(&fakeWindow{label: "secondary"}), rec)

	_, err := r.Show(context.Background())
	assert.ErrorIs(t, err, ErrWindowNotFound)
	assert.Empty(t, rec.slept)
}

func TestShow_ShowFailureStopsProcedure(t *testing.T) {
	w := &fakeWindow{label: MainLabel, showErr: errors.New("boom")}
	r := newTestReconciler(newFakeHost(w), &sleepRecorder{})

	_, err := r.Show(context.Background())
	assert.ErrorContains(t, err, "boom")
	assert.NotContains(t, w.calls, "focus")
}

func TestShow_PollingReturnsEarly(t *testing.T) {
	w := &fakeWindow{label: MainLabel}
	rec := &sleepRecorder{}
	r := newTestReconciler(newFakeHost(w), rec, WithTiming(Timing{
		SettleDelay:     200 * time.Millisecond,
		RetryDelay:      100 * time.Millisecond,
		FinalCheckDelay: 50 * time.Millisecond,
		PollInterval:    20 * time.Millisecond,
	}))

	result, err := r.Show(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Retried)
	// 第一次轮询即可见，然后是最终检查
	assert.Equal(t, []time.Duration{20 * time.Millisecond, 50 * time.Millisecond}, rec.slept)
}

func TestShow_PollingBoundedBySettleDelay(t *testing.T) {
	w := &fakeWindow{label: MainLabel, showTakesEffect: []bool{false, false}}
	rec := &sleepRecorder{}
	r := newTestReconciler(newFakeHost(w), rec, WithTiming(Timing{
		SettleDelay:  100 * time.Millisecond,
		RetryDelay:   10 * time.Millisecond,
		PollInterval: 30 * time.Millisecond,
	}))

	result, err := r.Show(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Retried)

	var polled time.Duration
	for _, d := range rec.slept[:4] {
		polled += d
	}
	assert.Equal(t, 100*time.Millisecond, polled)
}

func TestHide_Idempotent(t *testing.T) {
	w := &fakeWindow{label: MainLabel}
	r := newTestReconciler(newFakeHost(w), &sleepRecorder{})

	require.NoError(t, r.Hide(context.Background()))
	require.NoError(t, r.Hide(context.Background()))
	assert.False(t, w.visible)
}

func TestHide_ErrorIsReturned(t *testing.T) {
	w := &fakeWindow{label: MainLabel, visible: true, hideErr: errors.New("denied")}
	r := newTestReconciler(newFakeHost(w), &sleepRecorder{})

	assert.ErrorContains(t, r.Hide(context.Background()), "denied")
	assert.Equal(t, []string{"hide"}, w.calls)
}

func TestToggle(t *testing.T) {
	w := &fakeWindow{label: MainLabel, visible: true}
	r := newTestReconciler(newFakeHost(w), &sleepRecorder{})

	require.NoError(t, r.Toggle(context.Background()))
	assert.False(t, w.visible)

	w.minimised = true
	require.NoError(t, r.Toggle(context.Background()))
	assert.True(t, w.visible)
	assert.False(t, w.minimised)
	assert.Contains(t, w.calls, "focus")
}

func TestCloseRequested_MainWindowIsHiddenNotDestroyed(t *testing.T) {
	main := &fakeWindow{label: MainLabel, visible: true}
	other := &fakeWindow{label: "secondary", visible: true}
	host := newFakeHost(main, other)
	r := newTestReconciler(host, &sleepRecorder{})

	host.close(r, MainLabel)
	got, ok := host.Window(MainLabel)
	require.True(t, ok)
	visible, _ := got.IsVisible()
	assert.False(t, visible)

	host.close(r, "secondary")
	_, ok = host.Window("secondary")
	assert.False(t, ok)
	assert.NotContains(t, other.calls, "hide")
}

func TestCustomLabel(t *testing.T) {
	w := &fakeWindow{label: "dashboard"}
	r := newTestReconciler(newFakeHost(w), &sleepRecorder{}, WithLabel("dashboard"))

	assert.Equal(t, "dashboard", r.Label())
	assert.True(t, r.CloseRequested("dashboard"))
	assert.False(t, r.CloseRequested(MainLabel))
}

func TestSleepContextHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	sleepContext(ctx, time.Minute)
	assert.Less(t, time.Since(start), time.Second)
}

func TestParseSize(t *testing.T) {
	size, err := ParseSize("800x600")
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 800, Height: 600}, size)

	size, err = ParseSize(" 1024 X 768 ")
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 1024, Height: 768}, size)

	for _, bad := range []string{"", "800", "axb", "0x600", "800x-1"} {
		_, err := ParseSize(bad)
		assert.Error(t, err, bad)
	}
}

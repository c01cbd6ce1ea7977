//go:build !stub

package tray

import (
	"context"
	"sync"

	"github.com/getlantern/systray"
)

const defaultTooltip = "托盘菜单应用"

type systrayController struct {
	opts      Options
	ctx       context.Context
	quitCh    chan struct{}
	once      sync.Once
	running   bool
	runningMu sync.Mutex
}

func (c *systrayController) Stop() {
	c.once.Do(func() {
		c.runningMu.Lock()
		if c.running {
			systray.Quit()
			c.running = false
		}
		c.runningMu.Unlock()
		close(c.quitCh)
	})
}

func (c *systrayController) SetTooltip(tooltip string) {
	c.runningMu.Lock()
	defer c.runningMu.Unlock()
	if !c.running {
		return
	}
	if tooltip == "" {
		tooltip = defaultTooltip
	}
	systray.SetTooltip(tooltip)
}

func start(ctx context.Context, opts Options) (Controller, error) {
	ctrl := &systrayController{
		opts:   opts,
		ctx:    ctx,
		quitCh: make(chan struct{}),
	}

	// systray.Run 会阻塞，在单独的 goroutine 中运行
	go func() {
		ctrl.runningMu.Lock()
		ctrl.running = true
		ctrl.runningMu.Unlock()

		systray.Run(
			func() { ctrl.onReady() },
			func() { ctrl.onExit() },
		)
	}()

	return ctrl, nil
}

func (c *systrayController) onReady() {
	if len(c.opts.Icon) > 0 {
		systray.SetIcon(c.opts.Icon)
	}
	if c.opts.Tooltip != "" {
		systray.SetTooltip(c.opts.Tooltip)
	} else {
		systray.SetTooltip(defaultTooltip)
	}

	entries := Entries()
	items := make([]*systray.MenuItem, len(entries))
	for i, e := range entries {
		if e.ID == Quit {
			systray.AddSeparator()
		}
		items[i] = systray.AddMenuItem(e.Label, e.Tooltip)
	}

	// 每个菜单项一个监听 goroutine
	for i, item := range items {
		go c.listen(entries[i].ID, item)
	}
}

func (c *systrayController) listen(id EntryID, item *systray.MenuItem) {
	for {
		select {
		case <-c.quitCh:
			return
		case <-c.ctx.Done():
			return
		case <-item.ClickedCh:
			Dispatch(id, c.opts)
		}
	}
}

func (c *systrayController) onExit() {
	c.runningMu.Lock()
	c.running = false
	c.runningMu.Unlock()
}

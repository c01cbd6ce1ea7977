package main

import (
	"context"
	"fmt"

	"tray-menu-app/internal/history"
)

const defaultHistoryLimit = 50

func (a *App) historyStore() (history.Store, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.history == nil {
		return nil, fmt.Errorf("调用历史未启用")
	}
	return a.history, nil
}

func (a *App) apiContext() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

// GetHistory 最近的调用记录，limit<=0 时返回最近 50 条
func (a *App) GetHistory(limit int) ([]*history.Record, error) {
	store, err := a.historyStore()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	records, err := store.List(a.apiContext(), limit)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*history.Record{}
	}
	return records, nil
}

// ClearHistory 清空调用历史
func (a *App) ClearHistory() error {
	store, err := a.historyStore()
	if err != nil {
		return err
	}
	if err := store.Clear(a.apiContext()); err != nil {
		return err
	}
	a.emitToMain(EventHistoryUpdate, nil)
	return nil
}

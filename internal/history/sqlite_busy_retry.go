package history

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const (
	busyInitialBackoff = 30 * time.Millisecond
	busyMaxBackoff     = 500 * time.Millisecond
)

func isSQLiteBusyError(err error) bool {
	if err == nil {
		return false
	}
	// 按错误文本判断，不依赖 driver 的错误类型
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "sqlite_busy") || strings.Contains(msg, "database is locked")
}

// withSQLiteBusyRetry 遇到 SQLITE_BUSY 时按指数退避重试，直到成功、遇到其他错误或 ctx 结束
func withSQLiteBusyRetry[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	backoff := busyInitialBackoff
	for {
		v, err := fn()
		if err == nil || !isSQLiteBusyError(err) || ctx == nil {
			return v, err
		}

		// ctx 已结束时返回最后一次的 busy 错误
		if ctx.Err() != nil {
			return v, err
		}

		wait := min(backoff, busyMaxBackoff)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return v, err
		case <-timer.C:
		}

		backoff *= 2
	}
}

func queryRowsWithSQLiteBusyRetry(ctx context.Context, queryFn func() (*sql.Rows, error)) (*sql.Rows, error) {
	return withSQLiteBusyRetry(ctx, queryFn)
}

func execWithSQLiteBusyRetry(ctx context.Context, execFn func() (sql.Result, error)) (sql.Result, error) {
	return withSQLiteBusyRetry(ctx, execFn)
}

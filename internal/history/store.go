// Package history 记录命令调用历史（可选功能，默认关闭）。
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Record 一次命令调用
type Record struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	Args      string    `json:"args"`   // 原始 JSON 参数
	Result    string    `json:"result"` // JSON 结果，失败时为空
	Error     string    `json:"error"`
	CreatedAt time.Time `json:"created_at"`
}

// Store 历史存储接口
type Store interface {
	Append(ctx context.Context, rec *Record) error
	List(ctx context.Context, limit int) ([]*Record, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	Close() error
}

// ErrClosed 存储已关闭
var ErrClosed = errors.New("history store is closed")

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	id TEXT PRIMARY KEY,
	command TEXT NOT NULL,
	args TEXT NOT NULL DEFAULT '',
	result TEXT NOT NULL DEFAULT '',
	error TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invocations_created_at ON invocations(created_at);
`

// created_at 统一存 UTC，定长格式保证字符串序即时间序
const timeLayout = "2006-01-02 15:04:05.000000-07:00"

// SQLiteStore 基于 modernc sqlite 的历史存储
type SQLiteStore struct {
	db         *sql.DB
	maxRecords int
	logger     *slog.Logger
	now        func() time.Time

	mu     sync.Mutex
	closed bool
}

// Open 打开（必要时创建）历史数据库并完成建表
func Open(ctx context.Context, path string, maxRecords int, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return nil, fmt.Errorf("历史数据库路径不能为空")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("创建历史数据库目录失败: %w", err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("打开历史数据库失败: %w", err)
	}
	// SQLite 只有一个 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("连接历史数据库失败: %w", err)
	}

	s := &SQLiteStore{db: db, maxRecords: maxRecords, logger: logger, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("✅ 调用历史数据库已就绪", "path", path, "max_records", maxRecords)
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	if _, err := execWithSQLiteBusyRetry(ctx, func() (sql.Result, error) {
		return s.db.ExecContext(ctx, schema)
	}); err != nil {
		return fmt.Errorf("初始化历史表失败: %w", err)
	}
	return nil
}

func (s *SQLiteStore) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Append 写入一条记录，ID 与时间为空时自动补全；超出 maxRecords 时删除最旧的记录
func (s *SQLiteStore) Append(ctx context.Context, rec *Record) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if rec == nil || rec.Command == "" {
		return fmt.Errorf("历史记录缺少命令名")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}

	_, err := execWithSQLiteBusyRetry(ctx, func() (sql.Result, error) {
		return s.db.ExecContext(ctx,
			`INSERT INTO invocations (id, command, args, result, error, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.Command, rec.Args, rec.Result, rec.Error, rec.CreatedAt.UTC().Format(timeLayout))
	})
	if err != nil {
		return fmt.Errorf("写入调用历史失败: %w", err)
	}

	return s.prune(ctx)
}

func (s *SQLiteStore) prune(ctx context.Context) error {
	s.mu.Lock()
	maxRecords := s.maxRecords
	s.mu.Unlock()
	if maxRecords <= 0 {
		return nil
	}
	res, err := execWithSQLiteBusyRetry(ctx, func() (sql.Result, error) {
		return s.db.ExecContext(ctx, `
			DELETE FROM invocations WHERE rowid NOT IN (
				SELECT rowid FROM invocations ORDER BY created_at DESC, rowid DESC LIMIT ?
			)`, maxRecords)
	})
	if err != nil {
		return fmt.Errorf("清理旧的调用历史失败: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.logger.Debug("🧹 已清理旧的调用历史", "deleted", n)
	}
	return nil
}

// List 按时间倒序返回最近 limit 条记录，limit<=0 表示全部
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*Record, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := queryRowsWithSQLiteBusyRetry(ctx, func() (*sql.Rows, error) {
		return s.db.QueryContext(ctx, `
			SELECT id, command, args, result, error, created_at
			FROM invocations ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	})
	if err != nil {
		return nil, fmt.Errorf("查询调用历史失败: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var (
			rec       Record
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Command, &rec.Args, &rec.Result, &rec.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("读取调用历史失败: %w", err)
		}
		rec.CreatedAt = parseSQLiteDateTime(createdAt)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("读取调用历史失败: %w", err)
	}
	return records, nil
}

// Clear 清空历史
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if _, err := execWithSQLiteBusyRetry(ctx, func() (sql.Result, error) {
		return s.db.ExecContext(ctx, `DELETE FROM invocations`)
	}); err != nil {
		return fmt.Errorf("清空调用历史失败: %w", err)
	}
	s.logger.Info("🗑️ 调用历史已清空")
	return nil
}

// Count 返回记录数
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invocations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("统计调用历史失败: %w", err)
	}
	return n, nil
}

// SetMaxRecords 调整保留条数（配置热更新时调用），下次写入时生效
func (s *SQLiteStore) SetMaxRecords(n int) {
	s.mu.Lock()
	s.maxRecords = n
	s.mu.Unlock()
}

// Close 关闭数据库
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.db.Close()
}

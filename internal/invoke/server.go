// Package invoke 在本机回环地址上暴露按名称调用命令的 HTTP 接口，供调试和自动化脚本使用。
package invoke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/netutil"

	"tray-menu-app/internal/commands"
)

// Invoker 命令调用边界，由 commands.Registry 实现
type Invoker interface {
	Names() []string
	Invoke(ctx context.Context, name string, args json.RawMessage) (any, error)
}

// Options 服务参数
type Options struct {
	Addr     string // host:port，端口为 0 时由系统分配
	MaxConns int    // 并发连接上限，<=0 不限制
}

// Server 命令调用 HTTP 服务
type Server struct {
	invoker Invoker
	opts    Options
	logger  *slog.Logger
	engine  *gin.Engine

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// NewServer 创建服务（不监听）
func NewServer(invoker Invoker, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{invoker: invoker, opts: opts, logger: logger}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), s.logRequests(), brotliCompression())
	engine.GET("/commands", s.handleCommands)
	engine.POST("/invoke/:command", s.handleInvoke)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	s.engine = engine

	return s
}

// Handler 返回底层 http.Handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start 绑定端口并在后台提供服务
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return fmt.Errorf("命令调用服务已在运行")
	}

	listener, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("命令调用服务端口绑定失败: %w", err)
	}
	if s.opts.MaxConns > 0 {
		listener = netutil.LimitListener(listener, s.opts.MaxConns)
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.srv = srv
	s.listener = listener

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("❌ 命令调用服务异常退出", "error", err)
		}
	}()

	s.logger.Info("🌐 命令调用服务已启动", "address", listener.Addr().String(), "max_conns", s.opts.MaxConns)
	return nil
}

// Addr 实际监听地址，未启动时为空
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("关闭命令调用服务失败: %w", err)
	}
	s.logger.Info("🛑 命令调用服务已停止")
	return nil
}

func (s *Server) handleCommands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commands": s.invoker.Names()})
}

func (s *Server) handleInvoke(c *gin.Context) {
	name := c.Param("command")

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.invoker.Invoke(c.Request.Context(), name, json.RawMessage(body))
	switch {
	case errors.Is(err, commands.ErrUnknownCommand):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"result": result})
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("📨 命令调用请求",
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start))
	}
}

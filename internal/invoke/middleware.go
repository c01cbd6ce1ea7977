package invoke

import (
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID 请求 ID 响应头
	HeaderRequestID = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestID 沿用客户端传入的请求 ID，没有则生成
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

type brotliWriter struct {
	gin.ResponseWriter
	bw *brotli.Writer
}

func (w *brotliWriter) Write(p []byte) (int, error) {
	return w.bw.Write(p)
}

func (w *brotliWriter) WriteString(s string) (int, error) {
	return w.bw.Write([]byte(s))
}

func acceptsBrotli(header string) bool {
	for _, part := range strings.Split(header, ",") {
		enc, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(strings.TrimSpace(enc), "br") {
			return true
		}
	}
	return false
}

// brotliCompression 客户端声明支持 br 时压缩响应体
func brotliCompression() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !acceptsBrotli(c.GetHeader("Accept-Encoding")) {
			c.Next()
			return
		}

		c.Header("Content-Encoding", "br")
		c.Header("Vary", "Accept-Encoding")

		original := c.Writer
		bw := brotli.NewWriterLevel(original, brotli.DefaultCompression)
		c.Writer = &brotliWriter{ResponseWriter: original, bw: bw}
		defer func() {
			bw.Close()
			c.Writer = original
		}()

		c.Next()
	}
}

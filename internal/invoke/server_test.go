package invoke

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tray-menu-app/internal/commands"
)

func newTestServer() *Server {
	return NewServer(commands.NewRegistry(), Options{Addr: "127.0.0.1:0", MaxConns: 4}, nil)
}

func do(t *testing.T, s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestListCommands(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/commands", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Commands []string `json:"commands"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Commands, "greet")
	assert.Contains(t, body.Commands, "calculate")
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestInvokeSuccess(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodPost, "/invoke/calculate",
		`{"operation":"multiply","a":6,"b":7}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":42}`, rec.Body.String())
}

func TestInvokeCommandError(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodPost, "/invoke/calculate",
		`{"operation":"divide","a":1,"b":0}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"除数不能为零！"}`, rec.Body.String())
}

func TestInvokeBadJSON(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodPost, "/invoke/greet", `{"name":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "参数解析失败")
}

func TestInvokeUnknownCommand(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodPost, "/invoke/launch_rockets", `{}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDPropagated(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/commands", "", map[string]string{HeaderRequestID: "abc-123"})
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestBrotliResponse(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodPost, "/invoke/greet", `{"name":"Wails"}`,
		map[string]string{"Accept-Encoding": "gzip, br"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "br", rec.Header().Get("Content-Encoding"))

	plain, err := io.ReadAll(brotli.NewReader(rec.Body))
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":"Hello, Wails! You've been greeted from Go!"}`, string(plain))
}

func TestAcceptsBrotli(t *testing.T) {
	assert.True(t, acceptsBrotli("br"))
	assert.True(t, acceptsBrotli("gzip, br;q=0.9"))
	assert.False(t, acceptsBrotli("gzip, deflate"))
	assert.False(t, acceptsBrotli("brotli"))
	assert.False(t, acceptsBrotli(""))
}

func TestStartAndShutdown(t *testing.T) {
	s := newTestServer()
	assert.Empty(t, s.Addr())
	require.NoError(t, s.Start())
	assert.Error(t, s.Start())

	addr := s.Addr()
	require.NotEmpty(t, addr)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post("http://"+addr+"/invoke/get_system_info", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	require.NoError(t, s.Shutdown(ctx))
	assert.Empty(t, s.Addr())
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Mock RateLimiter ──

type mockLimiter struct {
	counts map[string]int64
	err    error
}

func (m *mockLimiter) CheckRateLimit(_ context.Context, key string, limit int, _ time.Duration) (bool, int64, error) {
	if m.err != nil {
		return true, 0, m.err
	}
	if m.counts == nil {
		m.counts = make(map[string]int64)
	}
	m.counts[key]++
	n := m.counts[key]
	return n <= int64(limit), n, nil
}

func okHandler(c *gin.Context) { c.String(http.StatusOK, "ok") }

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(&mockLimiter{}, 2, time.Minute, zap.NewNop()))
	r.GET("/ping", okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
		codes = append(codes, w.Code)
		if i == 0 && w.Header().Get("X-RateLimit-Remaining") != "1" {
			t.Errorf("expected remaining 1, got %q", w.Header().Get("X-RateLimit-Remaining"))
		}
		if i == 2 && w.Header().Get("Retry-After") != "60" {
			t.Errorf("expected Retry-After 60, got %q", w.Header().Get("Retry-After"))
		}
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected [200 200 429], got %v", codes)
	}
}

func TestRateLimit_FailOpen(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(&mockLimiter{err: errors.New("redis down")}, 1, time.Minute, zap.NewNop()))
	r.GET("/ping", okHandler)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("计数失败时应放行，实际 %d", w.Code)
		}
	}

	r = gin.New()
	r.Use(RateLimit(nil, 1, time.Minute, zap.NewNop()))
	r.GET("/ping", okHandler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	if w.Code != http.StatusOK {
		t.Errorf("未配置限流器时应放行，实际 %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc-123" || w.Header().Get("X-Request-ID") != "abc-123" {
		t.Errorf("应沿用请求头中的 ID，实际 body=%q header=%q", w.Body.String(), w.Header().Get("X-Request-ID"))
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 100))
	r.ServeHTTP(w, req)
	if len(w.Body.String()) != 36 {
		t.Errorf("超长 ID 应重新生成 UUID，实际 %q", w.Body.String())
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/upload", okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/upload", strings.NewReader(strings.Repeat("a", 32))))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/upload", strings.NewReader("tiny")))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/ping", okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("unexpected allow-origin %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestSecurityHeaders_NoStoreOnAPI(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/api/v1/x", okHandler)
	r.GET("/health", okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/x", nil))
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Error("API 响应应禁止缓存")
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Header().Get("Cache-Control") != "" {
		t.Error("非 API 路径不应设置 Cache-Control")
	}
}

func TestCORS_WildcardAndUnknownOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"*"}))
	r.GET("/ping", okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "http://example.com")
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "http://example.com" {
		t.Errorf("通配配置应放行任意来源，实际 %q", w.Header().Get("Access-Control-Allow-Origin"))
	}

	r = gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/ping", okHandler)
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("未登记的来源不应返回 Allow-Origin")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

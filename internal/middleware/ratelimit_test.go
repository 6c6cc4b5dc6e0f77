// Package middleware 限流中间件单元测试
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ashwinyue/odin-ai/internal/config"
)

func testRateLimitConfig() *config.RateLimitConfig {
	return &config.RateLimitConfig{
		Enabled:       true,
		WindowSeconds: 60,
		General:       100,
		Auth:          10,
		Chat:          20,
	}
}

func setupLimitedRouter(limiter *RateLimiter, bucket string, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", limiter.Limit(bucket, limit), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func doPing(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitCounterAlwaysHasTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRateLimiter(client, testRateLimitConfig())
	r := setupLimitedRouter(limiter, "test", 100)

	for i := 0; i < 3; i++ {
		if w := doPing(r); w.Code != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i, w.Code)
		}
	}

	key := "ratelimit:test:192.0.2.1"
	if !mr.Exists(key) {
		t.Fatal("Counter key not found")
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Minute {
		t.Errorf("Expected counter TTL within the window, got %v", ttl)
	}
}

func TestRateLimitBlocksPastLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRateLimiter(client, testRateLimitConfig())
	r := setupLimitedRouter(limiter, "test", 2)

	for i := 0; i < 2; i++ {
		if w := doPing(r); w.Code != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i, w.Code)
		}
	}
	if w := doPing(r); w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 past limit, got %d", w.Code)
	}
}

func TestRateLimitWindowResets(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRateLimiter(client, testRateLimitConfig())
	r := setupLimitedRouter(limiter, "test", 1)

	if w := doPing(r); w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if w := doPing(r); w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", w.Code)
	}

	mr.FastForward(time.Minute)

	if w := doPing(r); w.Code != http.StatusOK {
		t.Fatalf("Expected 200 after window reset, got %d", w.Code)
	}
}

func TestRateLimitFailOpen(t *testing.T) {
	// 无 Redis 客户端
	limiter := NewRateLimiter(nil, testRateLimitConfig())
	if w := doPing(setupLimitedRouter(limiter, "test", 1)); w.Code != http.StatusOK {
		t.Fatalf("Expected 200 without redis, got %d", w.Code)
	}

	// 开关关闭
	cfg := testRateLimitConfig()
	cfg.Enabled = false
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if w := doPing(setupLimitedRouter(NewRateLimiter(client, cfg), "test", 1)); w.Code != http.StatusOK {
		t.Fatalf("Expected 200 when disabled, got %d", w.Code)
	}

	// Redis 不可用
	mr2 := miniredis.RunT(t)
	client2 := redis.NewClient(&redis.Options{Addr: mr2.Addr()})
	limiter2 := NewRateLimiter(client2, testRateLimitConfig())
	r := setupLimitedRouter(limiter2, "test", 1)
	mr2.Close()
	for i := 0; i < 3; i++ {
		if w := doPing(r); w.Code != http.StatusOK {
			t.Fatalf("Expected 200 when redis is down, got %d", w.Code)
		}
	}
}

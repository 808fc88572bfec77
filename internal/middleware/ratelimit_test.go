package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Now()

	if !rl.allowAt("a", now) || !rl.allowAt("a", now.Add(time.Second)) {
		t.Fatal("Expected first two requests to pass")
	}
	if rl.allowAt("a", now.Add(2*time.Second)) {
		t.Error("Expected third request within window to be rejected")
	}
	if !rl.allowAt("b", now) {
		t.Error("Expected other keys to be unaffected")
	}
	if !rl.allowAt("a", now.Add(61*time.Second)) {
		t.Error("Expected request after window to pass")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)
	now := time.Now()
	rl.allowAt("a", now)
	rl.allowAt("b", now.Add(50*time.Second))

	rl.cleanup(now.Add(90 * time.Second))

	if _, ok := rl.requests["a"]; ok {
		t.Error("Expected stale key to be removed")
	}
	if _, ok := rl.requests["b"]; !ok {
		t.Error("Expected recent key to be kept")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(NewRateLimiter(1, time.Minute)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", w.Code)
	}
}

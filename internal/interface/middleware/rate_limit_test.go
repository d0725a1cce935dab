package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newLimitedRouter(rdb *redis.Client, max int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", RateLimit(rdb, max, time.Minute, KeyByIP(), nil), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func doGet(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	r := newLimitedRouter(newTestRedis(t), 3)

	for i := 0; i < 3; i++ {
		w := doGet(r, "/ping")
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	r := newLimitedRouter(newTestRedis(t), 2)

	doGet(r, "/ping")
	doGet(r, "/ping")
	w := doGet(r, "/ping")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimitSetsHeaders(t *testing.T) {
	r := newLimitedRouter(newTestRedis(t), 5)

	w := doGet(r, "/ping")
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitFailOpenWithoutRedis(t *testing.T) {
	r := newLimitedRouter(nil, 1)

	for i := 0; i < 5; i++ {
		w := doGet(r, "/ping")
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitBypass(t *testing.T) {
	rdb := newTestRedis(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	allowAll := func(*gin.Context) bool { return true }
	r.GET("/ping", RateLimit(rdb, 1, time.Minute, KeyByIP(), allowAll), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	for i := 0; i < 5; i++ {
		w := doGet(r, "/ping")
		require.Equal(t, http.StatusOK, w.Code)
	}
}

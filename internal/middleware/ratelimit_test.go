package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/samlehman617/HeyImHungry/internal/middleware"
)

func newLimitedRouter(limiter *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(limiter.Handler())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimiterThrottlesAfterBurst(t *testing.T) {
	// 60 rpm yields a burst of 6; back-to-back requests beyond the burst
	// must be rejected before the token bucket refills.
	router := newLimitedRouter(middleware.NewRateLimiter(60, time.Minute))

	var ok, limited int
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		switch w.Code {
		case http.StatusOK:
			ok++
		case http.StatusTooManyRequests:
			limited++
			require.Contains(t, w.Body.String(), "rate_limited")
		default:
			t.Fatalf("unexpected status %d", w.Code)
		}
	}

	require.Equal(t, 6, ok)
	require.Equal(t, 4, limited)
}

func TestRateLimiterDisabledPassesThrough(t *testing.T) {
	router := newLimitedRouter(middleware.NewRateLimiter(0, 0))

	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

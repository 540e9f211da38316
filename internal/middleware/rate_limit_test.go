// internal/middleware/rate_limit_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func rateLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/sign", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func hit(r *gin.Engine, remoteAddr string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sign", nil)
	req.RemoteAddr = remoteAddr
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiterExhaustsBurst(t *testing.T) {
	rl := NewRateLimiter(rate.Every(20*time.Second), 3)
	r := rateLimitedRouter(rl)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:443"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:443"))
}

func TestRateLimiterTracksClientsSeparately(t *testing.T) {
	rl := NewRateLimiter(rate.Every(20*time.Second), 1)
	r := rateLimitedRouter(rl)

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:443"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:443"))
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2:443"))
}

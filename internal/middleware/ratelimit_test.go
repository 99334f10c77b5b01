package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensedesk/internal/middleware"
)

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	l, err := middleware.NewIPLimiter("2-M")
	require.NoError(t, err)

	r := gin.New()
	r.POST("/login", middleware.RateLimit(l), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/login", http.NoBody)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_PerClient(t *testing.T) {
	l, err := middleware.NewIPLimiter("1-M")
	require.NoError(t, err)

	r := gin.New()
	r.POST("/login", middleware.RateLimit(l), func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/login", http.NoBody)
		req.RemoteAddr = addr
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, addr)
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestNewIPLimiter_BadRate(t *testing.T) {
	_, err := middleware.NewIPLimiter("five per minute")
	assert.Error(t, err)
}

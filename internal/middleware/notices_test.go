package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"expensedesk/internal/domain"
	"expensedesk/internal/middleware"
	"expensedesk/internal/notify"
)

func TestNotices_AttachesCollector(t *testing.T) {
	var got []domain.Notice

	r := gin.New()
	r.Use(middleware.Notices())
	r.GET("/test", func(c *gin.Context) {
		ctx := c.Request.Context()
		notify.NewLogNotifier().Notify(ctx, domain.NoticeSuccess, "saved")
		got = notify.FromContext(ctx).Notices()
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []domain.Notice{{Kind: domain.NoticeSuccess, Message: "saved"}}, got)
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"expensedesk/internal/notify"
)

// Notices attaches a notice collector to the request context so handlers can
// return the notices raised while serving the request.
func Notices() gin.HandlerFunc {
	return func(c *gin.Context) {
		collector := &notify.Collector{}
		c.Request = c.Request.WithContext(notify.WithCollector(c.Request.Context(), collector))
		c.Next()
	}
}

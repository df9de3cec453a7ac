package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"roomie-match-go/pkg/log"
)

// RequestLogger 记录每个请求的方法、路径、状态码和耗时。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		cost := time.Since(start)
		log.Infow("request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", c.Writer.Status(),
			"ip", c.ClientIP(),
			"cost", cost.String(),
		)
	}
}

package middleware

import (
	"net/http"

	"meal-deals/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errBodyTooLarge = common.NewError(common.ErrCodeEntityTooLarge, "request body too large", http.StatusRequestEntityTooLarge, nil)

// BodySizeLimit rejects bodies larger than maxSize bytes
func BodySizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxSize <= 0 {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxSize {
			common.LogWarn("request body too large",
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("max_size", maxSize),
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			common.WriteError(c, errBodyTooLarge, false)
			return
		}

		// unknown lengths are capped while reading
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)

		c.Next()
	}
}

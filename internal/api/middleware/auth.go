package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"meal-deals/internal/infrastructure/config"
	"meal-deals/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errNotAuthenticated = common.NewError(common.ErrCodeUnauthorized, "Not authenticated", http.StatusUnauthorized, nil)
	errBadToken         = common.NewError(common.ErrCodeUnauthorized, "Unauthorized", http.StatusUnauthorized, nil)
)

// BearerAuth requires "Authorization: Bearer <token>" matching cfg.BearerToken.
// Preflight requests pass untouched.
func BearerAuth(cfg config.AuthConfig) gin.HandlerFunc {
	expected := []byte(cfg.BearerToken)

	return func(c *gin.Context) {
		if !cfg.Enabled || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if header == "" || !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			common.WriteError(c, errNotAuthenticated, false)
			return
		}

		if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), expected) != 1 {
			common.LogWarn("rejected bearer token",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			common.WriteError(c, errBadToken, false)
			return
		}

		c.Next()
	}
}

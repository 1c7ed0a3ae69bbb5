package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"auction-shop/internal/auth"
	"auction-shop/utils"

	"github.com/gin-gonic/gin"
)

var errNotAdmin = errors.New("not an admin")

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// AdminOnly gates admin routes behind the authorization policy. Callers
// identify themselves with the X-Telegram-ID header.
func AdminOnly(policy auth.AuthorizationPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		tgID, err := strconv.ParseInt(c.GetHeader("X-Telegram-ID"), 10, 64)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, err, "missing or invalid X-Telegram-ID header")
			c.Abort()
			return
		}

		if !policy.IsAdmin(tgID) {
			utils.JSONError(c, http.StatusForbidden, errNotAdmin, "admin access required")
			utils.Warn("AdminOnly: rejected non-admin request", map[string]any{
				"tg_id": tgID,
				"path":  c.Request.URL.Path,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

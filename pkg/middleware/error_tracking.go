package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// SentryMiddleware integrates Sentry request scoping and breadcrumbs.
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// RecoveryWithSentry recovers from panics, reports them to Sentry and
// returns a 500 to the client.
func RecoveryWithSentry() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				hub := sentrygin.GetHubFromContext(c)
				if hub == nil {
					hub = sentry.CurrentHub().Clone()
				}

				hub.Scope().SetRequest(c.Request)
				hub.Scope().SetContext("panic", map[string]interface{}{
					"value":      fmt.Sprintf("%v", err),
					"stacktrace": string(debug.Stack()),
				})

				hub.RecoverWithContext(c.Request.Context(), err)
				hub.Flush(2 * time.Second)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal Server Error",
					"message": "An unexpected error occurred",
				})
			}
		}()

		c.Next()
	}
}

// ErrorHandler captures request errors and unexplained 5xx responses and
// forwards them to Sentry. It should sit at the end of the middleware chain.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		statusCode := c.Writer.Status()

		hub := sentrygin.GetHubFromContext(c)
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
		}

		if len(c.Errors) > 0 {
			for _, err := range c.Errors {
				if statusCode >= 500 {
					hub.Scope().SetRequest(c.Request)
					hub.Scope().SetTag("http.method", c.Request.Method)
					hub.Scope().SetTag("http.status_code", fmt.Sprintf("%d", statusCode))
					hub.Scope().SetTag("endpoint", c.Request.URL.Path)
					hub.CaptureException(err.Err)
				}
			}
			return
		}

		if statusCode >= 500 {
			hub.Scope().SetRequest(c.Request)
			hub.Scope().SetLevel(sentry.LevelError)
			hub.CaptureMessage(fmt.Sprintf("HTTP %d: %s %s", statusCode, c.Request.Method, c.Request.URL.Path))
		}
	}
}

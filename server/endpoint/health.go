package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/healthkit/component"
	apperrors "github.com/kbukum/healthkit/errors"
)

// Checker runs health checks on demand. *component.Aggregator implements it.
type Checker interface {
	Report(ctx context.Context) *component.Report
	Check(ctx context.Context, name string) (component.Health, bool)
}

// Health returns a handler that runs every check and writes the report.
// It answers 503 when the overall status is unhealthy. A positive timeout
// bounds the context handed to the checks.
func Health(checker Checker, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := checkContext(c, timeout)
		defer cancel()

		report := checker.Report(ctx)
		c.JSON(statusCode(report.Status), report)
	}
}

// Component returns a handler that checks the single component named by the
// :name path parameter. Unknown names answer 404.
func Component(checker Checker, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		ctx, cancel := checkContext(c, timeout)
		defer cancel()

		h, ok := checker.Check(ctx, name)
		if !ok {
			c.JSON(http.StatusNotFound, apperrors.NotFound("component", name).ToResponse())
			return
		}
		c.JSON(statusCode(h.Status), h)
	}
}

func checkContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(c.Request.Context(), timeout)
	}
	return context.WithCancel(c.Request.Context())
}

func statusCode(s component.HealthStatus) int {
	if s == component.StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

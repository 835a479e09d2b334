package checks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kbukum/healthkit/component"
	apperrors "github.com/kbukum/healthkit/errors"
)

var _ component.HealthComponent = (*HTTP)(nil)

// HTTP checks an HTTP endpoint with a GET request.
type HTTP struct {
	base
	url    string
	client *http.Client
}

// NewHTTP creates a check for url. A nil client uses one with a 10s timeout.
func NewHTTP(name, url string, client *http.Client, opts ...Option) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTP{base: newBase(name, url, opts), url: url, client: client}
}

// CheckHealth maps the response code: 2xx is healthy, 429 and 5xx are
// unhealthy, anything else is degraded. Transport errors fail the check.
func (h *HTTP) CheckHealth(ctx context.Context) (component.HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, http.NoBody)
	if err != nil {
		return component.StatusUnhealthy, fmt.Errorf("build request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return component.StatusUnhealthy, apperrors.ConnectionFailed(h.target, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	h.succeeded(ctx)
	return StatusFromHTTP(resp.StatusCode), nil
}

// StatusFromHTTP classifies an HTTP status code.
func StatusFromHTTP(code int) component.HealthStatus {
	switch {
	case code >= 200 && code < 300:
		return component.StatusHealthy
	case code == http.StatusTooManyRequests, code >= 500:
		return component.StatusUnhealthy
	default:
		return component.StatusDegraded
	}
}

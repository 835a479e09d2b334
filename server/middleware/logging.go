package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/healthkit/logger"
)

// RequestLogger returns middleware that logs every request with method,
// path, status code and duration. Probe traffic (/livez, /metrics) is
// skipped unless it fails; health reports are always logged.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			if isProbe(r.URL.Path) && sw.status < http.StatusBadRequest {
				return
			}

			fields := logger.MergeWithDuration(logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				logger.FieldStatus, sw.status,
			), time.Since(start))
			if id := r.Header.Get(HeaderRequestID); id != "" {
				fields["request_id"] = id
			}
			logByStatus(log, fields, sw.status)
		})
	}
}

func isProbe(path string) bool {
	for _, p := range []string{"/livez", "/metrics", "/version"} {
		if path == p || strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}

// logByStatus logs request fields at the level matching the HTTP status.
// A 503 from a health report is expected traffic and logs at warn.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status == http.StatusServiceUnavailable:
		log.Warn("request completed", fields)
	case status >= 500:
		log.Error("request completed", fields)
	case status >= 400:
		log.Warn("request completed", fields)
	default:
		log.Debug("request completed", fields)
	}
}

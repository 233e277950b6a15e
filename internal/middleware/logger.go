package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

// Unwrap returns the underlying ResponseWriter for http.ResponseController.
func (sr *statusRecorder) Unwrap() http.ResponseWriter { return sr.ResponseWriter }

// RequestLogger logs method, path, status, remote address and duration of
// every request.
func RequestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	log = log.WithField("component", "http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			entry := log.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      sr.statusCode,
				"duration_ms": time.Since(start).Milliseconds(),
				"remote_addr": r.RemoteAddr,
			})
			switch {
			case sr.statusCode >= 500:
				entry.Error("request")
			case sr.statusCode >= 400:
				entry.Warn("request")
			default:
				entry.Info("request")
			}
		})
	}
}

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sspedowski/justice-document-pip-sub000/internal/metrics"
)

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Metrics middleware records request counts and latency per method and path.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			m.RecordHTTPRequest(r.Method, r.URL.Path, strconv.Itoa(rec.status), time.Since(start))
		})
	}
}

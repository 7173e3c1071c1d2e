package middleware

import (
	"net/http"
	"time"

	"github.com/vfg2006/ad-review-dashboard/pkg/metrics"
)

// MetricsMiddleware registra contagem e latência por rota. Rotas inexistentes
// entram como "unmatched" para não explodir a cardinalidade.
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			lrw := newLoggingResponseWriter(w)

			next.ServeHTTP(lrw, r)

			path := r.URL.Path
			if lrw.statusCode == http.StatusNotFound || lrw.statusCode == http.StatusMethodNotAllowed {
				path = "unmatched"
			}
			m.RecordHTTPRequest(r.Method, path, lrw.statusCode, time.Since(startTime))
		})
	}
}

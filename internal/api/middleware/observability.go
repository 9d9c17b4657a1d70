package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/neurostream/protocolengine/internal/infrastructure/observability"
)

// Observability adds OpenTelemetry tracing and metrics to HTTP requests.
// Spans and metrics are labelled with the matched route pattern so that path
// parameters do not multiply label values.
func Observability(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := observability.StartSpan(r.Context(), r.Method+" "+route(r))
			defer span.End()

			observability.SetSpanAttributes(span,
				attribute.String("http.method", r.Method),
				attribute.String("http.user_agent", r.UserAgent()),
				attribute.String("request.id", observability.RequestIDFromContext(ctx)),
			)

			rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			// ServeMux records the matched pattern on the request it is handed
			req := r.WithContext(ctx)
			next.ServeHTTP(rw, req)

			routeLabel := route(req)
			span.SetName(r.Method + " " + routeLabel)
			observability.RecordRequestMetric(ctx, metrics, r.Method, routeLabel, rw.statusCode, time.Since(start))
			observability.SetSpanAttributes(span,
				attribute.String("http.route", routeLabel),
				attribute.Int("http.status_code", rw.statusCode),
			)
		})
	}
}

// route returns the path part of the matched pattern, or the raw path when
// no pattern matched
func route(r *http.Request) string {
	if r.Pattern == "" {
		return r.URL.Path
	}
	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}
	return r.Pattern
}

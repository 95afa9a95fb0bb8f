package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/example/vreg/internal/ctxutil"
	"github.com/example/vreg/internal/metrics"
)

// ActorHeader carries the authenticated operator identity set by the
// fronting proxy. Mutating endpoints reject requests without it.
const ActorHeader = "X-Actor"

// statusRecorder captures the status code a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithLogging wraps a handler with request logging and, when a metrics
// manager is present, request counting. route is the registered pattern,
// not the concrete path, to keep label cardinality bounded.
func WithLogging(m *metrics.Manager, route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		elapsed := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
		)
		if m != nil {
			m.RecordHTTPRequest(r.Method, route, strconv.Itoa(rec.status), elapsed)
		}
	}
}

// WithActor copies the actor header into the request context.
func WithActor(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if actor := r.Header.Get(ActorHeader); actor != "" {
			r = r.WithContext(ctxutil.WithActor(r.Context(), actor))
		}
		next(w, r)
	}
}

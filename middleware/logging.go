package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request. Successful health checks are
// skipped; 4xx log at warn and 5xx at error.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startedAt := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					// Hijacked (websocket) or nothing written.
					status = http.StatusOK
				}
				if status < http.StatusBadRequest && isNoisyPath(r.URL.Path) {
					return
				}

				fields := []any{
					"request_id", chimw.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"latency", time.Since(startedAt),
					"bytes", ww.BytesWritten(),
				}

				switch {
				case status >= 500:
					logger.Error("http_request", fields...)
				case status >= 400:
					logger.Warn("http_request", fields...)
				default:
					logger.Info("http_request", fields...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func isNoisyPath(path string) bool {
	return path == "/healthz"
}

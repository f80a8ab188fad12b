package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// requestLogger tags each request with an ID, attaches a logger carrying it
// to the request context and writes one access log line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = newRequestID()
		}
		w.Header().Set(RequestIDHeader, id)

		logger := log.With().Str("request_id", id).Logger()
		ctx := logger.WithContext(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

func newRequestID() string {
	id, err := uuid.NewV4()
	if err != nil {
		log.Warn().Err(err).Msg("failed to generate request id")
		return "unknown"
	}
	return id.String()
}

// requestID returns the ID assigned by requestLogger.
func requestID(w http.ResponseWriter) string {
	return w.Header().Get(RequestIDHeader)
}

// logger returns the request-scoped logger.
func logger(r *http.Request) *zerolog.Logger {
	return zerolog.Ctx(r.Context())
}

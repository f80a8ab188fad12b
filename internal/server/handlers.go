package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ironsheep/image-proxy/internal/imaging"
	"github.com/ironsheep/image-proxy/internal/oplist"
	"github.com/ironsheep/image-proxy/internal/source"
	"github.com/ironsheep/image-proxy/internal/worker"
)

// handleImage serves GET /image/{spec}/{url}.
//
// The pipeline is:
//  1. Decode the operation list from the {spec} path segment
//  2. Recover the source URL from the rest of the path
//  3. Fetch the source through the cache
//  4. On the compute pool: decode, apply the operations, encode
//
// Failures map to a status through statusFor.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger(r)

	ops, err := oplist.Decode(chi.URLParam(r, "spec"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	rawURL, err := sourceURL(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	l.Debug().Str("url", rawURL).Strs("ops", ops.Names()).Msg("processing image")

	data, err := s.opts.Sources.GetOrFetch(ctx, rawURL)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out, err := s.render(ctx, data, ops)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	l.Info().Str("url", rawURL).Int("bytes", len(out)).Msg("finished processing")

	h := w.Header()
	h.Set("Content-Type", s.opts.Format.ContentType())
	h.Set("Content-Length", strconv.Itoa(len(out)))
	if s.opts.CacheControl != "" {
		h.Set("Cache-Control", s.opts.CacheControl)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		l.Debug().Err(err).Msg("failed to write response")
	}
}

// render runs the transform on the compute pool.
func (s *Server) render(ctx context.Context, data []byte, ops oplist.List) ([]byte, error) {
	var (
		out []byte
		err error
	)
	poolErr := s.opts.Pool.Do(ctx, func() {
		var e *imaging.Engine
		e, err = imaging.DecodeEngine(data, s.opts.Watermark)
		if err != nil {
			return
		}
		e.SetMaxPixels(s.opts.MaxPixels)
		e.Apply(ops)
		out, err = e.Finalize(s.opts.Format, s.opts.Encode)
	})
	if poolErr != nil {
		return nil, poolErr
	}
	return out, err
}

// errBadSourceURL means the path after {spec} is not a usable URL.
var errBadSourceURL = errors.New("invalid source URL")

// sourceURL recovers the source URL from the path after {spec}. The tail is
// taken from the escaped path and unescaped exactly once, whether or not the
// client percent-encoded it. A query string on the request belongs to the
// source URL.
func sourceURL(r *http.Request) (string, error) {
	raw := pathTail(r.URL.EscapedPath())
	if raw == "" {
		return "", fmt.Errorf("%w: empty", errBadSourceURL)
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errBadSourceURL, err)
	}
	if r.URL.RawQuery != "" {
		decoded += "?" + r.URL.RawQuery
	}
	return decoded, nil
}

// pathTail returns what follows /image/{spec}/ in an escaped path.
func pathTail(escaped string) string {
	rest, ok := strings.CutPrefix(escaped, imagePrefix)
	if !ok {
		return ""
	}
	_, tail, _ := strings.Cut(rest, "/")
	return tail
}

// statusFor maps a pipeline error to an HTTP status.
//
// Client mistakes such as a malformed operation list or an unreachable source
// are 400. A source that is not a decodable image and a failed encode are
// 500, as is anything unexpected. Work refused by the pool is 503.
func statusFor(err error) int {
	switch {
	case errors.Is(err, oplist.ErrDecode),
		errors.Is(err, errBadSourceURL),
		errors.Is(err, source.ErrFetch):
		return http.StatusBadRequest
	case errors.Is(err, imaging.ErrImageDecode),
		errors.Is(err, imaging.ErrImageEncode):
		return http.StatusInternalServerError
	case errors.Is(err, worker.ErrPoolClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and writes an ErrorResponse. Server-side failures get the
// generic status text instead of the error message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	l := logger(r)
	ev := l.Warn()
	if status >= http.StatusInternalServerError {
		ev = l.Error()
	}
	ev.Err(err).Int("status", status).Msg("request failed")

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, ErrorResponse{Error: msg, RequestID: requestID(w)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

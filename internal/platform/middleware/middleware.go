// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware holds the HTTP decorators shared by every route of the studio API.

Chain order is fixed by internal/api:

  - RequestID, StructuredLogger, Metrics: correlation, access log and counters.
  - RateLimit, PanicRecovery: protection of the process.
  - CORS, Authenticate, MaxBodySize: per-request policy.
*/
package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/claycompanion/studio/internal/platform/constants"
	"github.com/claycompanion/studio/internal/platform/ctxutil"
	"github.com/claycompanion/studio/internal/platform/metrics"
	"github.com/claycompanion/studio/pkg/uuid"
)

// responseRecorder remembers the status code written by downstream handlers.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func record(writer http.ResponseWriter) *responseRecorder {
	return &responseRecorder{ResponseWriter: writer, status: http.StatusOK}
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestID reuses the caller's X-Request-ID or mints a UUIDv7, and echoes it back.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			id := request.Header.Get(constants.HeaderXRequestID)
			if id == "" {
				id = uuid.New()
			}

			writer.Header().Set(constants.HeaderXRequestID, id)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), id)))
		})
	}
}

// StructuredLogger stores a request-scoped logger in the context and writes
// one access line per request once the handler returns.
func StructuredLogger(logger *slog.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			started := time.Now()
			scoped := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request, trustProxy)),
			)

			ctx := ctxutil.WithLogger(request.Context(), scoped)
			recorder := record(writer)
			next.ServeHTTP(recorder, request.WithContext(ctx))

			attrs := []any{
				slog.Int("status", recorder.status),
				slog.Int64("latency_ms", time.Since(started).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}
			scoped.Log(ctx, levelFor(recorder.status), "http_request_finished", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Metrics counts requests per chi route pattern, so that every artist shares
// the /artists/{artistID}/studio-images series.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			started := time.Now()
			recorder := record(writer)
			next.ServeHTTP(recorder, request)

			metrics.RecordRequest(request.Method, routePattern(request), strconv.Itoa(recorder.status), time.Since(started).Seconds())
		})
	}
}

func routePattern(request *http.Request) string {
	if rc := chi.RouteContext(request.Context()); rc != nil && rc.RoutePattern() != "" {
		return rc.RoutePattern()
	}
	return "unmatched"
}

// RealIP returns the client address. With trustProxy it prefers X-Real-IP,
// then the first X-Forwarded-For hop. Those headers are client controlled, so
// they are only read when a reverse proxy in front of the service sets them.
// Otherwise the socket peer is used.
func RealIP(request *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
			return ip
		}
		if hops := request.Header.Get(constants.HeaderXForwardedFor); hops != "" {
			first, _, _ := strings.Cut(hops, ",")
			return strings.TrimSpace(first)
		}
	}
	if host, _, err := net.SplitHostPort(request.RemoteAddr); err == nil {
		return host
	}
	return request.RemoteAddr
}

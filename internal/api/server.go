// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api assembles the chi router for the studio service and owns the
[http.Server] lifecycle.

Layout:

  - /health, /ready and /metrics are unauthenticated probes.
  - /uploads/* exists only when attachments live on the local disk.
  - /api/v1/artists/{artistID}/... carries the studio resources.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/claycompanion/studio/internal/core/studio"
	"github.com/claycompanion/studio/internal/platform/apperr"
	"github.com/claycompanion/studio/internal/platform/config"
	"github.com/claycompanion/studio/internal/platform/constants"
	"github.com/claycompanion/studio/internal/platform/middleware"
	"github.com/claycompanion/studio/internal/platform/respond"
)

// Server owns the router and the listening [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers are the route targets built by cmd/api.
type Handlers struct {
	// Liveness answers /health.
	Liveness http.HandlerFunc
	// Readiness answers /ready.
	Readiness http.HandlerFunc

	// Studio serves studio images and the studio page. Nil disables the API routes.
	Studio *studio.Handler

	// Uploads serves locally stored attachments under UploadsPrefix. Nil with the s3 driver.
	Uploads       http.Handler
	UploadsPrefix string
}

// Auth bundles the token verification dependencies of the middleware chain.
type Auth struct {
	Verifier    middleware.TokenVerifier
	Revocations middleware.RevocationChecker
}

// NewServer builds the router. ctx bounds background work started by the
// middleware, such as the rate limiter sweep.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, auth Auth, h Handlers) *Server {
	router := chi.NewRouter()

	router.Use(
		middleware.RequestID(),
		middleware.StructuredLogger(log, cfg.TrustProxyHeaders),
		middleware.Metrics(),
		chimw.Timeout(constants.GlobalRequestTimeout),
		middleware.RateLimit(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst, cfg.TrustProxyHeaders),
		middleware.PanicRecovery(),
		middleware.CORS(cfg),
		middleware.Authenticate(auth.Verifier, auth.Revocations),
		middleware.MaxBodySize(constants.MaxRequestBodyBytes),
		chimw.CleanPath,
	)

	unknownRoute := func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("Route"))
	}
	router.NotFound(unknownRoute)
	router.MethodNotAllowed(unknownRoute)

	mountProbes(router, h)
	mountAPI(router, h)

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
		},
	}
}

func mountProbes(router chi.Router, h Handlers) {
	router.Get("/health", h.Liveness)
	router.Get("/ready", h.Readiness)
	router.Handle("/metrics", promhttp.Handler())

	if h.Uploads != nil {
		router.Handle(h.UploadsPrefix+"/*", http.StripPrefix(h.UploadsPrefix, h.Uploads))
	}
}

func mountAPI(router chi.Router, h Handlers) {
	if h.Studio == nil {
		return
	}
	router.Route("/api/v1/artists/{"+studio.ParamArtistID+"}", h.Studio.RegisterRoutes)
}

// Handler exposes the router to httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server stops. After Shutdown it returns
// [http.ErrServerClosed].
func (s *Server) ListenAndServe() error {
	s.log.Info("http_server_listening", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests for at most timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}

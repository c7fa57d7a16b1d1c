// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claycompanion/studio/internal/api"
	"github.com/claycompanion/studio/internal/platform/config"
	"github.com/claycompanion/studio/internal/platform/sec"
)

func newTestServer(t *testing.T, deps api.HealthDependencies) http.Handler {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	liveness, readiness := api.NewHealthHandlers(deps, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{ServerPort: "0", Environment: "test"}
	server := api.NewServer(ctx, cfg, logger, api.Auth{
		Verifier: sec.NewTokenServiceFromKeys(nil, &key.PublicKey, "claycompanion.app"),
	}, api.Handlers{Liveness: liveness, Readiness: readiness})

	return server.Handler()
}

func get(t *testing.T, handler http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

/*
TestHealth_Liveness always answers ok.
*/
func TestHealth_Liveness(t *testing.T) {
	rec, body := get(t, newTestServer(t, api.HealthDependencies{}), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

/*
TestHealth_Readiness reports each dependency and degrades on failure.
*/
func TestHealth_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }

	t.Run("ready", func(t *testing.T) {
		handler := newTestServer(t, api.HealthDependencies{CheckDatabase: ok, CheckCache: ok, CheckStorage: ok})
		rec, body := get(t, handler, "/ready")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", body["status"])
		assert.Len(t, body["checks"], 3)
	})

	t.Run("degraded", func(t *testing.T) {
		handler := newTestServer(t, api.HealthDependencies{
			CheckDatabase: ok,
			CheckStorage:  func(context.Context) error { return errors.New("bucket missing") },
		})
		rec, body := get(t, handler, "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "degraded", body["status"])
		assert.Contains(t, rec.Body.String(), "bucket missing")
	})
}

/*
TestServer_UnknownRoute answers with the standard error envelope.
*/
func TestServer_UnknownRoute(t *testing.T) {
	rec, body := get(t, newTestServer(t, api.HealthDependencies{}), "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

/*
TestServer_Metrics exposes Prometheus collectors.
*/
func TestServer_Metrics(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{})
	get(t, handler, "/health")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "claycompanion_studio_api_requests_total")
}

/*
TestServer_Uploads mounts the local file server with its prefix stripped.
*/
func TestServer_Uploads(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{}, logger)

	files := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, r.URL.Path)
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := api.NewServer(ctx, &config.Config{ServerPort: "0"}, logger, api.Auth{
		Verifier: sec.NewTokenServiceFromKeys(nil, nil, "claycompanion.app"),
	}, api.Handlers{Liveness: liveness, Readiness: readiness, Uploads: files, UploadsPrefix: "/uploads"})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/artists/a1/studio/kiln.jpg", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/artists/a1/studio/kiln.jpg", rec.Body.String())
}

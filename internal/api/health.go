// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/claycompanion/studio/internal/platform/constants"
	"github.com/claycompanion/studio/internal/platform/respond"
)

// readinessTimeout bounds each dependency check.
const readinessTimeout = 3 * time.Second

// Check probes one dependency.
type Check func(ctx context.Context) error

// HealthDependencies are the probes behind /ready. A nil Check is left out of the report.
type HealthDependencies struct {
	CheckDatabase Check // PostgreSQL pool
	CheckCache    Check // Redis holding revoked tokens
	CheckStorage  Check // attachment backend
}

type namedCheck struct {
	name  string
	check Check
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers returns the /health and /ready handlers.
//
// /health only proves the process serves HTTP. /ready runs every configured
// check in parallel and answers 503 "degraded" if any of them fails.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	var checks []namedCheck
	for _, candidate := range []namedCheck{
		{"postgres", deps.CheckDatabase},
		{"redis", deps.CheckCache},
		{"storage", deps.CheckStorage},
	} {
		if candidate.check != nil {
			checks = append(checks, candidate)
		}
	}

	liveness = func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
	}

	readiness = func(writer http.ResponseWriter, request *http.Request) {
		results := probeAll(request.Context(), checks)

		status, code := "ready", http.StatusOK
		for _, result := range results {
			if result.IsOK {
				continue
			}
			status, code = "degraded", http.StatusServiceUnavailable
			logger.Error("readiness_check_failed",
				slog.String("dependency", result.Name),
				slog.String("error", result.Error),
			)
		}

		respond.JSON(writer, code, map[string]any{
			constants.FieldStatus: status,
			constants.FieldChecks: results,
		})
	}
	return liveness, readiness
}

// probeAll runs the checks concurrently. Results keep the order of checks.
func probeAll(ctx context.Context, checks []namedCheck) []checkResult {
	results := make([]checkResult, len(checks))

	var group errgroup.Group
	for i, nc := range checks {
		group.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, readinessTimeout)
			defer cancel()

			results[i] = checkResult{Name: nc.name, IsOK: true}
			if err := nc.check(checkCtx); err != nil {
				results[i] = checkResult{Name: nc.name, Error: err.Error()}
			}
			return nil
		})
	}
	_ = group.Wait()

	return results
}

// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package requestutil reads path parameters, query values, JSON bodies and
// the authenticated caller from an incoming request.
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/claycompanion/studio/internal/platform/apperr"
	"github.com/claycompanion/studio/internal/platform/ctxutil"
	"github.com/claycompanion/studio/internal/platform/validate"
)

// DecodeJSON decodes the body into target. An empty body leaves target
// untouched, so a PATCH without fields is valid.
//
// Every decoding failure, including a body over the size limit, is reported
// as [validate.ErrInvalidJSON].
func DecodeJSON(request *http.Request, target any) error {
	err := json.NewDecoder(request.Body).Decode(target)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return validate.ErrInvalidJSON
}

// ID returns a chi path parameter.
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Query returns a trimmed query-string value, or "" when absent.
func Query(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}

// RequiredUserID returns the authenticated artist id or a 401.
func RequiredUserID(request *http.Request) (string, error) {
	callerID := ctxutil.CallerID(request.Context())
	if callerID == "" {
		return "", apperr.Unauthorized("Unauthorized")
	}
	return callerID, nil
}

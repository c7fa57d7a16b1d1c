// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes JSON bodies and the error envelope shared by every handler.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/claycompanion/studio/internal/platform/apperr"
	"github.com/claycompanion/studio/internal/platform/ctxutil"
)

// ErrorEnvelope is the body of every error response. Errors carries full
// messages for VALIDATION_ERROR and PERSISTENCE_FAILURE only.
type ErrorEnvelope struct {
	Error  string   `json:"error"`
	Code   string   `json:"code"`
	Errors []string `json:"errors,omitempty"`
}

// JSON encodes payload with the given status.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK is JSON with 200.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, data)
}

// Created is JSON with 201.
func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, data)
}

// NoContent writes an empty 204.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error renders err as an [ErrorEnvelope]. Errors that are not an
// [*apperr.AppError] become INTERNAL_ERROR; causes are logged, never sent.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}
	logFailure(request, appError)

	envelope := ErrorEnvelope{Error: appError.Message, Code: appError.Code}
	switch appError.Code {
	case apperr.CodeValidation, apperr.CodePersistenceFailure:
		envelope.Errors = appError.Messages()
	}
	JSON(writer, appError.HTTPStatus, envelope)
}

func logFailure(request *http.Request, appError *apperr.AppError) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)

	var cause string
	if appError.Cause != nil {
		cause = appError.Cause.Error()
	}

	switch {
	case appError.HTTPStatus >= http.StatusInternalServerError:
		logger.ErrorContext(ctx, "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
			slog.String("cause", cause),
		)
	case appError.Code == apperr.CodePersistenceFailure:
		logger.WarnContext(ctx, "api_persistence_failure",
			slog.String("message", appError.Message),
			slog.String("cause", cause),
		)
	}
}

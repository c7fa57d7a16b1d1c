// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error vocabulary shared by services, stores and handlers.

An [AppError] knows its HTTP status and a stable machine code. Handlers never
build status codes themselves: they pass errors to respond.Error, which renders
the envelope. Anything that is not an AppError by then becomes INTERNAL_ERROR.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Machine-readable codes carried in the "code" field of error envelopes.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeValidation         = "VALIDATION_ERROR"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
	CodeRateLimited        = "TOO_MANY_REQUESTS"
	CodeInternal           = "INTERNAL_ERROR"
	CodeUnavailable        = "SERVICE_UNAVAILABLE"
)

// AppError is a classified failure.
//
// Cause stays on the server: respond.Error logs it and never serializes it.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one rejected attribute. Message omits the attribute name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FullMessage prefixes the humanized field, e.g. "Caption is too long (maximum is 150 characters)".
// A FieldError without Field returns Message as is.
func (f FieldError) FullMessage() string {
	if f.Field == "" {
		return f.Message
	}
	return Humanize(f.Field) + " " + f.Message
}

// Humanize turns "alt_text" into "Alt text".
func Humanize(field string) string {
	label := strings.ReplaceAll(field, "_", " ")
	first, size := utf8.DecodeRuneInString(label)
	if first == utf8.RuneError {
		return label
	}
	return string(unicode.ToUpper(first)) + label[size:]
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// Messages lists the full message of every detail. Without details it is the
// top-level message alone.
func (e *AppError) Messages() []string {
	if len(e.Details) == 0 {
		return []string{e.Message}
	}
	out := make([]string, len(e.Details))
	for i, detail := range e.Details {
		out[i] = detail.FullMessage()
	}
	return out
}

func newError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// NotFound reports a missing resource: NotFound("Studio image") reads "Studio image not found".
// Ownership mismatches use it too, so callers cannot probe for other artists' rows.
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

// Unauthorized is a 401 for a missing or rejected credential.
func Unauthorized(msg string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, msg)
}

// ValidationError is a 422 listing every rejected attribute.
func ValidationError(msg string, details ...FieldError) *AppError {
	e := newError(http.StatusUnprocessableEntity, CodeValidation, msg)
	e.Details = details
	return e
}

// PersistenceFailure is a 422 for a write the store refused without naming a field.
func PersistenceFailure(msg string, cause error) *AppError {
	e := newError(http.StatusUnprocessableEntity, CodePersistenceFailure, msg)
	e.Cause = cause
	return e
}

// RateLimited is a 429 telling the client when to retry.
func RateLimited(retryAfterSeconds int) *AppError {
	return newError(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// Internal hides cause behind a generic 500 message.
func Internal(cause error) *AppError {
	e := newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred")
	e.Cause = cause
	return e
}

// ServiceUnavailable is a 503 for a dependency that cannot answer right now.
func ServiceUnavailable(msg string) *AppError {
	return newError(http.StatusServiceUnavailable, CodeUnavailable, msg)
}

// IsAppError reports whether err wraps an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err wraps an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

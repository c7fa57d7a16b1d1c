// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/claycompanion/studio/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// resource names the entity for the NotFound message ("Studio image").
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Constraint backstops. The service validates first, so these only fire on races.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ForeignKeyViolation:
			return withCause(apperr.NotFound(resource), err)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return withCause(apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   columnField(pgErr),
				Message: "is invalid",
			}), err)
		case pgerrcode.InvalidTextRepresentation:
			return withCause(apperr.NotFound(resource), err)
		case pgerrcode.QueryCanceled:
			return withCause(apperr.ServiceUnavailable("Request timed out"), err)
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", resource, err))
}

func withCause(ae *apperr.AppError, cause error) *apperr.AppError {
	ae.Cause = cause
	return ae
}

// columnField maps a constraint violation to a JSON field name where possible.
func columnField(pgErr *pgconn.PgError) string {
	switch pgErr.ConstraintName {
	case "chk_studioimage_category":
		return "category"
	case "chk_studioimage_dimensions":
		return "image"
	}
	return ""
}

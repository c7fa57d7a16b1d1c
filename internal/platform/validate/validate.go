// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate collects attribute failures so that one response can list
// all of them, in the order the rules ran.
package validate

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/claycompanion/studio/internal/platform/apperr"
)

// ErrInvalidJSON rejects a body that is not a JSON document.
var ErrInvalidJSON = apperr.ValidationError("Validation failed", apperr.FieldError{Message: "Request body is not valid JSON"})

// Validator accumulates [apperr.FieldError]s. Rules return the receiver so they chain.
// The zero value is ready to use; use one per operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required rejects blank values ("can't be blank").
func (v *Validator) Required(field, value string) *Validator {
	if len(strings.TrimSpace(value)) == 0 {
		v.add(field, "can't be blank")
	}
	return v
}

// ValidUTF8 rejects byte sequences that are not UTF-8, which the database
// refuses to store.
func (v *Validator) ValidUTF8(field, value string) *Validator {
	if !utf8.ValidString(value) {
		v.add(field, "contains invalid characters")
	}
	return v
}

// MaxLen counts characters after NFC normalization, so "e" plus a combining
// accent is one character.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(norm.NFC.String(value)) > max {
		v.add(field, fmt.Sprintf("is too long (maximum is %d characters)", max))
	}
	return v
}

// OneOf rejects values outside allowed, e.g. "Category is not a valid category".
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if !slices.Contains(allowed, value) {
		v.add(field, "is not a valid "+strings.ReplaceAll(field, "_", " "))
	}
	return v
}

// Custom records message when failed is true.
//
//	v.Custom("image", size > limit, "must be under 5MB")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Merge folds the details of another VALIDATION_ERROR into v. Other errors are dropped.
func (v *Validator) Merge(err error) *Validator {
	if ae := apperr.As(err); ae != nil && ae.Code == apperr.CodeValidation {
		v.errs = append(v.errs, ae.Details...)
	}
	return v
}

// Err ends a chain: nil when every rule passed, otherwise one VALIDATION_ERROR.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return failed(v.errs...)
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// FieldErr is a VALIDATION_ERROR with a single detail.
func FieldErr(field, message string) *apperr.AppError {
	return failed(apperr.FieldError{Field: field, Message: message})
}

func failed(details ...apperr.FieldError) *apperr.AppError {
	return apperr.ValidationError("Validation failed", details...)
}

// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claycompanion/studio/internal/platform/apperr"
	"github.com/claycompanion/studio/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "category", "studio", false},
		{"empty_string", "category", "", true},
		{"whitespace_only", "category", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			err := v.Err()
			if tt.hasError {
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, apperr.CodeValidation, ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
				assert.Equal(t, []string{"Category can't be blank"}, ae.Messages())
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

/*
TestValidator_MaxLen checks boundary lengths, counting composed characters once.
*/
func TestValidator_MaxLen(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"at_limit", strings.Repeat("a", 150), true},
		{"over_limit", strings.Repeat("a", 151), false},
		{"decomposed_accents_at_limit", strings.Repeat("e\u0301", 150), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.MaxLen("caption", tt.value, 150)
			assert.Equal(t, tt.isValid, v.Err() == nil)
		})
	}

	v := &validate.Validator{}
	ae := apperr.As(v.MaxLen("alt_text", strings.Repeat("x", 501), 500).Err())
	require.NotNil(t, ae)
	assert.Equal(t, []string{"Alt text is too long (maximum is 500 characters)"}, ae.Messages())
}

/*
TestValidator_ValidUTF8 rejects byte sequences the database cannot store.
*/
func TestValidator_ValidUTF8(t *testing.T) {
	v := &validate.Validator{}
	v.ValidUTF8("caption", "Glaze test, céladon")
	assert.NoError(t, v.Err())

	v.ValidUTF8("caption", "bad \xff\xfe caption")
	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Equal(t, []string{"Caption contains invalid characters"}, ae.Messages())
}

/*
TestValidator_OneOf checks closed-set membership.
*/
func TestValidator_OneOf(t *testing.T) {
	v := &validate.Validator{}
	v.OneOf("category", "studio", "studio", "process", "other")
	assert.NoError(t, v.Err())

	v.OneOf("category", "invalid", "studio", "process", "other")
	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Equal(t, []string{"Category is not a valid category"}, ae.Messages())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("category", "").
		MaxLen("caption", strings.Repeat("a", 151), 150).
		OneOf("category", "kiln", "studio", "process", "other").
		Custom("image", true, "must be a JPEG or PNG").
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 4)
}

/*
TestValidator_Merge folds a previous validation error into the collector.
*/
func TestValidator_Merge(t *testing.T) {
	v := &validate.Validator{}
	v.Merge(validate.FieldErr("category", "is not a valid category"))
	v.Merge(apperr.NotFound("Artist"))

	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 1)
}

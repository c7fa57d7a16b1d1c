// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claycompanion/studio/internal/platform/apperr"
	"github.com/claycompanion/studio/internal/platform/ctxutil"
	requestutil "github.com/claycompanion/studio/internal/platform/request"
	"github.com/claycompanion/studio/internal/platform/sec"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    map[string]any
		isValid bool
	}{
		{"object", `{"caption":"Glaze"}`, map[string]any{"caption": "Glaze"}, true},
		{"empty", ``, nil, true},
		{"truncated", `{"caption":`, nil, false},
		{"garbage", `caption=Glaze`, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target map[string]any
			err := requestutil.DecodeJSON(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(tt.body)), &target)
			if !tt.isValid {
				assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, target)
		})
	}
}

func TestParams(t *testing.T) {
	var gotID, gotCategory string
	router := chi.NewRouter()
	router.Get("/artists/{artistID}", func(writer http.ResponseWriter, request *http.Request) {
		gotID = requestutil.ID(request, "artistID")
		gotCategory = requestutil.Query(request, "category")
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/artists/abc?category=%20process%20", nil))
	assert.Equal(t, "abc", gotID)
	assert.Equal(t, "process", gotCategory)
}

func TestRequiredUserID(t *testing.T) {
	request := httptest.NewRequest(http.MethodPost, "/", nil)

	_, err := requestutil.RequiredUserID(request)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	ctx := ctxutil.WithAuthUser(context.Background(), &sec.AuthClaims{UserID: "artist-1"})
	id, err := requestutil.RequiredUserID(request.WithContext(ctx))
	require.NoError(t, err)
	assert.Equal(t, "artist-1", id)
}

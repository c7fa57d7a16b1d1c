// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claycompanion/studio/internal/platform/storage"
)

func newLocal(t *testing.T) (*storage.LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir, "/uploads/", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return local, dir
}

/*
TestLocalStorage_Lifecycle puts, resolves, serves and deletes an object.
*/
func TestLocalStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	local, dir := newLocal(t)
	key := "artists/a1/studio/0001-wheel.jpg"
	payload := []byte("jpeg-bytes")

	require.NoError(t, local.Put(ctx, key, bytes.NewReader(payload), int64(len(payload)), "image/jpeg"))

	onDisk, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, payload, onDisk)

	url, err := local.URL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+key, url)

	server := http.StripPrefix("/uploads", local.Handler())
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/"+key, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, payload, rec.Body.Bytes())

	require.NoError(t, local.Delete(ctx, key))
	_, err = local.URL(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Deleting twice is fine.
	assert.NoError(t, local.Delete(ctx, key))
}

/*
TestLocalStorage_ShortWrite leaves nothing behind when the body is truncated.
*/
func TestLocalStorage_ShortWrite(t *testing.T) {
	ctx := context.Background()
	local, dir := newLocal(t)
	key := "artists/a1/studio/short.png"

	err := local.Put(ctx, key, strings.NewReader("abc"), 10, "image/png")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(statErr))
}

/*
TestLocalStorage_RejectsEscapingKeys keeps objects inside the base directory.
*/
func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	local, _ := newLocal(t)

	for _, key := range []string{"", "../secret", "/etc/passwd", "a/../../b", "a\\b", "a//b"} {
		t.Run(key, func(t *testing.T) {
			err := local.Put(ctx, key, strings.NewReader("x"), 1, "image/png")
			assert.ErrorIs(t, err, storage.ErrInvalidKey)
		})
	}
}

/*
TestLocalStorage_NoDirectoryListing hides directories from the file server.
*/
func TestLocalStorage_NoDirectoryListing(t *testing.T) {
	ctx := context.Background()
	local, _ := newLocal(t)
	require.NoError(t, local.Put(ctx, "artists/a1/studio/x.png", strings.NewReader("x"), 1, "image/png"))

	rec := httptest.NewRecorder()
	http.StripPrefix("/uploads", local.Handler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/artists/a1/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

/*
TestLocalStorage_Health verifies the directory is writable.
*/
func TestLocalStorage_Health(t *testing.T) {
	local, _ := newLocal(t)
	assert.NoError(t, local.Health(context.Background()))
}

/*
TestLocalStorage_RoutePrefix keeps only the path of the public base URL.
*/
func TestLocalStorage_RoutePrefix(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for baseURL, want := range map[string]string{
		"/uploads/":                        "/uploads",
		"uploads":                          "/uploads",
		"https://studio.example/uploads":   "/uploads",
		"https://studio.example/media/raw": "/media/raw",
	} {
		local, err := storage.NewLocalStorage(t.TempDir(), baseURL, logger)
		require.NoError(t, err)
		assert.Equal(t, want, local.RoutePrefix(), baseURL)
	}
}

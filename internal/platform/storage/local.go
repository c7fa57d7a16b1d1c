// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage stores attachments under a directory on disk.
type LocalStorage struct {
	basePath string
	baseURL  string
	logger   *slog.Logger
}

// NewLocalStorage creates the base directory if needed.
//
// baseURL is the public prefix the files are served under, e.g. "/uploads".
func NewLocalStorage(basePath, baseURL string, logger *slog.Logger) (*LocalStorage, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: local storage path is required")
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create local storage directory: %w", err)
	}

	storage := &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		logger:   logger,
	}

	logger.Info("local storage initialized",
		slog.String("path", basePath),
		slog.String("base_url", storage.baseURL),
	)

	return storage, nil
}

// Put writes the object through a temporary file so readers never see partial data.
func (l *LocalStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	fullPath, err := l.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("storage: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("storage: write file: %w", err)
	}
	if size >= 0 && written != size {
		return fmt.Errorf("storage: short write for %s: %d of %d bytes", key, written, size)
	}

	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("storage: move file into place: %w", err)
	}

	l.logger.Debug("local_storage_put",
		slog.String("key", key),
		slog.Int64("bytes", written),
		slog.String("content_type", contentType),
	)

	return nil
}

// Delete removes the object file. Missing files are ignored.
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := l.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// URL joins the base URL and the key. It fails with [ErrNotFound] for missing files.
func (l *LocalStorage) URL(ctx context.Context, key string) (string, error) {
	fullPath, err := l.resolve(key)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(fullPath); errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}

	return l.baseURL + "/" + key, nil
}

// Health checks that the storage directory is writable.
func (l *LocalStorage) Health(ctx context.Context) error {
	testFile := filepath.Join(l.basePath, ".health_check")
	if err := os.WriteFile(testFile, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("storage: directory not writable: %w", err)
	}
	_ = os.Remove(testFile)
	return nil
}

// Handler serves stored files. Mount it under the base URL with the prefix stripped.
func (l *LocalStorage) Handler() http.Handler {
	return http.FileServer(noListingFS{http.Dir(l.basePath)})
}

// RoutePrefix is the path part of the base URL, where [LocalStorage.Handler]
// must be mounted. "https://studio.example/uploads" and "/uploads" both give "/uploads".
func (l *LocalStorage) RoutePrefix() string {
	prefix := l.baseURL
	if parsed, err := url.Parse(l.baseURL); err == nil && parsed.Host != "" {
		prefix = parsed.Path
	}
	return "/" + strings.Trim(prefix, "/")
}

// resolve maps a slash-separated key to a path inside basePath.
func (l *LocalStorage) resolve(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	if cleaned := path.Clean(key); cleaned != key || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return filepath.Join(l.basePath, filepath.FromSlash(key)), nil
}

// noListingFS hides directory listings from the file server.
type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	file, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}

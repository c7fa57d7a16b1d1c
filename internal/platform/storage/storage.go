// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage holds studio image attachments.

Two backends implement [Storage]:

  - S3Storage: any S3-compatible bucket (AWS, R2, MinIO). Objects are served
    from a public base URL or through presigned GET links.
  - LocalStorage: a directory on disk, served by the API under /uploads.

The backend is chosen once at startup from STORAGE_DRIVER.
*/
package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/claycompanion/studio/internal/platform/metrics"
)

var (
	// ErrNotFound is returned when an object key does not exist.
	ErrNotFound = errors.New("storage: object not found")

	// ErrInvalidKey is returned for keys that could escape the storage root.
	ErrInvalidKey = errors.New("storage: invalid object key")
)

// Storage is the attachment backend used by the studio service.
type Storage interface {
	// Put stores size bytes from body under key.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns a client-reachable URL for key.
	URL(ctx context.Context, key string) (string, error)

	// Health verifies that the backend is reachable and writable.
	Health(ctx context.Context) error
}

// Instrumented wraps a backend and records Prometheus metrics per call.
type Instrumented struct {
	next   Storage
	driver string
}

// Instrument returns backend wrapped with metrics labelled by driver.
func Instrument(backend Storage, driver string) *Instrumented {
	return &Instrumented{next: backend, driver: driver}
}

func (i *Instrumented) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	start := time.Now()
	err := i.next.Put(ctx, key, body, size, contentType)
	metrics.RecordStorageOperation(i.driver, "put", err, time.Since(start).Seconds())
	return err
}

func (i *Instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := i.next.Delete(ctx, key)
	metrics.RecordStorageOperation(i.driver, "delete", err, time.Since(start).Seconds())
	return err
}

func (i *Instrumented) URL(ctx context.Context, key string) (string, error) {
	start := time.Now()
	url, err := i.next.URL(ctx, key)
	metrics.RecordStorageOperation(i.driver, "url", err, time.Since(start).Seconds())
	return url, err
}

func (i *Instrumented) Health(ctx context.Context) error {
	return i.next.Health(ctx)
}

// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants holds the tunables and wire names shared across packages:
server timeouts, rate limits, token settings, upload ceilings, header names
and envelope keys.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "studio-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout covers reading a full request, including a MaxUploadBytes upload.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout bounds writing the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout closes keep-alive connections left unused this long.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout limits slow header senders.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the context deadline of every request. It also
	// becomes the PostgreSQL statement_timeout.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is the drain window after SIGTERM.
	ShutdownTimeout = 30 * time.Second

	// StartupTimeout bounds connecting to every dependency at boot.
	StartupTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the steady rate per client IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is sized for drag-reorder, which sends one PATCH per moved image.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is the sweep period for idle client entries.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is the idle time after which a client entry is swept.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// DefaultAuthIssuer is the expected 'iss' claim in access tokens.
	DefaultAuthIssuer = "claycompanion.app"

	// RedisPrefixRevokedToken namespaces revoked access-token ids (jti) written by the identity service.
	RedisPrefixRevokedToken = "auth:revoked:"
)

// # Uploads

const (
	// MaxUploadBytes is the largest accepted studio photo (5 MiB).
	MaxUploadBytes int64 = 5 << 20

	// MultipartMemoryBytes is how much of a multipart body is buffered in memory
	// before spilling to temporary files.
	MultipartMemoryBytes int64 = 8 << 20

	// MaxRequestBodyBytes caps any request body, leaving headroom for form fields.
	MaxRequestBodyBytes int64 = MaxUploadBytes + 1<<20

	// DefaultPresignTTL is how long a presigned GET URL for a private bucket stays valid.
	DefaultPresignTTL = 1 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderRetryAfter    = "Retry-After"
)

// # Envelope keys

const (
	FieldStatus = "status"
	FieldChecks = "checks"
)

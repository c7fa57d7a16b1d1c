// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config reads the service settings from the environment with caarlos0/env.

Load is called once by cmd/api. The resulting *Config is passed down by
constructors and never mutated after Load returns.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/claycompanion/studio/internal/platform/constants"
	"github.com/claycompanion/studio/pkg/slice"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

// Config is the full runtime configuration.
type Config struct {
	// HTTP listener and runtime mode
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Read X-Real-IP / X-Forwarded-For for rate limiting. Enable only behind a proxy that sets them.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// PostgreSQL DSN and the directory of *.up.sql / *.down.sql files
	DatabaseURL   string `env:"DATABASE_URL,required,notEmpty"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Redis, read for revoked access tokens
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Access-token verification
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH,required,notEmpty"`
	JWTIssuer     string `env:"JWT_ISSUER"`

	// Attachment storage backend: "local" or "s3"
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"local"`

	// Local filesystem storage
	LocalStoragePath    string `env:"LOCAL_STORAGE_PATH"     envDefault:"./data/uploads"`
	LocalStorageBaseURL string `env:"LOCAL_STORAGE_BASE_URL" envDefault:"/uploads"`

	// S3-compatible object storage
	S3Bucket          string        `env:"S3_BUCKET"`
	S3Region          string        `env:"S3_REGION"            envDefault:"auto"`
	S3Endpoint        string        `env:"S3_ENDPOINT"`
	S3AccessKeyID     string        `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string        `env:"S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle    bool          `env:"S3_USE_PATH_STYLE"    envDefault:"false"`
	S3PublicBaseURL   string        `env:"S3_PUBLIC_BASE_URL"`
	S3PresignTTL      time.Duration `env:"S3_PRESIGN_TTL"       envDefault:"1h"`

	// Browser origins allowed outside development, comma separated
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Load parses the environment and checks driver-specific requirements.
// A missing required variable is reported by env with its name.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements that struct tags cannot express.
func (c *Config) Validate() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))

	switch c.StorageDriver {
	case StorageDriverLocal:
		if c.LocalStoragePath == "" {
			return errors.New("config: LOCAL_STORAGE_PATH is required for the local storage driver")
		}
	case StorageDriverS3:
		if c.S3Bucket == "" {
			return errors.New("config: S3_BUCKET is required for the s3 storage driver")
		}
		if (c.S3AccessKeyID == "") != (c.S3SecretAccessKey == "") {
			return errors.New("config: S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.S3PresignTTL <= 0 {
		c.S3PresignTTL = constants.DefaultPresignTTL
	}
	if strings.TrimSpace(c.JWTIssuer) == "" {
		c.JWTIssuer = constants.DefaultAuthIssuer
	}

	c.AllowedOrigins = slice.Filter(slice.Map(c.AllowedOrigins, strings.TrimSpace), func(origin string) bool {
		return origin != ""
	})

	return nil
}

// IsDevelopment is true for ENVIRONMENT=development, the default.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// OriginAllowed reports whether a browser origin may call the API.
// Development accepts any origin.
func (c *Config) OriginAllowed(origin string) bool {
	if c.IsDevelopment() {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

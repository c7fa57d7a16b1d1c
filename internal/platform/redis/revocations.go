// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	stdctx "context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/claycompanion/studio/internal/platform/constants"
)

// Revocations reads the revocation list written by the identity service.
type Revocations struct {
	client redis.UniversalClient
}

// NewRevocations wraps a client for revocation lookups.
func NewRevocations(client redis.UniversalClient) *Revocations {
	return &Revocations{client: client}
}

// IsRevoked reports whether tokenID is on the revocation list.
func (r *Revocations) IsRevoked(context stdctx.Context, tokenID string) (bool, error) {
	count, err := r.client.Exists(context, RevokedTokenKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis: revocation lookup failed: %w", err)
	}
	return count > 0, nil
}

// Ping checks the underlying client for readiness probes.
func (r *Revocations) Ping(context stdctx.Context) error {
	return Ping(context, r.client)
}

// RevokedTokenKey builds the Redis key for a revoked token id.
func RevokedTokenKey(tokenID string) string {
	return constants.RedisPrefixRevokedToken + tokenID
}

// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/claycompanion/studio/internal/platform/apperr"
	"github.com/claycompanion/studio/internal/platform/constants"
	"github.com/claycompanion/studio/internal/platform/respond"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors is a token bucket per client IP.
type visitors struct {
	mu      sync.Mutex
	byIP    map[string]*visitor
	perSec  rate.Limit
	burst   int
	idleTTL time.Duration
}

func (v *visitors) allow(ip string, now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	entry, ok := v.byIP[ip]
	if !ok {
		entry = &visitor{limiter: rate.NewLimiter(v.perSec, v.burst)}
		v.byIP[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (v *visitors) evictIdle(now time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for ip, entry := range v.byIP {
		if now.Sub(entry.lastSeen) > v.idleTTL {
			delete(v.byIP, ip)
		}
	}
}

func (v *visitors) sweep(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			v.evictIdle(now)
		case <-ctx.Done():
			return
		}
	}
}

// RateLimit answers 429 once a client IP has spent its burst. Idle entries are
// swept until ctx is cancelled.
func RateLimit(ctx context.Context, requestsPerSecond float64, burst int, trustProxy bool) func(http.Handler) http.Handler {
	pool := &visitors{
		byIP:    make(map[string]*visitor),
		perSec:  rate.Limit(requestsPerSecond),
		burst:   burst,
		idleTTL: constants.RateLimitClientTTL,
	}
	go pool.sweep(ctx, constants.RateLimitCleanupInterval)

	retryAfter := int(1/requestsPerSecond) + 1

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !pool.allow(RealIP(request, trustProxy), time.Now()) {
				writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
				respond.Error(writer, request, apperr.RateLimited(retryAfter))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

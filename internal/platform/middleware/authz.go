// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/claycompanion/studio/internal/platform/apperr"
	"github.com/claycompanion/studio/internal/platform/ctxutil"
	"github.com/claycompanion/studio/internal/platform/respond"
	"github.com/claycompanion/studio/internal/platform/sec"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// RevocationChecker reports whether a token id (jti) was revoked before expiry,
// e.g. after logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Authenticate resolves the caller from "Authorization: Bearer <jwt>".
//
// No header means an anonymous request; public reads continue and owner-only
// handlers answer 401 later. A malformed, invalid or revoked token is a 401
// here. If the revocation store cannot answer, the request fails with 503
// rather than trusting a possibly revoked token. revocations may be nil.
func Authenticate(verifier TokenVerifier, revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := bearerClaims(verifier, header)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			if revocations != nil && claims.ID != "" {
				revoked, err := revocations.IsRevoked(request.Context(), claims.ID)
				switch {
				case err != nil:
					ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "token_revocation_check_failed",
						slog.String("error", err.Error()),
					)
					respond.Error(writer, request, apperr.ServiceUnavailable("Authentication is temporarily unavailable"))
					return
				case revoked:
					respond.Error(writer, request, apperr.Unauthorized("Unauthorized"))
					return
				}
			}

			next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
		})
	}
}

func bearerClaims(verifier TokenVerifier, header string) (*sec.AuthClaims, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return nil, apperr.Unauthorized("Unauthorized")
	}

	claims, err := verifier.VerifyToken(token)
	if err != nil {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	return claims, nil
}

// RequireAuth answers 401 for anonymous requests. Register it after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Unauthorized"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

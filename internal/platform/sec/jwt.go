// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec verifies the RS256 access tokens presented to the studio API.
//
// The identity service signs tokens and keeps the private key. Production
// builds load only the public key via [NewVerifier]; signing is available to
// tests and local tooling through [NewTokenServiceFromKeys].
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/claycompanion/studio/pkg/uuid"
)

var (
	// ErrSigningDisabled means the TokenService holds no private key.
	ErrSigningDisabled = errors.New("sec: token service has no private key")

	// ErrMissingSubject means a well-signed token carries no artist id.
	ErrMissingSubject = errors.New("sec: token has no uid claim")
)

// AuthClaims is the access-token payload. UserID is the artist account id
// used for every ownership check.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   string `json:"uid"`
	Username string `json:"unm"`
}

// TokenService signs and verifies access tokens for one issuer.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	parser     *jwt.Parser
	issuer     string
}

// NewVerifier loads a PEM public key and returns a verify-only service.
func NewVerifier(publicKeyPath, issuer string) (*TokenService, error) {
	pem, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: read public key %s: %w", publicKeyPath, err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("sec: parse public key: %w", err)
	}
	return NewTokenServiceFromKeys(nil, publicKey, issuer), nil
}

// NewTokenServiceFromKeys uses parsed keys. With a nil publicKey the private
// key's public half verifies; with a nil privateKey signing is disabled.
func NewTokenServiceFromKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) *TokenService {
	if publicKey == nil && privateKey != nil {
		publicKey = &privateKey.PublicKey
	}
	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

// GenerateAccessToken signs a token for userID that expires after timeToLive.
// Each token gets a fresh jti so it can be revoked on its own.
func (service *TokenService) GenerateAccessToken(userID, username string, timeToLive time.Duration) (string, error) {
	if service.privateKey == nil {
		return "", ErrSigningDisabled
	}

	now := time.Now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Issuer:    service.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(timeToLive)),
		},
		UserID:   userID,
		Username: username,
	}).SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks algorithm, signature, issuer and expiry, and requires a uid claim.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	if _, err := service.parser.ParseWithClaims(tokenString, claims, service.verificationKey); err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}
	if claims.UserID == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

func (service *TokenService) verificationKey(*jwt.Token) (any, error) {
	if service.publicKey == nil {
		return nil, errors.New("sec: no public key configured")
	}
	return service.publicKey, nil
}

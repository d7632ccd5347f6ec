// Copyright (c) 2026 Film8X. All rights reserved.

// Package sec provides cryptographic primitives, token management, and the
// role/permission model.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing,
// Access Policy) from the domain logic. It acts as an Infrastructure service
// injected into the Application layer via small interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Token Lifetimes

const (
	// AccessTokenTTL is the lifetime of the short-lived access token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the lifetime of the long-lived refresh token.
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// # Verification Errors

var (
	// ErrTokenExpired reports a well-formed, correctly-signed token whose
	// lifetime has lapsed. Clients recover via the refresh flow.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenMalformed reports a structurally invalid, wrongly-signed, or
	// otherwise unusable token. Clients must re-authenticate, not refresh.
	ErrTokenMalformed = errors.New("sec: token malformed")
)

// AuthClaims represents the payload embedded inside a JWT.
//
// # Deliberately Minimal
//
// The payload carries the user id only. Username and role are intentionally
// ABSENT: the role is re-resolved from the credential store on every request,
// so a stale token can never carry stale privileges.
type AuthClaims struct {
	jwt.RegisteredClaims
}

// UserID returns the subject of the token (the account id).
func (c *AuthClaims) UserID() string {
	return c.Subject
}

// TokenService handles generation and verification of JWT tokens using HS256
// with a server-held secret.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: token secret must not be empty")
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// IssueAccess creates a short-lived access token for the given user id.
func (service *TokenService) IssueAccess(userID string) (string, error) {
	return service.sign(userID, AccessTokenTTL)
}

// IssuePair creates an access/refresh token pair for the given user id.
//
// The pair is fully stateless: no session row is written and the refresh
// token is never rotated. Refreshing mints a new access token only.
func (service *TokenService) IssuePair(userID string) (accessToken, refreshToken string, err error) {
	accessToken, err = service.sign(userID, AccessTokenTTL)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = service.sign(userID, RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// sign builds and signs a token with the standard claim set.
func (service *TokenService) sign(userID string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a JWT string.
//
// # Error Contract
//
// Expired-but-otherwise-valid tokens return [ErrTokenExpired]; every other
// failure (bad signature, wrong algorithm, garbage input, wrong issuer)
// returns [ErrTokenMalformed]. Callers map these to distinct API error codes
// so clients know whether refreshing can help.
func (service *TokenService) Verify(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	}, jwt.WithIssuer(service.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

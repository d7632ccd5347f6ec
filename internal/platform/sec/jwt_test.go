// Copyright (c) 2026 Film8X. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/film8x/film8x/internal/platform/sec"
)

const testIssuer = "film8x.app"

func newTestService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("test-secret-at-least-this-long", testIssuer)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip issues an access token and verifies it carries the
user id as subject and nothing else of interest.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestService(t)

	token, err := service.IssueAccess("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, testIssuer, claims.Issuer)
}

/*
TestTokenService_IssuePair checks that login mints two distinct tokens and
both verify against the same key.
*/
func TestTokenService_IssuePair(t *testing.T) {
	service := newTestService(t)

	access, refresh, err := service.IssuePair("user-456")
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	for _, token := range []string{access, refresh} {
		claims, err := service.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-456", claims.UserID())
	}
}

/*
TestTokenService_Verify_Malformed covers the failure modes that must map to
ErrTokenMalformed: garbage input, wrong secret, wrong issuer. Clients must
re-authenticate in all of these cases, never refresh.
*/
func TestTokenService_Verify_Malformed(t *testing.T) {
	service := newTestService(t)

	t.Run("garbage_input", func(t *testing.T) {
		_, err := service.Verify("not.a.jwt")
		assert.ErrorIs(t, err, sec.ErrTokenMalformed)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		other, err := sec.NewTokenService("a-completely-different-secret", testIssuer)
		require.NoError(t, err)

		token, err := other.IssueAccess("user-123")
		require.NoError(t, err)

		_, err = service.Verify(token)
		assert.ErrorIs(t, err, sec.ErrTokenMalformed)
	})

	t.Run("wrong_issuer", func(t *testing.T) {
		other, err := sec.NewTokenService("test-secret-at-least-this-long", "someone-else")
		require.NoError(t, err)

		token, err := other.IssueAccess("user-123")
		require.NoError(t, err)

		_, err = service.Verify(token)
		assert.ErrorIs(t, err, sec.ErrTokenMalformed)
	})

	t.Run("empty_string", func(t *testing.T) {
		_, err := service.Verify("")
		assert.ErrorIs(t, err, sec.ErrTokenMalformed)
	})
}

/*
TestNewTokenService_EmptySecret verifies the constructor refuses to run
without signing material.
*/
func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", testIssuer)
	assert.Error(t, err)
}

// Copyright (c) 2026 Film8X. All rights reserved.

package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/film8x/film8x/internal/platform/constants"
	"github.com/film8x/film8x/internal/platform/ctxutil"
	"github.com/film8x/film8x/internal/platform/sec"
	"github.com/film8x/film8x/internal/users/auth"
)

// asIdentity plants a fixed caller ahead of the route guards, standing in
// for the authentication middleware.
func asIdentity(identity *sec.Identity, next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := ctxutil.WithIdentity(request.Context(), identity)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func newTestAuthServer(t *testing.T) (*httptest.Server, *auth.Service) {
	t.Helper()
	service, _, _ := newTestAuthService(t)
	handler := auth.NewHandler(service, false)

	server := httptest.NewServer(handler.Routes())
	t.Cleanup(server.Close)
	return server, service
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

/*
TestHandler_Login_SetsCookiePair verifies the session cookie contract:
access token on the whole API, refresh token path-scoped to the auth
endpoints, both HttpOnly.
*/
func TestHandler_Login_SetsCookiePair(t *testing.T) {
	server, service := newTestAuthServer(t)
	registerTestUser(t, service, "alice", "alice@example.com")

	response, err := http.Post(server.URL+"/login", "application/json",
		strings.NewReader(`{"email":"alice@example.com","password":"Str0ng!pass"}`))
	require.NoError(t, err)
	defer response.Body.Close()

	require.Equal(t, http.StatusOK, response.StatusCode)

	access := findCookie(response.Cookies(), constants.AccessTokenCookieName)
	require.NotNil(t, access)
	assert.Equal(t, "/", access.Path)
	assert.True(t, access.HttpOnly)
	assert.NotEmpty(t, access.Value)

	refresh := findCookie(response.Cookies(), constants.RefreshTokenCookieName)
	require.NotNil(t, refresh)
	assert.Equal(t, constants.RefreshTokenCookiePath, refresh.Path)
	assert.True(t, refresh.HttpOnly)
	assert.NotEmpty(t, refresh.Value)
}

/*
TestHandler_Refresh_CookieOnly verifies that refresh reads the refreshToken
cookie and NOTHING else: a token in the body or a bearer header is ignored.
*/
func TestHandler_Refresh_CookieOnly(t *testing.T) {
	server, service := newTestAuthServer(t)
	registerTestUser(t, service, "alice", "alice@example.com")

	session, err := service.Login(context.Background(), "alice@example.com", "Str0ng!pass")
	require.NoError(t, err)

	t.Run("missing_cookie_unauthorized", func(t *testing.T) {
		request, err := http.NewRequest("POST", server.URL+"/refresh",
			strings.NewReader(`{"refresh_token":"`+session.RefreshToken+`"}`))
		require.NoError(t, err)

		response, err := http.DefaultClient.Do(request)
		require.NoError(t, err)
		defer response.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	})

	t.Run("cookie_mints_access_token", func(t *testing.T) {
		request, err := http.NewRequest("POST", server.URL+"/refresh", nil)
		require.NoError(t, err)
		request.AddCookie(&http.Cookie{
			Name:  constants.RefreshTokenCookieName,
			Value: session.RefreshToken,
		})

		response, err := http.DefaultClient.Do(request)
		require.NoError(t, err)
		defer response.Body.Close()

		require.Equal(t, http.StatusOK, response.StatusCode)

		access := findCookie(response.Cookies(), constants.AccessTokenCookieName)
		require.NotNil(t, access)
		assert.NotEmpty(t, access.Value)

		// The refresh token is never rotated: no new refresh cookie.
		assert.Nil(t, findCookie(response.Cookies(), constants.RefreshTokenCookieName))
	})
}

/*
TestHandler_Logout_ClearsCookies verifies logout expires both cookies and
succeeds even without a session.
*/
func TestHandler_Logout_ClearsCookies(t *testing.T) {
	server, _ := newTestAuthServer(t)

	response, err := http.Post(server.URL+"/logout", "application/json", nil)
	require.NoError(t, err)
	defer response.Body.Close()

	require.Equal(t, http.StatusOK, response.StatusCode)

	access := findCookie(response.Cookies(), constants.AccessTokenCookieName)
	require.NotNil(t, access)
	assert.Empty(t, access.Value)
	assert.Negative(t, access.MaxAge)

	refresh := findCookie(response.Cookies(), constants.RefreshTokenCookieName)
	require.NotNil(t, refresh)
	assert.Empty(t, refresh.Value)
	assert.Negative(t, refresh.MaxAge)
}

/*
TestHandler_DeleteUser_ReturnsMessage verifies that a successful admin
delete answers 200 with a message envelope rather than an empty body.
*/
func TestHandler_DeleteUser_ReturnsMessage(t *testing.T) {
	service, _, _ := newTestAuthService(t)
	target := registerTestUser(t, service, "mallory", "mallory@example.com")

	admin := &sec.Identity{UserID: "admin-1", Username: "root", Role: sec.RoleAdmin}
	handler := auth.NewHandler(service, false)
	server := httptest.NewServer(asIdentity(admin, handler.Routes()))
	t.Cleanup(server.Close)

	request, err := http.NewRequest(http.MethodDelete, server.URL+"/admin/users/"+target.ID, nil)
	require.NoError(t, err)

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	require.Equal(t, http.StatusOK, response.StatusCode)

	var payload struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&payload))
	assert.Equal(t, "User deleted", payload.Data[constants.FieldMessage])
}

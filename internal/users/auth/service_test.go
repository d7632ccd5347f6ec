// Copyright (c) 2026 Film8X. All rights reserved.

package auth_test

import (
	"context"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/film8x/film8x/internal/platform/apperr"
	"github.com/film8x/film8x/internal/platform/sec"
	"github.com/film8x/film8x/internal/users/auth"
	"github.com/film8x/film8x/pkg/pagination"
)

// # Test Doubles

// memoryUserRepository is an in-memory UserRepository for service tests.
type memoryUserRepository struct {
	users map[string]*auth.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: map[string]*auth.User{}}
}

func (repo *memoryUserRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (repo *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

// Create mimics the production store: duplicates surface as raw Postgres
// unique-violation errors so the service's constraint classification runs.
func (repo *memoryUserRepository) Create(ctx context.Context, user *auth.User) error {
	for _, existing := range repo.users {
		if existing.Email == user.Email {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "ux_account_email"}
		}
		if existing.Username == user.Username {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "ux_account_username"}
		}
	}
	copied := *user
	repo.users[user.ID] = &copied
	return nil
}

func (repo *memoryUserRepository) List(ctx context.Context, role sec.Role, page pagination.Params) ([]*auth.User, int, error) {
	var matched []*auth.User
	for _, user := range repo.users {
		if role == "" || user.Role == role {
			copied := *user
			matched = append(matched, &copied)
		}
	}
	return matched, len(matched), nil
}

func (repo *memoryUserRepository) CountByRole(ctx context.Context) (*auth.RoleCounts, error) {
	counts := &auth.RoleCounts{}
	for _, user := range repo.users {
		switch user.Role {
		case sec.RoleAdmin:
			counts.Admins++
		case sec.RoleModerator:
			counts.Moderators++
		default:
			counts.Users++
		}
		counts.Total++
	}
	return counts, nil
}

func (repo *memoryUserRepository) UpdateRole(ctx context.Context, userID string, role sec.Role) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.Role = role
	return nil
}

func (repo *memoryUserRepository) Delete(ctx context.Context, id string) error {
	if _, ok := repo.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repo.users, id)
	return nil
}

// memoryPurger records cascade calls from account deletion.
type memoryPurger struct {
	purgedUploader string
	purgeCount     int
}

func (purger *memoryPurger) DeleteByUploader(ctx context.Context, userID string) (int, error) {
	purger.purgedUploader = userID
	return purger.purgeCount, nil
}

func newTestAuthService(t *testing.T) (*auth.Service, *memoryUserRepository, *memoryPurger) {
	t.Helper()
	tokens, err := sec.NewTokenService("test-secret-at-least-this-long", "film8x.app")
	require.NoError(t, err)

	repo := newMemoryUserRepository()
	purger := &memoryPurger{}
	return auth.NewService(repo, tokens, purger), repo, purger
}

func registerTestUser(t *testing.T, service *auth.Service, username, email string) *auth.User {
	t.Helper()
	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    email,
		Password: "Str0ng!pass",
	})
	require.NoError(t, err)
	return user
}

// # Registration

/*
TestService_Register_Defaults checks that new accounts start as plain users
with a hashed password and a lowercased email.
*/
func TestService_Register_Defaults(t *testing.T) {
	service, repo, _ := newTestAuthService(t)

	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.COM",
		Password: "Str0ng!pass",
	})
	require.NoError(t, err)

	assert.Equal(t, sec.RoleUser, user.Role)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "Str0ng!pass", user.PasswordHash)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, sec.CheckPasswordHash("Str0ng!pass", stored.PasswordHash))
}

/*
TestService_Register_WeakPassword checks the strength policy is enforced at
registration with one detail per unmet rule.
*/
func TestService_Register_WeakPassword(t *testing.T) {
	service, _, _ := newTestAuthService(t)

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "weak",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
}

/*
TestService_Register_DuplicateEmail verifies the conflict path.
*/
func TestService_Register_DuplicateEmail(t *testing.T) {
	service, _, _ := newTestAuthService(t)
	registerTestUser(t, service, "alice", "alice@example.com")

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "Str0ng!pass",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "CONFLICT"))
}

// # Login & Session Refresh

/*
TestService_Login_IndistinguishableFailures verifies that unknown email and
wrong password produce the IDENTICAL error, resisting account enumeration.
*/
func TestService_Login_IndistinguishableFailures(t *testing.T) {
	service, _, _ := newTestAuthService(t)
	registerTestUser(t, service, "alice", "alice@example.com")

	_, unknownEmailErr := service.Login(context.Background(), "ghost@example.com", "Str0ng!pass")
	_, wrongPasswordErr := service.Login(context.Background(), "alice@example.com", "wrong-password")

	require.Error(t, unknownEmailErr)
	require.Error(t, wrongPasswordErr)
	assert.Equal(t, unknownEmailErr.Error(), wrongPasswordErr.Error())
	assert.True(t, apperr.IsCode(unknownEmailErr, "INVALID_CREDENTIALS"))
	assert.True(t, apperr.IsCode(wrongPasswordErr, "INVALID_CREDENTIALS"))
}

/*
TestService_Refresh mints a new access token from the refresh token, without
rotating the refresh token and without issuing one.
*/
func TestService_Refresh(t *testing.T) {
	service, _, _ := newTestAuthService(t)
	registerTestUser(t, service, "alice", "alice@example.com")

	session, err := service.Login(context.Background(), "alice@example.com", "Str0ng!pass")
	require.NoError(t, err)

	accessToken, err := service.Refresh(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
}

/*
TestService_Refresh_DeletedAccount verifies that a valid refresh token stops
working once the account is gone.
*/
func TestService_Refresh_DeletedAccount(t *testing.T) {
	service, repo, _ := newTestAuthService(t)
	user := registerTestUser(t, service, "alice", "alice@example.com")

	session, err := service.Login(context.Background(), "alice@example.com", "Str0ng!pass")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), user.ID))

	_, err = service.Refresh(context.Background(), session.RefreshToken)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "UNAUTHORIZED"))
}

/*
TestService_Refresh_GarbageToken verifies the malformed-token code, which
tells clients that refreshing again will not help.
*/
func TestService_Refresh_GarbageToken(t *testing.T) {
	service, _, _ := newTestAuthService(t)

	_, err := service.Refresh(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "TOKEN_MALFORMED"))
}

// # Identity Resolution

/*
TestService_ResolveIdentity checks the middleware contract: fresh role on
every call, and (nil, nil) for deleted accounts.
*/
func TestService_ResolveIdentity(t *testing.T) {
	service, repo, _ := newTestAuthService(t)
	user := registerTestUser(t, service, "alice", "alice@example.com")

	identity, err := service.ResolveIdentity(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, sec.RoleUser, identity.Role)

	// Promote and resolve again: the fresh role must be visible immediately.
	require.NoError(t, repo.UpdateRole(context.Background(), user.ID, sec.RoleModerator))
	identity, err = service.ResolveIdentity(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, identity.Role)

	// Deleted account: nil identity, nil error.
	require.NoError(t, repo.Delete(context.Background(), user.ID))
	identity, err = service.ResolveIdentity(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, identity)
}

// # Admin User Management

/*
TestService_UpdateUserRole_SelfChange verifies an admin cannot change their
own role.
*/
func TestService_UpdateUserRole_SelfChange(t *testing.T) {
	service, repo, _ := newTestAuthService(t)
	admin := registerTestUser(t, service, "root", "root@example.com")
	require.NoError(t, repo.UpdateRole(context.Background(), admin.ID, sec.RoleAdmin))

	actor := &sec.Identity{UserID: admin.ID, Role: sec.RoleAdmin}
	_, err := service.UpdateUserRole(context.Background(), actor, admin.ID, sec.RoleUser)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
}

/*
TestService_UpdateUserRole_Promotion covers the happy path.
*/
func TestService_UpdateUserRole_Promotion(t *testing.T) {
	service, repo, _ := newTestAuthService(t)
	admin := registerTestUser(t, service, "root", "root@example.com")
	require.NoError(t, repo.UpdateRole(context.Background(), admin.ID, sec.RoleAdmin))
	target := registerTestUser(t, service, "alice", "alice@example.com")

	actor := &sec.Identity{UserID: admin.ID, Role: sec.RoleAdmin}
	updated, err := service.UpdateUserRole(context.Background(), actor, target.ID, sec.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, updated.Role)
}

/*
TestService_DeleteUser covers the deletion guard rails and the upload cascade.
*/
func TestService_DeleteUser(t *testing.T) {
	service, repo, purger := newTestAuthService(t)
	admin := registerTestUser(t, service, "root", "root@example.com")
	require.NoError(t, repo.UpdateRole(context.Background(), admin.ID, sec.RoleAdmin))
	actor := &sec.Identity{UserID: admin.ID, Role: sec.RoleAdmin}

	t.Run("cannot_delete_self", func(t *testing.T) {
		err := service.DeleteUser(context.Background(), actor, admin.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "FORBIDDEN"))
	})

	t.Run("cannot_delete_admin", func(t *testing.T) {
		other := registerTestUser(t, service, "root2", "root2@example.com")
		require.NoError(t, repo.UpdateRole(context.Background(), other.ID, sec.RoleAdmin))

		err := service.DeleteUser(context.Background(), actor, other.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "FORBIDDEN"))
	})

	t.Run("cascade_purges_uploads", func(t *testing.T) {
		target := registerTestUser(t, service, "uploader", "uploader@example.com")
		purger.purgeCount = 3

		require.NoError(t, service.DeleteUser(context.Background(), actor, target.ID))
		assert.Equal(t, target.ID, purger.purgedUploader)

		_, err := repo.FindByID(context.Background(), target.ID)
		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})
}

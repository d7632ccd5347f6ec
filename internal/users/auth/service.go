// Copyright (c) 2026 Film8X. All rights reserved.

// Service layer for the identity domain.
//
// # Architecture
//
// The service orchestrates domain entities and interacts with repositories
// through interfaces. It is technology-agnostic and does not know about HTTP
// or SQL.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/film8x/film8x/internal/platform/apperr"
	"github.com/film8x/film8x/internal/platform/ctxutil"
	"github.com/film8x/film8x/internal/platform/dberr"
	"github.com/film8x/film8x/internal/platform/sec"
	"github.com/film8x/film8x/internal/platform/validate"
	"github.com/film8x/film8x/pkg/pagination"
	"github.com/film8x/film8x/pkg/uuid"
)

// TokenProvider defines the contract for issuing and verifying session tokens.
type TokenProvider interface {
	// IssuePair creates a short-lived access token and a long-lived refresh
	// token for the given user id.
	IssuePair(userID string) (accessToken, refreshToken string, err error)

	// IssueAccess creates only a new access token. Used by the refresh flow,
	// which never rotates the refresh token.
	IssueAccess(userID string) (string, error)

	// Verify validates a token and returns its claims.
	// Fails with [sec.ErrTokenExpired] or [sec.ErrTokenMalformed].
	Verify(tokenStr string) (*sec.AuthClaims, error)
}

// Service implements user authentication and administration use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	moviePurger    MoviePurger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, tokenProv TokenProvider, purger MoviePurger) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		moviePurger:    purger,
	}
}

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register validates, hashes, and persists a brand new user account.
//
// # Business Rules
//   - Emails and usernames must be unique (enforced by DB constraints).
//   - Emails are lowercased before storage so lookups are case-insensitive.
//   - The password must satisfy the registration strength policy.
//   - Default role is always 'user'.
//   - The response NEVER includes a session: registering does not log in.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	// ── 1. Boundary Validation ────────────────────────────────────────────

	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	v := &validate.Validator{}
	err := v.
		Required("username", username).
		MinLen("username", username, 3).
		MaxLen("username", username, 30).
		Username("username", username).
		Required("email", email).
		Email("email", email).
		Password("password", input.Password).
		Err()
	if err != nil {
		return nil, err
	}

	// ── 2. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 3. Entity Construction ────────────────────────────────────────────

	user := &User{
		ID:           uuid.New(), // Time-sortable ID to prevent PG index fragmentation.
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser, // Rule: Default role is always User
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	// Uniqueness is decided by the database, not by a pre-check: two
	// concurrent registrations race on the unique index and exactly one wins.
	if err := service.userRepository.Create(ctx, user); err != nil {
		switch {
		case dberr.IsUniqueViolation(err, "ux_account_email"):
			return nil, apperr.Conflict("Email is already registered")
		case dberr.IsUniqueViolation(err, "ux_account_username"):
			return nil, apperr.Conflict("Username is already taken")
		}
		return nil, dberr.Wrap(err, "User")
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

// Login validates user credentials and issues a stateless token pair.
//
// # Flow
//  1. Lookup user by email (lowercased).
//  2. Verify password hash using Bcrypt.
//  3. Issue the access/refresh pair.
//
// # Enumeration Resistance
//
// Unknown email and wrong password both fail with the IDENTICAL
// [apperr.InvalidCredentials] error so callers cannot probe which accounts
// exist.
func (service *Service) Login(ctx context.Context, email, password string) (*LoginSession, error) {
	// ── 1. Fetch User Profile ─────────────────────────────────────────────

	user, err := service.userRepository.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, apperr.InvalidCredentials()
	}

	// ── 2. Security Verification ──────────────────────────────────────────

	// Bcrypt comparison is constant-time with respect to the hash.
	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.InvalidCredentials()
	}

	// ── 3. Token Issuance ─────────────────────────────────────────────────

	accessToken, refreshToken, err := service.tokenProvider.IssuePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_logged_in",
		slog.String("user_id", user.ID),
	)

	return &LoginSession{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh mints a new access token from a valid refresh token.
//
// # No Rotation
//
// The refresh token itself stays valid until its natural expiry; only a new
// access token is issued. The pair is fully stateless, so there is no
// server-side session to revoke — an accepted trade-off of this design.
func (service *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	// ── 1. Verify the Refresh Token ───────────────────────────────────────

	claims, err := service.tokenProvider.Verify(refreshToken)
	if err != nil {
		if err == sec.ErrTokenExpired {
			return "", apperr.TokenExpired()
		}
		return "", apperr.TokenMalformed()
	}

	// ── 2. Confirm the Account Still Exists ───────────────────────────────

	// A token can outlive its account (admin deletion). Re-check storage so
	// deleted users cannot keep minting access tokens.
	user, err := service.userRepository.FindByID(ctx, claims.UserID())
	if err != nil {
		return "", apperr.Unauthorized("Account no longer exists")
	}

	// ── 3. Issue a Fresh Access Token ─────────────────────────────────────

	accessToken, err := service.tokenProvider.IssueAccess(user.ID)
	if err != nil {
		return "", fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	return accessToken, nil
}

// Me resolves the authenticated user's profile fresh from storage.
func (service *Service) Me(ctx context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

// ResolveIdentity implements [middleware.IdentitySource].
//
// Missing accounts return (nil, nil) so the middleware can distinguish
// "user deleted" from a storage failure.
func (service *Service) ResolveIdentity(ctx context.Context, userID string) (*sec.Identity, error) {
	user, err := service.userRepository.FindByID(ctx, userID)
	if err != nil {
		if apperr.IsCode(err, "NOT_FOUND") {
			return nil, nil
		}
		return nil, err
	}
	return user.Identity(), nil
}

// # Admin User Management

// UserListing is the admin view over the account base.
type UserListing struct {
	Users  []*User     `json:"users"`
	Counts *RoleCounts `json:"counts"`
	Total  int         `json:"-"`
}

// ListUsers returns a page of accounts with per-role aggregates. Admin only —
// the role gate lives in the router, this method trusts its caller.
func (service *Service) ListUsers(ctx context.Context, roleFilter sec.Role, page pagination.Params) (*UserListing, error) {
	if roleFilter != "" && !roleFilter.IsValid() {
		return nil, validate.RequiredError("role", "Unknown role filter")
	}

	users, total, err := service.userRepository.List(ctx, roleFilter, page)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	counts, err := service.userRepository.CountByRole(ctx)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return &UserListing{Users: users, Counts: counts, Total: total}, nil
}

// UpdateUserRole changes the role of a target account.
//
// # Business Rules
//   - The role must be one of the closed enum values.
//   - An admin cannot change their OWN role: demoting the last admin would
//     lock everyone out of moderation.
func (service *Service) UpdateUserRole(ctx context.Context, actor *sec.Identity, targetID string, newRole sec.Role) (*User, error) {
	if !newRole.IsValid() {
		return nil, validate.RequiredError("role", "Must be one of: user, moderator, admin")
	}

	if actor.UserID == targetID {
		return nil, validate.RequiredError("role", "You cannot change your own role")
	}

	if err := service.userRepository.UpdateRole(ctx, targetID, newRole); err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	user, err := service.userRepository.FindByID(ctx, targetID)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_role_changed",
		slog.String("actor_id", actor.UserID),
		slog.String("target_id", targetID),
		slog.String("new_role", string(newRole)),
	)

	return user, nil
}

// DeleteUser permanently removes a target account and all of its uploads.
//
// # Business Rules
//   - An admin cannot delete themselves.
//   - An admin cannot delete another admin (demote first, then delete).
//   - All movies uploaded by the target are removed in cascade.
func (service *Service) DeleteUser(ctx context.Context, actor *sec.Identity, targetID string) error {
	if actor.UserID == targetID {
		return apperr.Forbidden("You cannot delete your own account")
	}

	target, err := service.userRepository.FindByID(ctx, targetID)
	if err != nil {
		return apperr.NotFound("User")
	}

	if target.Role == sec.RoleAdmin {
		return apperr.Forbidden("Admin accounts cannot be deleted")
	}

	purged, err := service.moviePurger.DeleteByUploader(ctx, targetID)
	if err != nil {
		return dberr.Wrap(err, "Movie")
	}

	if err := service.userRepository.Delete(ctx, targetID); err != nil {
		return dberr.Wrap(err, "User")
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_deleted",
		slog.String("actor_id", actor.UserID),
		slog.String("target_id", targetID),
		slog.Int("movies_purged", purged),
	)

	return nil
}

// Copyright (c) 2026 Film8X. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/film8x/film8x/internal/platform/sec"
)

/*
TestRole_AtLeast verifies the strict linear hierarchy user < moderator < admin.
*/
func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     sec.Role
		target   sec.Role
		expected bool
	}{
		{"admin_meets_admin", sec.RoleAdmin, sec.RoleAdmin, true},
		{"admin_meets_moderator", sec.RoleAdmin, sec.RoleModerator, true},
		{"moderator_meets_user", sec.RoleModerator, sec.RoleUser, true},
		{"moderator_below_admin", sec.RoleModerator, sec.RoleAdmin, false},
		{"user_below_moderator", sec.RoleUser, sec.RoleModerator, false},
		{"unknown_below_everything", sec.Role("ghost"), sec.RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.AtLeast(tt.target))
		})
	}
}

/*
TestCan exercises the full access policy table. Ownership constraints are out
of scope here: Can only decides role privilege.
*/
func TestCan(t *testing.T) {
	tests := []struct {
		name     string
		role     sec.Role
		action   sec.Action
		expected bool
	}{
		{"user_views_active", sec.RoleUser, sec.ActionViewActiveContent, true},
		{"user_cannot_create", sec.RoleUser, sec.ActionCreateContent, false},
		{"user_cannot_delete_own", sec.RoleUser, sec.ActionDeleteOwnContent, false},
		{"moderator_creates", sec.RoleModerator, sec.ActionCreateContent, true},
		{"moderator_edits_own", sec.RoleModerator, sec.ActionEditOwnContent, true},
		{"moderator_cannot_edit_any", sec.RoleModerator, sec.ActionEditAnyContent, false},
		{"moderator_cannot_moderate", sec.RoleModerator, sec.ActionTransitionStatus, false},
		{"moderator_cannot_manage_users", sec.RoleModerator, sec.ActionManageUsers, false},
		{"admin_moderates", sec.RoleAdmin, sec.ActionTransitionStatus, true},
		{"admin_edits_any", sec.RoleAdmin, sec.ActionEditAnyContent, true},
		{"admin_deletes_any", sec.RoleAdmin, sec.ActionDeleteAnyContent, true},
		{"admin_manages_users", sec.RoleAdmin, sec.ActionManageUsers, true},
		{"unknown_role_denied", sec.Role("ghost"), sec.ActionViewActiveContent, false},
		{"unknown_action_denied", sec.RoleAdmin, sec.Action("content.teleport"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sec.Can(tt.role, tt.action))
		})
	}
}

/*
TestPasswordPolicyViolations checks the registration strength rules: one
message per unmet rule, empty result for an acceptable password.
*/
func TestPasswordPolicyViolations(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		violations int
	}{
		{"strong_password", "Str0ng!pass", 0},
		{"missing_symbol", "Passw0rd", 1},
		{"missing_symbol_and_digit", "Password", 2},
		{"short_lowercase_only", "abc", 4},
		{"empty", "", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, sec.PasswordPolicyViolations(tt.password), tt.violations)
		})
	}
}

/*
TestHashPassword_RoundTrip verifies bcrypt hashing and both comparison outcomes.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("Str0ng!pass")
	assert.NoError(t, err)
	assert.NotEqual(t, "Str0ng!pass", hash)

	assert.True(t, sec.CheckPasswordHash("Str0ng!pass", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-password", hash))
	assert.False(t, sec.CheckPasswordHash("Str0ng!pass", "not-a-bcrypt-hash"))
}

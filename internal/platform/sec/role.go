// Copyright (c) 2026 Film8X. All rights reserved.

package sec

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Unrestricted system access, including moderation verdicts and user management
	RoleAdmin Role = "admin"

	// Can upload movies and manage their own submissions
	RoleModerator Role = "moderator"

	// Default role for standard registered viewers
	RoleUser Role = "user"
)

// IsValid reports whether r is a recognised [Role] value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleModerator:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}

// # Access Policy

// Action enumerates the permission-checked operations of the platform.
type Action string

const (
	ActionViewActiveContent Action = "content.view_active"
	ActionCreateContent     Action = "content.create"
	ActionEditOwnContent    Action = "content.edit_own"
	ActionEditAnyContent    Action = "content.edit_any"
	ActionTransitionStatus  Action = "content.transition_status"
	ActionDeleteOwnContent  Action = "content.delete_own"
	ActionDeleteAnyContent  Action = "content.delete_any"
	ActionManageUsers       Action = "users.manage"
)

// Can is the pure access-control predicate mapping (role, action) to a verdict.
//
// # Scope
//
// Can only evaluates role privilege. Ownership constraints (a moderator may
// edit/delete only their OWN uploads, an admin may not delete themselves or
// another admin) depend on the target resource and are enforced by the domain
// services on top of this predicate.
func Can(role Role, action Action) bool {
	switch action {
	case ActionViewActiveContent:
		return role.IsValid()
	case ActionCreateContent, ActionEditOwnContent, ActionDeleteOwnContent:
		return role.AtLeast(RoleModerator)
	case ActionEditAnyContent, ActionTransitionStatus, ActionDeleteAnyContent, ActionManageUsers:
		return role == RoleAdmin
	}
	return false
}

// # Request Identity

// Identity is the authenticated caller attached to a request context.
//
// # Freshness
//
// Role is ALWAYS resolved from the credential store at request time, never
// read from the token payload. A role change (promotion or revocation) takes
// effect on the very next request, even for tokens issued before the change.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Copyright (c) 2026 Film8X. All rights reserved.

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/film8x/film8x/internal/platform/apperr"
	"github.com/film8x/film8x/internal/platform/validate"
)

// details unwraps the field errors out of a validation failure.
func details(t *testing.T, err error) []apperr.FieldError {
	t.Helper()
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	return appError.Details
}

/*
TestValidator_Required verifies that blank and whitespace-only values fail
and that the broken field is named in the details.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"normal_value", "Inception", true},
		{"empty", "", false},
		{"whitespace_only", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &validate.Validator{}
			err := checker.Required("title", tt.value).Err()

			if tt.valid {
				assert.NoError(t, err)
				assert.False(t, checker.HasErrors())
				return
			}
			assert.Equal(t, "title", details(t, err)[0].Field)
		})
	}
}

/*
TestValidator_Email covers the address-format rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"plain_address", "carol@example.com", true},
		{"no_at_sign", "not-an-email", false},
		{"missing_domain", "carol@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &validate.Validator{}
			checker.Email("email", tt.email)
			assert.Equal(t, !tt.valid, checker.HasErrors())
		})
	}
}

/*
TestValidator_Password verifies that each unmet strength rule yields its own
field detail.
*/
func TestValidator_Password(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		violations int
	}{
		{"strong", "Str0ng!pass", 0},
		{"missing_symbol", "Passw0rd", 1},
		{"missing_digit_and_symbol", "Password", 2},
		{"all_rules_fail", "abc", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &validate.Validator{}
			err := checker.Password("password", tt.password).Err()

			if tt.violations == 0 {
				assert.NoError(t, err)
				return
			}

			broken := details(t, err)
			assert.Len(t, broken, tt.violations)
			for _, fieldError := range broken {
				assert.Equal(t, "password", fieldError.Field)
			}
		})
	}
}

/*
TestValidator_Accumulation verifies that a chain reports every broken rule
at once instead of stopping at the first.
*/
func TestValidator_Accumulation(t *testing.T) {
	t.Run("all_rules_pass", func(t *testing.T) {
		checker := &validate.Validator{}
		err := checker.
			Required("username", "carol").
			MinLen("username", "carol", 3).
			MaxLen("username", "carol", 30).
			Username("username", "carol").
			Email("email", "carol@film8x.app").
			Err()

		assert.NoError(t, err)
	})

	t.Run("three_rules_broken", func(t *testing.T) {
		checker := &validate.Validator{}
		err := checker.
			Required("username", "").
			MinLen("username", "a", 5).
			Email("email", "nope").
			Err()

		assert.Len(t, details(t, err), 3)
	})
}

/*
TestValidator_OneOf covers closed-enum membership, the rule guarding role
and category inputs.
*/
func TestValidator_OneOf(t *testing.T) {
	checker := &validate.Validator{}
	assert.NoError(t, checker.OneOf("role", "moderator", "user", "moderator", "admin").Err())

	checker = &validate.Validator{}
	err := checker.OneOf("category", "thriller", "action", "comedy", "drama").Err()
	assert.Equal(t, "category", details(t, err)[0].Field)
}

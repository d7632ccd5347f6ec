// Copyright (c) 2026 Film8X. All rights reserved.

/*
Package validate implements the field-rule chain used by the service layer.

A Validator accumulates every broken rule instead of stopping at the first,
so a registration form with three problems reports all three in one
VALIDATION_ERROR response. Handlers and stores never validate; only services
do.
*/
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/film8x/film8x/internal/platform/apperr"
	"github.com/film8x/film8x/internal/platform/sec"
)

var (
	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	uuidPattern     = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

	// ErrInvalidJSON is what request decoding returns for an unparseable body.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects broken rules through a chainable API. Not safe for
// concurrent use; build one per operation.
type Validator struct {
	broken []apperr.FieldError
}

// Required fails when the trimmed value is empty.
func (validator *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		validator.fail(field, "This field is required")
	}
	return validator
}

// MinLen fails when the value has fewer than min runes.
func (validator *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		validator.fail(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return validator
}

// MaxLen fails when the value has more than max runes.
func (validator *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		validator.fail(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return validator
}

// Range fails when value lies outside [min, max].
func (validator *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		validator.fail(field, fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return validator
}

// Email fails when the value does not parse as an RFC 5322 address.
func (validator *Validator) Email(field, value string) *Validator {
	if _, err := mail.ParseAddress(value); err != nil {
		validator.fail(field, "Must be a valid email address")
	}
	return validator
}

// Username fails on characters outside the handle alphabet
// (letters, digits, underscores, dots).
func (validator *Validator) Username(field, value string) *Validator {
	if !usernamePattern.MatchString(value) {
		validator.fail(field, "Must contain only letters, digits, underscores, and dots")
	}
	return validator
}

// Password applies the registration strength policy, one failure per unmet
// rule.
func (validator *Validator) Password(field, value string) *Validator {
	for _, violation := range sec.PasswordPolicyViolations(value) {
		validator.fail(field, violation)
	}
	return validator
}

// Slug fails when the value is not lowercase-letters/digits/hyphens with no
// edge hyphens.
func (validator *Validator) Slug(field, value string) *Validator {
	if !slugPattern.MatchString(value) {
		validator.fail(field, "Must be a valid URL slug (lowercase letters, digits, hyphens only)")
	}
	return validator
}

// UUID fails when the value is not a UUID string, case-insensitively.
func (validator *Validator) UUID(field, value string) *Validator {
	if !uuidPattern.MatchString(strings.ToLower(value)) {
		validator.fail(field, "Must be a valid UUID")
	}
	return validator
}

// OneOf fails when the value is outside the allowed set.
func (validator *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if !slices.Contains(allowed, value) {
		validator.fail(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	}
	return validator
}

// Custom records the given message when failed is true. For rules too
// domain-specific to deserve a named method.
func (validator *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		validator.fail(field, message)
	}
	return validator
}

// HasErrors reports whether any rule has failed so far.
func (validator *Validator) HasErrors() bool {
	return len(validator.broken) > 0
}

// Err terminates the chain: nil when everything passed, otherwise one
// VALIDATION_ERROR carrying every broken rule.
func (validator *Validator) Err() error {
	if len(validator.broken) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", validator.broken...)
}

func (validator *Validator) fail(field, message string) {
	validator.broken = append(validator.broken, apperr.FieldError{Field: field, Message: message})
}

// RequiredError builds a single-field VALIDATION_ERROR without a chain.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}

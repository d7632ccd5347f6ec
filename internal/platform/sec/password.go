// Copyright (c) 2026 Film8X. All rights reserved.

package sec

import (
	"strings"
	"unicode"
)

// # Password Policy

// PasswordMinLength is the minimum accepted password length at registration.
const PasswordMinLength = 6

// passwordSymbols is the set of characters that satisfy the symbol rule.
const passwordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// PasswordPolicyViolations checks a candidate password against the
// registration strength policy and returns one human-readable message per
// unmet rule. An empty slice means the password is acceptable.
//
// # Rules
//
//   - at least [PasswordMinLength] characters
//   - at least one uppercase letter
//   - at least one digit
//   - at least one symbol from [passwordSymbols]
//
// The policy applies to REGISTRATION only. Login never evaluates it, so
// accounts created under older policies can still sign in.
func PasswordPolicyViolations(password string) []string {
	var violations []string

	if len(password) < PasswordMinLength {
		violations = append(violations, "password must be at least 6 characters long")
	}

	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	if !hasUpper {
		violations = append(violations, "password must contain at least one uppercase letter")
	}
	if !hasDigit {
		violations = append(violations, "password must contain at least one number")
	}
	if !hasSymbol {
		violations = append(violations, "password must contain at least one special character")
	}

	return violations
}

// Copyright (c) 2026 Film8X. All rights reserved.

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a bcrypt hash at the default cost, which balances
// security against CPU burn during registration spikes.
func HashPassword(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(digest), nil
}

// CheckPasswordHash reports whether plain matches the stored hash. The
// comparison is constant-time with respect to the hash contents.
func CheckPasswordHash(plain, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plain)) == nil
}

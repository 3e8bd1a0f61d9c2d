//go:build race

package auth

import "golang.org/x/crypto/bcrypt"

// Instrumented builds fall back to the default cost, otherwise hashing
// dominates race-enabled test runs and trips their deadlines.
func passwordHashCost() int {
	return bcrypt.DefaultCost
}

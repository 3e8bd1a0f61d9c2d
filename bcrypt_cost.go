//go:build !race

package auth

// Cost 14 keeps hashing around the half-second mark on current hardware.
func passwordHashCost() int {
	return 14
}

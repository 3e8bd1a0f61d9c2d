package auth

import "time"

// IsOutsideThresholdPeriod reports whether t is further in the past than the
// given duration expression, e.g. "24h" or "2h30m".
func IsOutsideThresholdPeriod(t time.Time, threshold string) (bool, error) {
	d, err := time.ParseDuration(threshold)
	if err != nil {
		return false, err
	}

	return time.Since(t) > d, nil
}

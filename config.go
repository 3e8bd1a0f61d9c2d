package auth

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// DefaultTokenExpiration is the access token TTL in hours.
const DefaultTokenExpiration = 24

// DefaultOTPTTL is how long a reset code stays valid.
const DefaultOTPTTL = 10 * time.Minute

// StaticConfig is an immutable Config value meant to be loaded once at
// process start and handed to the composition root.
type StaticConfig struct {
	SigningKey          string
	TokenExpiration     int
	Issuer              string
	Audience            []string
	OTPTTL              time.Duration
	SignUpDefaultStatus UserStatus
}

var _ Config = StaticConfig{}

// NewStaticConfig applies defaults for every zero field.
func NewStaticConfig(signingKey string) StaticConfig {
	return StaticConfig{
		SigningKey:          signingKey,
		TokenExpiration:     DefaultTokenExpiration,
		OTPTTL:              DefaultOTPTTL,
		SignUpDefaultStatus: UserStatusInactive,
	}
}

func (c StaticConfig) GetSigningKey() string { return c.SigningKey }

func (c StaticConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return DefaultTokenExpiration
	}
	return c.TokenExpiration
}

func (c StaticConfig) GetIssuer() string { return c.Issuer }

func (c StaticConfig) GetAudience() []string { return c.Audience }

func (c StaticConfig) GetOTPTTL() time.Duration {
	if c.OTPTTL <= 0 {
		return DefaultOTPTTL
	}
	return c.OTPTTL
}

func (c StaticConfig) GetSignUpDefaultStatus() UserStatus {
	if c.SignUpDefaultStatus == "" {
		return UserStatusInactive
	}
	return c.SignUpDefaultStatus
}

// Validate rejects unusable configuration at load time, before any request
// sees it.
func (c StaticConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SigningKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.TokenExpiration, validation.Min(0)),
		validation.Field(&c.SignUpDefaultStatus, validation.In(
			UserStatusActive,
			UserStatusInactive,
			UserStatus(""),
		)),
	)
}

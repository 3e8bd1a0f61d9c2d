package auth

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// PolicyConfig describes the structural constraints a candidate password must
// satisfy. Loaded once at startup; the compiled PasswordPolicy is what request
// paths use.
type PolicyConfig struct {
	MinLength           int
	MaxLength           int
	RequireUppercase    bool
	RequireLowercase    bool
	RequireDigit        bool
	RequireSpecialChar  bool
	AllowedSpecialChars string
	ExcludedSequences   []string
	Blacklist           []string
	NoRepeatedChars     bool
}

// DefaultPolicyConfig mirrors the deployment defaults.
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		MinLength:           8,
		MaxLength:           20,
		RequireUppercase:    true,
		RequireLowercase:    true,
		RequireDigit:        true,
		RequireSpecialChar:  true,
		AllowedSpecialChars: "!@#$%^&*",
		ExcludedSequences:   []string{"1234", "abcd"},
		Blacklist:           []string{"password", "12345678"},
		NoRepeatedChars:     true,
	}
}

// Validate rejects broken configuration at load time. A max below min is a
// configuration error, never a per-candidate rejection.
func (c PolicyConfig) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.MinLength, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxLength, validation.Required, validation.Min(c.MinLength)),
	); err != nil {
		return err
	}

	if c.RequireSpecialChar && c.AllowedSpecialChars == "" {
		return goerrors.New(
			"allowedSpecialChars must be set when requireSpecialChar is enabled",
			goerrors.CategoryBadInput,
		)
	}

	return nil
}

// PasswordPolicy is a compiled predicate over a PolicyConfig. Build it once
// with NewPasswordPolicy and share it; Validate is pure and safe for
// concurrent use.
type PasswordPolicy struct {
	cfg     PolicyConfig
	charset *regexp.Regexp
}

// NewPasswordPolicy validates the config and compiles the charset/length
// matcher.
func NewPasswordPolicy(cfg PolicyConfig) (*PasswordPolicy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid password policy configuration")
	}

	pattern := fmt.Sprintf(
		"^[A-Za-z0-9%s]{%d,%d}$",
		escapeCharClass(cfg.AllowedSpecialChars),
		cfg.MinLength,
		cfg.MaxLength,
	)

	charset, err := regexp.Compile(pattern)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to compile password charset pattern")
	}

	return &PasswordPolicy{cfg: cfg, charset: charset}, nil
}

// MustPasswordPolicy panics on invalid config; for composition roots with
// compile-time-known settings.
func MustPasswordPolicy(cfg PolicyConfig) *PasswordPolicy {
	p, err := NewPasswordPolicy(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

// Config returns the policy's immutable configuration.
func (p *PasswordPolicy) Config() PolicyConfig {
	return p.cfg
}

// Validate runs every gate and returns a categorized validation error naming
// the first one that failed. Gates are ordered cheapest first but each is an
// independent rejection.
func (p *PasswordPolicy) Validate(candidate string) error {
	if candidate == "" {
		return ErrNoEmptyString
	}

	if !p.charset.MatchString(candidate) {
		return policyViolation("password length or character set is not allowed")
	}

	if p.cfg.RequireLowercase && !strings.ContainsAny(candidate, "abcdefghijklmnopqrstuvwxyz") {
		return policyViolation("password must contain a lowercase letter")
	}

	if p.cfg.RequireUppercase && !strings.ContainsAny(candidate, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		return policyViolation("password must contain an uppercase letter")
	}

	if p.cfg.RequireDigit && !strings.ContainsAny(candidate, "0123456789") {
		return policyViolation("password must contain a digit")
	}

	if p.cfg.RequireSpecialChar && !strings.ContainsAny(candidate, p.cfg.AllowedSpecialChars) {
		return policyViolation("password must contain a special character")
	}

	for _, seq := range p.cfg.ExcludedSequences {
		if seq != "" && strings.Contains(candidate, seq) {
			return policyViolation("password contains a forbidden sequence")
		}
	}

	for _, entry := range p.cfg.Blacklist {
		if candidate == entry {
			return policyViolation("password is too common")
		}
	}

	if p.cfg.NoRepeatedChars && hasConsecutiveRepeat(candidate) {
		return policyViolation("password must not repeat the same character consecutively")
	}

	return nil
}

func policyViolation(reason string) error {
	return goerrors.New(reason, goerrors.CategoryValidation).
		WithTextCode(TextCodePasswordPolicy)
}

func hasConsecutiveRepeat(s string) bool {
	var prev rune
	for i, r := range s {
		if i > 0 && r == prev {
			return true
		}
		prev = r
	}
	return false
}

// escapeCharClass escapes the characters that carry meaning inside a regexp
// character class.
func escapeCharClass(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', ']', '^', '-':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

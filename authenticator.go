package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// MaxLoginAttempts is the number of consecutive failed logins tolerated
// before the cooldown window applies.
var MaxLoginAttempts = 5

// CoolDownPeriod is how long a locked account waits before attempts are
// honored again.
var CoolDownPeriod = "24h"

// Auther orchestrates the credential lifecycle: registration, login, session
// revocation, password change, and OTP backed resets.
type Auther struct {
	repo             RepositoryManager
	tokens           TokenService
	policy           *PasswordPolicy
	otp              *OTPManager
	notifier         Notifier
	logger           Logger
	activity         ActivitySink
	maxLoginAttempts int
	cooldownPeriod   string
	defaultStatus    UserStatus
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator wires an orchestrator from configuration. Collaborators
// not covered by Config get sensible defaults and can be replaced through the
// With builders.
func NewAuthenticator(repo RepositoryManager, cfg Config) *Auther {
	tokens := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		jwt.ClaimStrings(cfg.GetAudience()),
		nil,
	)

	return &Auther{
		repo:             repo,
		tokens:           tokens,
		policy:           MustPasswordPolicy(DefaultPolicyConfig()),
		otp:              NewOTPManager(repo.Otps(), cfg.GetOTPTTL()),
		notifier:         noopNotifier{},
		logger:           defLogger{},
		activity:         noopActivitySink{},
		maxLoginAttempts: MaxLoginAttempts,
		cooldownPeriod:   CoolDownPeriod,
		defaultStatus:    cfg.GetSignUpDefaultStatus(),
	}
}

// WithLogger sets the logger used by the orchestrator.
func (a *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		a.logger = logger
		a.otp.WithLogger(logger)
	}
	return a
}

// WithTokenService replaces the token issuer.
func (a *Auther) WithTokenService(tokens TokenService) *Auther {
	if tokens != nil {
		a.tokens = tokens
	}
	return a
}

// WithPasswordPolicy replaces the password strength policy.
func (a *Auther) WithPasswordPolicy(policy *PasswordPolicy) *Auther {
	if policy != nil {
		a.policy = policy
	}
	return a
}

// WithNotifier sets the out of band channel used to deliver reset codes.
func (a *Auther) WithNotifier(notifier Notifier) *Auther {
	a.notifier = normalizeNotifier(notifier)
	return a
}

// WithActivitySink sets the sink that receives audit events.
func (a *Auther) WithActivitySink(sink ActivitySink) *Auther {
	a.activity = normalizeActivitySink(sink)
	return a
}

// WithLoginThrottle overrides the failed-attempt ceiling and cooldown window.
func (a *Auther) WithLoginThrottle(maxAttempts int, cooldown string) *Auther {
	if maxAttempts > 0 {
		a.maxLoginAttempts = maxAttempts
	}
	if cooldown != "" {
		a.cooldownPeriod = cooldown
	}
	return a
}

// SignUp registers a new account. The password must satisfy the configured
// policy and the email must be unused; the stored hash never leaves this
// method.
func (a *Auther) SignUp(ctx context.Context, payload SignUpPayload) (*User, error) {
	if err := payload.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid sign up payload")
	}

	if _, err := a.repo.Users().FindByEmail(ctx, payload.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !goerrors.IsNotFound(err) {
		return nil, a.surface(err, "failed to check email availability")
	}

	if err := a.policy.Validate(payload.Password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return nil, a.surface(err, "failed to hash password")
	}

	user := &User{
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Username:     getUsername(payload.Username, payload.Email),
		Email:        payload.Email,
		PasswordHash: hash,
		Status:       a.defaultStatus,
	}

	if payload.UseHashid {
		id, err := hashid.NewUUID(payload.Email)
		if err != nil {
			return nil, a.surface(err, "failed to derive user id")
		}
		user.ID = id
	}

	created, err := a.repo.Users().CreateUser(ctx, user)
	if err != nil {
		// the unique constraint is the authority under concurrent sign ups
		if goerrors.Is(err, ErrEmailTaken) || goerrors.Is(err, ErrUsernameTaken) {
			return nil, err
		}
		return nil, a.surface(err, "failed to create user")
	}

	a.emitAuthEvent(ctx, ActivityEventSignUp, created.ID, map[string]any{
		"email": created.Email,
	})

	created.PasswordHash = ""

	return created, nil
}

// SignIn verifies credentials and returns a signed bearer token backed by a
// fresh ACTIVE session. Each successful login creates its own session row.
func (a *Auther) SignIn(ctx context.Context, payload SignInPayload) (string, error) {
	if err := payload.Validate(); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, "invalid sign in payload")
	}

	identifier := getUsername(payload.Username, payload.Email)

	user, err := a.findUser(ctx, identifier)
	if err != nil {
		return "", err
	}

	user.EnsureStatus()
	if err := statusAuthError(user.Status); err != nil {
		a.emitAuthEvent(ctx, ActivityEventLoginFailure, user.ID, map[string]any{
			"reason": "inactive",
		})
		return "", err
	}

	if err := a.checkLoginThrottle(user); err != nil {
		a.emitAuthEvent(ctx, ActivityEventLoginFailure, user.ID, map[string]any{
			"reason": "throttled",
		})
		return "", err
	}

	if err := ComparePasswordAndHash(payload.Password, user.PasswordHash); err != nil {
		if terr := a.repo.Users().TrackAttemptedLogin(ctx, user); terr != nil {
			a.logger.Error("Auther failed to track attempted login: %s", terr)
		}
		a.emitAuthEvent(ctx, ActivityEventLoginFailure, user.ID, map[string]any{
			"reason": "credentials",
		})
		return "", ErrMismatchedHashAndPassword
	}

	if err := a.repo.Users().TrackSuccessfulLogin(ctx, user); err != nil {
		a.logger.Error("Auther failed to track successful login: %s", err)
	}

	token, err := a.tokens.Generate(user.Identity())
	if err != nil {
		return "", a.surface(err, "failed to generate token")
	}

	if _, err := a.repo.Sessions().Create(ctx, user.ID, token, payload.IPAddress); err != nil {
		return "", a.surface(err, "failed to create session")
	}

	a.emitAuthEvent(ctx, ActivityEventLoginSuccess, user.ID, map[string]any{
		"ip_address": payload.IPAddress,
	})

	return token, nil
}

// Logout deactivates the caller's session. A second call for the same token
// reports ErrSessionNotFound since no ACTIVE row remains.
func (a *Auther) Logout(ctx context.Context, userID uuid.UUID, tokenValue string) error {
	session, err := a.repo.Sessions().FindActiveByUserAndToken(ctx, userID, tokenValue)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrSessionNotFound
		}
		return a.surface(err, "failed to look up session")
	}

	if err := a.repo.Sessions().Deactivate(ctx, session.ID); err != nil {
		return a.surface(err, "failed to deactivate session")
	}

	a.emitAuthEvent(ctx, ActivityEventLogout, userID, map[string]any{
		"session_id": session.ID.String(),
	})

	return nil
}

// ChangePassword rotates the password after proving knowledge of the current
// one. Existing sessions stay valid; revocation is an explicit Logout.
func (a *Auther) ChangePassword(ctx context.Context, userID uuid.UUID, payload ChangePasswordPayload) error {
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid change password payload")
	}

	user, err := a.repo.Users().FindByID(ctx, userID)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrIdentityNotFound
		}
		return a.surface(err, "failed to look up user")
	}

	if err := ComparePasswordAndHash(payload.CurrentPassword, user.PasswordHash); err != nil {
		return ErrCurrentPasswordMismatch
	}

	if err := a.updatePassword(ctx, user.ID, payload.NewPassword); err != nil {
		return err
	}

	a.emitAuthEvent(ctx, ActivityEventPasswordChanged, user.ID, nil)

	return nil
}

// ForgotPassword generates a reset code and hands it to the notifier. The
// code never appears in the return value or logs.
func (a *Auther) ForgotPassword(ctx context.Context, email string) error {
	user, err := a.repo.Users().FindByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrUnknownEmail
		}
		return a.surface(err, "failed to look up user")
	}

	code, err := a.otp.Generate(ctx, user.ID)
	if err != nil {
		return a.surface(err, "failed to generate reset code")
	}

	if err := a.notifier.SendOTP(ctx, user.Email, code); err != nil {
		return a.surface(err, "failed to deliver reset code")
	}

	a.emitAuthEvent(ctx, ActivityEventPasswordResetRequest, user.ID, nil)

	return nil
}

// ResetPassword finalizes a reset. The new password clears the policy and is
// hashed before the code is touched, so a rejected password leaves the code
// intact for a retry; the atomic consume is the last gate, which keeps a
// concurrent replay from also succeeding. Outstanding codes are invalidated
// afterwards.
func (a *Auther) ResetPassword(ctx context.Context, payload ResetPasswordPayload) error {
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid reset password payload")
	}

	user, err := a.repo.Users().FindByEmail(ctx, payload.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrUnknownEmail
		}
		return a.surface(err, "failed to look up user")
	}

	if err := a.policy.Validate(payload.NewPassword); err != nil {
		return err
	}

	hash, err := HashPassword(payload.NewPassword)
	if err != nil {
		return a.surface(err, "failed to hash password")
	}

	ok, err := a.otp.Consume(ctx, user.ID, payload.OTP)
	if err != nil {
		return a.surface(err, "failed to consume reset code")
	}

	if !ok {
		return ErrInvalidOTP
	}

	if err := a.repo.Users().UpdatePassword(ctx, user.ID, hash); err != nil {
		if goerrors.IsNotFound(err) {
			return ErrIdentityNotFound
		}
		return a.surface(err, "failed to update password")
	}

	if err := a.otp.Invalidate(ctx, user.ID); err != nil {
		a.logger.Error("Auther failed to invalidate outstanding reset codes: %s", err)
	}

	a.emitAuthEvent(ctx, ActivityEventPasswordResetSuccess, user.ID, nil)

	return nil
}

// ValidateBearerToken runs the two layer check: cryptographic verification
// first, then the session registry. A valid signature over a revoked session
// reports ErrTokenRevoked.
func (a *Auther) ValidateBearerToken(ctx context.Context, tokenValue string) (AuthClaims, error) {
	claims, err := a.tokens.Validate(tokenValue)
	if err != nil {
		return nil, err
	}

	jwtClaims, ok := claims.(*JWTClaims)
	if !ok {
		return nil, ErrUnableToDecodeSession
	}

	userID, err := jwtClaims.UserUUID()
	if err != nil {
		return nil, ErrUnableToDecodeSession
	}

	if _, err := a.repo.Sessions().FindActiveByUserAndToken(ctx, userID, tokenValue); err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrTokenRevoked
		}
		return nil, a.surface(err, "failed to look up session")
	}

	return claims, nil
}

func (a *Auther) findUser(ctx context.Context, identifier string) (*User, error) {
	user, err := a.repo.Users().FindByUsername(ctx, identifier)
	if err == nil {
		return user, nil
	}

	if !goerrors.IsNotFound(err) {
		return nil, a.surface(err, "failed to look up user")
	}

	user, err = a.repo.Users().FindByEmail(ctx, identifier)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, a.surface(err, "failed to look up user")
	}

	return user, nil
}

// checkLoginThrottle enforces the attempt ceiling. Once the cooldown window
// has elapsed the attempt is honored again; the counter resets on success.
func (a *Auther) checkLoginThrottle(user *User) error {
	if user.LoginAttempts < a.maxLoginAttempts {
		return nil
	}

	if user.LoginAttemptAt == nil {
		return nil
	}

	outside, err := IsOutsideThresholdPeriod(*user.LoginAttemptAt, a.cooldownPeriod)
	if err != nil {
		a.logger.Error("Auther has an invalid cooldown period %q: %s", a.cooldownPeriod, err)
		return ErrTooManyLoginAttempts
	}

	if !outside {
		return ErrTooManyLoginAttempts
	}

	return nil
}

func (a *Auther) updatePassword(ctx context.Context, userID uuid.UUID, password string) error {
	if err := a.policy.Validate(password); err != nil {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return a.surface(err, "failed to hash password")
	}

	if err := a.repo.Users().UpdatePassword(ctx, userID, hash); err != nil {
		if goerrors.IsNotFound(err) {
			return ErrIdentityNotFound
		}
		return a.surface(err, "failed to update password")
	}

	return nil
}

// surface logs the error with its metadata and normalizes it for callers.
func (a *Auther) surface(err error, msg string) error {
	rich := ensureRichError(err, msg)

	var richErr *goerrors.Error
	if goerrors.As(rich, &richErr) && len(richErr.Metadata) > 0 {
		a.logger.Error("Auther %s: %s %s", msg, richErr.Message, print.MaybePrettyJSON(richErr.Metadata))
	} else {
		a.logger.Error("Auther %s: %s", msg, rich)
	}

	return rich
}

func (a *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, userID uuid.UUID, metadata map[string]any) {
	event := ActivityEvent{
		EventType: eventType,
		Actor: ActorRef{
			ID:   userID.String(),
			Type: "user",
		},
		UserID:     userID.String(),
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}

	if err := a.activity.Record(ctx, event); err != nil {
		a.logger.Warn("Auther failed to record %s activity: %s", eventType, err)
	}
}

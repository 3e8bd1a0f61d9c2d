// Package auth implements the credential and session lifecycle: bcrypt
// password hashing, a configurable password policy engine, JWT issuance and
// validation, a revocable session registry, and an OTP based password reset
// flow.
//
// Sessions:
//   - Every sign in mints a JWT and registers it as an ACTIVE session row.
//     A bearer token is only honored while both the signature/expiry check and
//     the session registry agree; logout flips the row to INACTIVE so tokens
//     can be revoked before their cryptographic expiry.
//
// Password policy:
//   - PasswordPolicy is compiled once from a PolicyConfig and reused. Each
//     gate (charset/length, required classes, excluded sequences, blacklist,
//     consecutive repeats) rejects independently with a descriptive error.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by Auther to describe
//     sign up, login, logout, and password change/reset events. Sinks run
//     best-effort (errors are logged) so you can forward to a database or
//     queue without blocking authentication.
package auth

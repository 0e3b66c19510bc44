package service

import "errors"

// Expected sign-in outcomes. These are surfaced to the caller as an
// unauthenticated result, never logged as system errors.
var (
	// ErrInvalidCredentials means the email/secret pair did not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound means no active tenant user has the email. Inactive and
	// suspended accounts fail with this error regardless of the secret.
	ErrUserNotFound = errors.New("user account not found")
	// ErrUnknownDomain means the claimed identity domain is not one of the
	// two login populations.
	ErrUnknownDomain = errors.New("unknown identity domain")
)

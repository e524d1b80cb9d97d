package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrOAuthNotConfigured = errors.New("oauth login is not configured")
	ErrOAuthEmailMismatch = errors.New("google account is not linked to an active employee")
)

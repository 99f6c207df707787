package auth

import "errors"

var (
	ErrInvalidToken       = errors.New("auth: invalid or expired token")
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrMissingSecret      = errors.New("auth: signing secret is not configured")
	ErrRegistration       = errors.New("auth: registration failed")
)

package user

import (
	"errors"

	"github.com/dmitrymomot/tenantkit/pkg/scope"
)

var (
	ErrNotFound           = scope.ErrNotFound
	ErrEmailTaken         = errors.New("user: email already taken")
	ErrInvalid            = errors.New("user: invalid input")
	ErrInvalidCredentials = errors.New("user: invalid credentials")
)

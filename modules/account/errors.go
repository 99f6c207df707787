package account

import (
	"github.com/dmitrymomot/tenantkit/handler"
	"github.com/dmitrymomot/tenantkit/svc/auth"
	"github.com/dmitrymomot/tenantkit/svc/company"
	"github.com/dmitrymomot/tenantkit/svc/user"
)

// ErrorMappers translate the errors of this module's services.
func ErrorMappers() []handler.ErrorMapper {
	return []handler.ErrorMapper{
		handler.MapErrorTo(auth.ErrInvalidCredentials, handler.ErrUnauthorized.WithMessage("Invalid email or password")),
		handler.MapErrorTo(auth.ErrInvalidToken, handler.ErrUnauthorized.WithMessage("Invalid or expired token")),
		handler.MapErrorTo(company.ErrEmailTaken, handler.ErrConflict.WithMessage("Company email already registered")),
		handler.MapErrorTo(user.ErrEmailTaken, handler.ErrConflict.WithMessage("User email already registered")),
	}
}

package account

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tenantkit/binder"
	"github.com/dmitrymomot/tenantkit/handler"
	"github.com/dmitrymomot/tenantkit/svc/auth"
)

// Authenticator is the part of auth.Service used by this module.
type Authenticator interface {
	Register(ctx context.Context, in auth.RegisterInput) (*auth.Session, error)
	Login(ctx context.Context, email, password string) (*auth.Session, error)
}

type PasswordService struct {
	auth         Authenticator
	errorHandler handler.ErrorHandler
}

func NewPasswordService(a Authenticator, errorHandler handler.ErrorHandler) *PasswordService {
	return &PasswordService{auth: a, errorHandler: errorHandler}
}

func (s *PasswordService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/register", handler.Wrap(s.register,
		handler.WithBinders[RegisterRequest](binder.JSON()),
		handler.WithErrorHandler[RegisterRequest](s.errorHandler),
	))

	r.Post("/login", handler.Wrap(s.login,
		handler.WithBinders[LoginRequest](binder.JSON()),
		handler.WithErrorHandler[LoginRequest](s.errorHandler),
	))

	return r
}

// RegisterRequest creates a company and its first user.
type RegisterRequest struct {
	auth.RegisterInput
}

func (s *PasswordService) register(ctx handler.Context, req RegisterRequest) handler.Response {
	in := req.RegisterInput
	in.Company = in.Company.Normalize()
	in.User = in.User.Normalize()

	verr := handler.NewValidationError()
	for field, msg := range in.Company.Problems() {
		verr.Add("company."+field, msg)
	}
	for field, msg := range in.User.Problems() {
		verr.Add("user."+field, msg)
	}
	if verr.Has() {
		return handler.Fail(verr)
	}

	sess, err := s.auth.Register(ctx, in)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(sess, handler.WithJSONStatus(http.StatusCreated))
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *PasswordService) login(ctx handler.Context, req LoginRequest) handler.Response {
	verr := handler.NewValidationError()
	if req.Email == "" {
		verr.Add("email", "Email is required")
	}
	if req.Password == "" {
		verr.Add("password", "Password is required")
	}
	if verr.Has() {
		return handler.Fail(verr)
	}

	sess, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(sess)
}

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/svc/company"
	"github.com/dmitrymomot/tenantkit/svc/user"
)

// Session is returned by Register and Login.
type Session struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *user.User     `json:"user"`
	Company   *tenant.Tenant `json:"company"`
}

// RegisterInput describes a new company and its first user.
type RegisterInput struct {
	Company company.Input `json:"company"`
	User    user.Input    `json:"user"`
}

// Service registers companies, logs users in and resolves bearer tokens.
type Service struct {
	companies *company.Service
	users     *user.Service
	tokens    *tokens
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	now    func() time.Time
	logger *slog.Logger
}

// WithClock overrides the time source used for token issuance and expiry.
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *serviceOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func NewService(cfg Config, companies *company.Service, users *user.Service, opts ...Option) (*Service, error) {
	o := serviceOptions{now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	t, err := newTokens(cfg, o.now)
	if err != nil {
		return nil, err
	}
	return &Service{
		companies: companies,
		users:     users,
		tokens:    t,
		logger:    o.logger.With(logger.Component("auth")),
	}, nil
}

// Register creates a company and its first user. The user is created inside
// a tenant unit for the new company, so it is stamped like any other scoped
// write. If the user cannot be created the company is removed again.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	c, err := s.companies.Create(ctx, in.Company)
	if err != nil {
		return nil, err
	}

	u, err := tenant.RunScoped(ctx, c, func(ctx context.Context) (*user.User, error) {
		return s.users.Create(ctx, in.User)
	})
	if err != nil {
		if derr := s.companies.Delete(context.WithoutCancel(ctx), c.ID); derr != nil {
			s.logger.ErrorContext(ctx, "failed to roll back company",
				logger.TenantID(c.ID), logger.Errors(err, derr))
			return nil, errors.Join(ErrRegistration, err, derr)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "company registered", logger.TenantID(c.ID), logger.UserID(u.ID))
	return s.session(u, c)
}

// Login checks email and password and issues a token for the user's company.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.FindForLogin(ctx, email, password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	c, err := s.companies.GetByID(ctx, u.TenantID)
	if err != nil {
		return nil, err
	}
	return s.session(u, c)
}

// ResolveToken validates a bearer token and confirms its user still exists
// in the company named by the token.
func (s *Service) ResolveToken(ctx context.Context, token string) (*Principal, error) {
	p, err := s.tokens.parse(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Lookup(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if u.TenantID != p.TenantID {
		return nil, ErrInvalidToken
	}
	p.Email = u.Email
	return &p, nil
}

func (s *Service) session(u *user.User, c *tenant.Tenant) (*Session, error) {
	token, exp, err := s.tokens.issue(Principal{UserID: u.ID, TenantID: c.ID, Email: u.Email})
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: u, Company: c}, nil
}

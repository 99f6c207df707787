package company

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Input carries the writable company fields.
type Input struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Normalize trims every field and lowercases the email.
func (in Input) Normalize() Input {
	return Input{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.ToLower(strings.TrimSpace(in.Email)),
		Phone: strings.TrimSpace(in.Phone),
	}
}

// Problems returns field messages for invalid input, or nil.
func (in Input) Problems() map[string]string {
	p := map[string]string{}
	if in.Name == "" {
		p["name"] = "Name is required"
	}
	if in.Email == "" {
		p["email"] = "Email is required"
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		p["email"] = "Email is invalid"
	}
	if in.Phone == "" {
		p["phone"] = "Phone is required"
	}
	if len(p) == 0 {
		return nil
	}
	return p
}

// Service manages companies and keeps the tenant cache coherent.
type Service struct {
	store  Store
	cache  tenant.Cache
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache sets the cache invalidated on update and delete.
func WithCache(c tenant.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		cache:  tenant.NewNoOpCache(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("company"))
	return s
}

// GetByID implements tenant.Loader.
func (s *Service) GetByID(ctx context.Context, id int64) (*tenant.Tenant, error) {
	return s.store.GetByID(ctx, id)
}

// ListAfter implements tenant.Lister.
func (s *Service) ListAfter(ctx context.Context, afterID int64, limit int) ([]*tenant.Tenant, error) {
	return s.store.ListAfter(ctx, afterID, limit)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error) {
	return s.store.List(ctx, limit, offset)
}

func (s *Service) Create(ctx context.Context, in Input) (*tenant.Tenant, error) {
	in = in.Normalize()
	if in.Problems() != nil {
		return nil, ErrInvalid
	}
	c := &tenant.Tenant{Name: in.Name, Email: in.Email, Phone: in.Phone}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "company created", logger.TenantID(c.ID))
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*tenant.Tenant, error) {
	in = in.Normalize()
	if in.Problems() != nil {
		return nil, ErrInvalid
	}
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name, c.Email, c.Phone = in.Name, in.Email, in.Phone
	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, id)
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(ctx, id)
	s.logger.InfoContext(ctx, "company deleted", logger.TenantID(id))
	return nil
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool { return errors.Is(err, ErrEmailTaken) }

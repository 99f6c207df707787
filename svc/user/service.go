package user

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/scope"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// Bypass grant names for the two cross-company reads.
const (
	LoginGrant  = "auth.login"
	LookupGrant = "auth.token"
)

// Input carries the fields of a new user.
type Input struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims the name and email and lowercases the email.
func (in Input) Normalize() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	return in
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
	if len(in.Password) < MinPasswordLength {
		p["password"] = "Password must be at least 8 characters"
	}
	if len(p) == 0 {
		return nil
	}
	return p
}

// Service is the tenant-scoped user API.
type Service struct {
	repo   *scope.Repository[*User]
	login  *scope.Unscoped[*User]
	lookup *scope.Unscoped[*User]
	cost   int
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithBcryptCost overrides bcrypt.DefaultCost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
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

// NewService builds a Service over store. Login and token lookups are the
// only cross-company reads; each runs under its own bypass grant.
func NewService(store scope.Store[*User], opts ...Option) (*Service, error) {
	s := &Service{cost: bcrypt.DefaultCost, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	s.repo = scope.NewRepository(store, scope.NewFilter(scope.WithLogger(s.logger)))
	login, err := s.repo.Unscoped(scope.Grant(LoginGrant))
	if err != nil {
		return nil, err
	}
	lookup, err := s.repo.Unscoped(scope.Grant(LookupGrant))
	if err != nil {
		return nil, err
	}
	s.login, s.lookup = login, lookup
	s.logger = s.logger.With(logger.Component("user"))
	return s, nil
}

// Create adds a user to the active company.
func (s *Service) Create(ctx context.Context, in Input) (*User, error) {
	in = in.Normalize()
	if in.Problems() != nil {
		return nil, ErrInvalid
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	u := &User{Name: in.Name, Email: in.Email, PasswordHash: string(hash)}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, scope.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.logger.InfoContext(ctx, "user created", logger.UserID(u.ID))
	return u, nil
}

// List returns users of the active company ordered by id.
func (s *Service) List(ctx context.Context, limit, offset uint64) ([]*User, error) {
	return s.repo.List(ctx, scope.Query{OrderBy: []string{"id"}, Limit: limit, Offset: offset})
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Count returns the number of users in the active company.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, nil)
}

// FindForLogin returns the user with email and a matching password,
// whichever company it belongs to.
func (s *Service) FindForLogin(ctx context.Context, email, password string) (*User, error) {
	u, err := s.login.FindOne(ctx, sq.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
	if err != nil {
		if errors.Is(err, scope.ErrNotFound) {
			// Burn comparable time so unknown emails are not distinguishable.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Lookup returns the user with id, whichever company it belongs to.
// It backs bearer token resolution, which runs before any tenant is active.
func (s *Service) Lookup(ctx context.Context, id int64) (*User, error) {
	return s.lookup.Get(ctx, id)
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("tenantkit"), bcrypt.MinCost)

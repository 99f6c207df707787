package companies

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tenantkit/binder"
	"github.com/dmitrymomot/tenantkit/handler"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/svc/company"
)

// Page sizes of list requests. Larger limits are clamped to MaxPageSize.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Service is the part of company.Service used by this module.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error)
	GetByID(ctx context.Context, id int64) (*tenant.Tenant, error)
	Create(ctx context.Context, in company.Input) (*tenant.Tenant, error)
	Update(ctx context.Context, id int64, in company.Input) (*tenant.Tenant, error)
	Delete(ctx context.Context, id int64) error
}

type Module struct {
	svc          Service
	errorHandler handler.ErrorHandler
}

func New(svc Service, errorHandler handler.ErrorHandler) *Module {
	return &Module{svc: svc, errorHandler: errorHandler}
}

// Handle serves the company admin API.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(m.list,
		handler.WithBinders[ListRequest](binder.Query()),
		handler.WithErrorHandler[ListRequest](m.errorHandler),
	))
	r.Post("/", handler.Wrap(m.create,
		handler.WithBinders[WriteRequest](binder.JSON()),
		handler.WithErrorHandler[WriteRequest](m.errorHandler),
	))
	r.Get("/{id}", handler.Wrap(m.show,
		handler.WithBinders[IDRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[IDRequest](m.errorHandler),
	))
	r.Put("/{id}", handler.Wrap(m.update,
		handler.WithBinders[WriteRequest](binder.Path(chi.URLParam), binder.JSON()),
		handler.WithErrorHandler[WriteRequest](m.errorHandler),
	))
	r.Delete("/{id}", handler.Wrap(m.destroy,
		handler.WithBinders[IDRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[IDRequest](m.errorHandler),
	))

	return r
}

// Me serves the company active for the request.
func (m *Module) Me() http.Handler {
	return handler.Wrap(m.current, handler.WithErrorHandler[struct{}](m.errorHandler))
}

type ListRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

type IDRequest struct {
	ID int64 `path:"id"`
}

type WriteRequest struct {
	ID int64 `path:"id" json:"-"`
	company.Input
}

func (m *Module) list(ctx handler.Context, req ListRequest) handler.Response {
	if req.Limit <= 0 {
		req.Limit = DefaultPageSize
	}
	req.Limit = min(req.Limit, MaxPageSize)
	all, err := m.svc.List(ctx, req.Limit, max(req.Offset, 0))
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(all, handler.WithJSONMeta(map[string]any{
		"limit":  req.Limit,
		"offset": req.Offset,
		"count":  len(all),
	}))
}

func (m *Module) create(ctx handler.Context, req WriteRequest) handler.Response {
	in := req.Normalize()
	if err := handler.ValidationErrorFrom(in.Problems()); err != nil {
		return handler.Fail(err)
	}
	c, err := m.svc.Create(ctx, in)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(c, handler.WithJSONStatus(http.StatusCreated))
}

func (m *Module) show(ctx handler.Context, req IDRequest) handler.Response {
	c, err := m.svc.GetByID(ctx, req.ID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(c)
}

func (m *Module) update(ctx handler.Context, req WriteRequest) handler.Response {
	in := req.Normalize()
	if err := handler.ValidationErrorFrom(in.Problems()); err != nil {
		return handler.Fail(err)
	}
	c, err := m.svc.Update(ctx, req.ID, in)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(c)
}

func (m *Module) destroy(ctx handler.Context, req IDRequest) handler.Response {
	if err := m.svc.Delete(ctx, req.ID); err != nil {
		return handler.Fail(err)
	}
	return handler.Empty()
}

func (m *Module) current(ctx handler.Context, _ struct{}) handler.Response {
	c, ok := tenant.FromContext(ctx)
	if !ok {
		return handler.Fail(tenant.ErrTenantNotFound)
	}
	return handler.JSON(c)
}

// RequireAdminKey rejects requests whose X-Admin-Key header does not match key.
func RequireAdminKey(key string, errorHandler handler.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Admin-Key")
			if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				errorHandler(handler.NewContext(w, r), handler.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ErrorMappers translate company errors.
func ErrorMappers() []handler.ErrorMapper {
	return []handler.ErrorMapper{
		handler.MapErrorTo(company.ErrNotFound, handler.ErrNotFound.WithMessage("Company not found")),
		handler.MapErrorTo(company.ErrEmailTaken, handler.ErrConflict.WithMessage("Company email already registered")),
		handler.MapErrorTo(company.ErrInvalid, handler.ErrUnprocessableEntity),
	}
}

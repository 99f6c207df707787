// Package users exposes the active company's users over HTTP. Mount it
// behind tenant.Middleware; every handler reads and writes within the
// request's company only.
package users

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tenantkit/binder"
	"github.com/dmitrymomot/tenantkit/handler"
	"github.com/dmitrymomot/tenantkit/pkg/scope"
	"github.com/dmitrymomot/tenantkit/svc/user"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Service is the part of user.Service used by this module.
type Service interface {
	List(ctx context.Context, limit, offset uint64) ([]*user.User, error)
	Get(ctx context.Context, id int64) (*user.User, error)
	Create(ctx context.Context, in user.Input) (*user.User, error)
	Delete(ctx context.Context, id int64) error
}

type Module struct {
	svc          Service
	errorHandler handler.ErrorHandler
}

func New(svc Service, errorHandler handler.ErrorHandler) *Module {
	return &Module{svc: svc, errorHandler: errorHandler}
}

func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(m.list,
		handler.WithBinders[ListRequest](binder.Query()),
		handler.WithErrorHandler[ListRequest](m.errorHandler),
	))
	r.Post("/", handler.Wrap(m.create,
		handler.WithBinders[CreateRequest](binder.JSON()),
		handler.WithErrorHandler[CreateRequest](m.errorHandler),
	))
	r.Get("/{id}", handler.Wrap(m.show,
		handler.WithBinders[IDRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[IDRequest](m.errorHandler),
	))
	r.Delete("/{id}", handler.Wrap(m.destroy,
		handler.WithBinders[IDRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[IDRequest](m.errorHandler),
	))

	return r
}

type ListRequest struct {
	Limit  uint64 `query:"limit"`
	Offset uint64 `query:"offset"`
}

type CreateRequest struct {
	user.Input
}

type IDRequest struct {
	ID int64 `path:"id"`
}

func (m *Module) list(ctx handler.Context, req ListRequest) handler.Response {
	if req.Limit == 0 {
		req.Limit = DefaultPageSize
	}
	req.Limit = min(req.Limit, MaxPageSize)
	all, err := m.svc.List(ctx, req.Limit, req.Offset)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(all, handler.WithJSONMeta(map[string]any{
		"limit":  req.Limit,
		"offset": req.Offset,
		"count":  len(all),
	}))
}

func (m *Module) create(ctx handler.Context, req CreateRequest) handler.Response {
	in := req.Normalize()
	if err := handler.ValidationErrorFrom(in.Problems()); err != nil {
		return handler.Fail(err)
	}
	u, err := m.svc.Create(ctx, in)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(u, handler.WithJSONStatus(http.StatusCreated))
}

func (m *Module) show(ctx handler.Context, req IDRequest) handler.Response {
	u, err := m.svc.Get(ctx, req.ID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(u)
}

func (m *Module) destroy(ctx handler.Context, req IDRequest) handler.Response {
	if err := m.svc.Delete(ctx, req.ID); err != nil {
		return handler.Fail(err)
	}
	return handler.Empty()
}

// ErrorMappers translate user and scope errors.
func ErrorMappers() []handler.ErrorMapper {
	return []handler.ErrorMapper{
		handler.MapErrorTo(user.ErrNotFound, handler.ErrNotFound.WithMessage("User not found")),
		handler.MapErrorTo(user.ErrEmailTaken, handler.ErrConflict.WithMessage("User email already registered")),
		handler.MapErrorTo(user.ErrInvalid, handler.ErrUnprocessableEntity),
		handler.MapErrorTo(scope.ErrCrossTenantWrite, handler.ErrForbidden),
	}
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/tenantkit/handler"
	"github.com/dmitrymomot/tenantkit/modules/account"
	"github.com/dmitrymomot/tenantkit/modules/companies"
	"github.com/dmitrymomot/tenantkit/modules/users"
	"github.com/dmitrymomot/tenantkit/pkg/clientip"
	"github.com/dmitrymomot/tenantkit/pkg/httpserver"
	"github.com/dmitrymomot/tenantkit/pkg/ratelimiter"
	"github.com/dmitrymomot/tenantkit/pkg/requestid"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/svc/auth"
)

func (a *app) router() http.Handler {
	var mappers []handler.ErrorMapper
	mappers = append(mappers, account.ErrorMappers()...)
	mappers = append(mappers, companies.ErrorMappers()...)
	mappers = append(mappers, users.ErrorMappers()...)
	mappers = append(mappers, handler.MapErrorTo(ratelimiter.ErrLimited, handler.ErrTooManyRequests))
	eh := handler.NewErrorHandler(a.log, mappers...)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(a.metrics.Instrument)

	r.Get("/health/live", httpserver.HealthCheckHandler(a.log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(a.log, a.readiness...))
	r.Method(http.MethodGet, "/metrics", a.metrics.Handler())

	r.Group(func(r chi.Router) {
		if a.loginLimiter != nil {
			r.Use(ratelimiter.Middleware(a.loginLimiter, ratelimiter.ByClientIP(), eh.ServeError))
		}
		r.Mount("/", account.Router(account.RouterOptions{
			Password: account.NewPasswordService(a.auth, eh),
		}))
	})

	companyModule := companies.New(a.companies, eh)
	if a.cfg.AdminKey != "" {
		r.With(companies.RequireAdminKey(a.cfg.AdminKey, eh)).
			Mount("/companies", companyModule.Handle())
	} else {
		a.log.Warn("APP_ADMIN_KEY is empty, company admin API disabled")
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(a.auth, eh.ServeError))
		r.Use(tenant.Middleware(auth.TenantResolver(), a.companies,
			tenant.WithCache(a.cache),
			tenant.WithCacheTTL(a.cfg.TenantCacheTTL),
			tenant.WithErrorHandler(eh.ServeError),
			tenant.WithLogger(a.log),
		))
		if a.apiLimiter != nil {
			r.Use(ratelimiter.Middleware(a.apiLimiter, ratelimiter.ByTenant(), eh.ServeError))
		}
		r.Mount("/users", users.New(a.users, eh).Handle())
		r.Method(http.MethodGet, "/me/company", companyModule.Me())
	})

	return r
}

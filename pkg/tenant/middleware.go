package tenant

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// Middleware resolves the tenant of the request's principal, installs it for
// the downstream handler and clears it once the handler returns or panics.
//
// A request with no principal, or whose principal has no tenant, never
// reaches next: the error handler receives ErrTenantNotFound.
func Middleware(resolver Resolver, loader Loader, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		cache:        NewNoOpCache(),
		cacheTTL:     DefaultCacheTTL,
		errorHandler: DefaultErrorHandler,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := r.Context()

			id, err := resolver.Resolve(r)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}
			if id <= 0 {
				cfg.errorHandler(w, r, ErrTenantNotFound)
				return
			}

			t, err := load(ctx, cfg, loader, id)
			if err != nil {
				if !errors.Is(err, ErrTenantNotFound) {
					cfg.logger.ErrorContext(ctx, "failed to load tenant",
						slog.Int64("tenant_id", id),
						slog.String("error", err.Error()))
				}
				cfg.errorHandler(w, r, err)
				return
			}

			err = Run(ctx, t, func(ctx context.Context) error {
				next.ServeHTTP(w, r.WithContext(ctx))
				return nil
			})
			if err != nil {
				// Only reachable when the client went away before the handler ran.
				cfg.logger.DebugContext(ctx, "request cancelled before tenant handler",
					slog.Int64("tenant_id", id),
					slog.String("error", err.Error()))
			}
		})
	}
}

func load(ctx context.Context, cfg *config, loader Loader, id int64) (*Tenant, error) {
	if cached, ok := cfg.cache.Get(ctx, id); ok {
		return cached, nil
	}

	t, err := loader.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTenantNotFound
	}

	cfg.cache.Set(ctx, id, t, cfg.cacheTTL)
	return t, nil
}

package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// TokenResolver turns a bearer token into a Principal.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*Principal, error)
}

// Authenticate stores the principal of a valid bearer token in the request
// context. Requests without a token, or with an invalid or expired one, pass
// through without a principal; tenant.Middleware then answers them as an
// unknown company. Only lookup failures (store errors) reach onError.
func Authenticate(resolver TokenResolver, onError func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			p, err := resolver.ResolveToken(r.Context(), token)
			switch {
			case errors.Is(err, ErrInvalidToken):
				slog.DebugContext(r.Context(), "ignoring invalid bearer token",
					logger.Component("auth"), logger.Error(err))
				next.ServeHTTP(w, r)
			case err != nil:
				onError(w, r, err)
			default:
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
			}
		})
	}
}

// TenantResolver reads the company id of the request's principal. A request
// without a principal resolves to 0, which tenant.Middleware answers with
// ErrTenantNotFound.
func TenantResolver() tenant.Resolver {
	return tenant.ResolverFunc(func(r *http.Request) (int64, error) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			return 0, nil
		}
		return p.TenantID, nil
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

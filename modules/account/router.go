package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which services to mount in the account module.
// Each service is optional and only mounted if provided.
type RouterOptions struct {
	Password Mountable
}

// Router creates the account module router. It is mounted outside of the
// tenant middleware: no company is known until the caller logs in.
//
//	r.Mount("/", account.Router(account.RouterOptions{
//	    Password: account.NewPasswordService(authSvc, errorHandler),
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	if opts.Password != nil {
		r.Mount("/auth", opts.Password.Handle())
	}

	return r
}

// Package handler provides typed JSON HTTP handlers.
//
// A HandlerFunc receives a bound request struct and returns a Response.
// Wrap adapts it to http.HandlerFunc, running binders first and routing any
// binding, handler or render error through an ErrorHandler:
//
//	type CreateUserRequest struct {
//		Email string `json:"email"`
//		Name  string `json:"name"`
//	}
//
//	func createUser(ctx handler.Context, req CreateUserRequest) handler.Response {
//		u, err := users.Create(ctx, req.Email, req.Name)
//		if err != nil {
//			return handler.Fail(err)
//		}
//		return handler.JSON(u, handler.WithJSONStatus(http.StatusCreated))
//	}
//
//	r.Post("/users", handler.Wrap(createUser, handler.WithBinders[CreateUserRequest](binder.JSON())))
//
// # Errors
//
// HTTPError carries a status code, a stable key and a user facing message.
// Handlers return Fail(err) to hand an error to the ErrorHandler configured
// on Wrap. NewErrorHandler translates domain errors with ErrorMapper
// functions; anything unmapped becomes a 500 whose body never includes the
// original error text.
package handler

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

// NewErrorHandler returns an ErrorHandler that classifies errors with
// mappers, logs them and renders a JSON error body. Client errors log at
// warn, server errors at error.
func NewErrorHandler(log *slog.Logger, mappers ...ErrorMapper) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Component("http"))

	return func(ctx Context, err error) {
		h := MapError(err, mappers...)
		r := ctx.Request()

		level := slog.LevelError
		if h.Code < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		log.LogAttrs(ctx, level, "request error",
			logger.Error(err),
			slog.Int("status", h.Code),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		if renderErr := jsonError(h).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.LogAttrs(ctx, slog.LevelError, "failed to render error", logger.Error(renderErr))
		}
	}
}

func asValidation(err error, target *ValidationError) bool {
	return errors.As(err, target)
}

type failResponse struct {
	err error
}

func (f failResponse) Render(http.ResponseWriter, *http.Request) error { return f.err }

// Fail returns a Response that hands err to the ErrorHandler configured on
// Wrap, so domain errors are mapped in one place.
func Fail(err error) Response {
	if err == nil {
		err = ErrInternalServerError
	}
	return failResponse{err: err}
}

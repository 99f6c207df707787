package binder

import "errors"

var (
	ErrBinderNotApplicable  = errors.New("binder not applicable to request")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrInvalidJSON          = errors.New("invalid JSON request body")
	ErrInvalidPath          = errors.New("invalid path parameter")
	ErrInvalidQuery         = errors.New("invalid query parameter")
)

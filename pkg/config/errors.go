package config

import "errors"

var (
	ErrParsingConfig = errors.New("failed to parse config from environment")
	ErrNilPointer    = errors.New("config target must be a non-nil pointer")
	ErrLoadingEnv    = errors.New("failed to load env file")
)

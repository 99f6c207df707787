package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("ratelimiter: invalid configuration")
	ErrInvalidTokenCount = errors.New("ratelimiter: invalid token count")
	ErrLimited           = errors.New("ratelimiter: rate limit exceeded")
	ErrStoreUnavailable  = errors.New("ratelimiter: store unavailable")
)

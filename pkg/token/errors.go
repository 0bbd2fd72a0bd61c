package token

import "errors"

var (
	ErrMissingSecret = errors.New("token: signing secret is required")
	ErrInvalidTTL    = errors.New("token: ttl must be positive")
	ErrExpired       = errors.New("token: expired")
	ErrMalformed     = errors.New("token: malformed or invalid signature")
)

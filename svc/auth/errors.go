package auth

import "errors"

var (
	ErrBadRequest       = errors.New("auth: bad request")
	ErrIPUnresolved     = errors.New("auth: client ip could not be resolved")
	ErrNotFound         = errors.New("auth: person not found")
	ErrUnauthorized     = errors.New("auth: invalid credentials")
	ErrUnauthenticated  = errors.New("auth: not authenticated")
	ErrPendingExpired   = errors.New("auth: second factor window expired")
	ErrPasswordTooShort = errors.New("auth: password too short")
)

package recovery

import "errors"

var (
	ErrNotFound    = errors.New("recovery: token not found")
	ErrAlreadyUsed = errors.New("recovery: token already used")
	ErrExpired     = errors.New("recovery: token expired")
	ErrEmptyToken  = errors.New("recovery: token is required")
)

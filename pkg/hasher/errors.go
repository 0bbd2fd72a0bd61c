package hasher

import "errors"

var (
	ErrMissingPepper = errors.New("hasher: pepper is required")
	ErrInvalidCost   = errors.New("hasher: bcrypt cost out of range")
	ErrEmptyInput    = errors.New("hasher: input must not be empty")
)

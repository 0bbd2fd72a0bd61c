package otp

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Code is a stored one-time code. CodeDigest never holds the plaintext.
type Code struct {
	ID         uuid.UUID
	PersonID   uuid.UUID
	CodeDigest string
	ExpiresAt  time.Time
	Attempts   int
	Used       bool
	CreatedAt  time.Time
}

// Expired reports whether the code is at or past its expiry at now.
func (c Code) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Store persists codes.
//
// FindCurrentCode returns the most recently created not-used code of the
// person or ErrNotFound.
//
// IncrementAttempts atomically adds one to the attempts of a not-used row
// whose attempts are below maxAttempts and returns the new count. It returns
// ErrTooManyAttempts when the budget is spent. A row that is used or missing
// yields ErrNotFound, or ErrTooManyAttempts when the store cannot tell the
// cases apart.
//
// MarkCodeUsed sets used on a not-used row and returns ErrNotFound otherwise.
type Store interface {
	CreateCode(ctx context.Context, code Code) error
	FindCurrentCode(ctx context.Context, personID uuid.UUID) (Code, error)
	IncrementAttempts(ctx context.Context, id uuid.UUID, maxAttempts int) (int, error)
	MarkCodeUsed(ctx context.Context, id uuid.UUID) error
}

// Hasher turns plaintext codes into digests and checks them.
type Hasher interface {
	HashCode(plaintext string) (string, error)
	VerifyCode(plaintext, digest string) bool
}

// Issued describes a freshly delivered code.
type Issued struct {
	ExpiresAt time.Time
}

package recovery

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Token is a stored reset capability. UsedAt is nil while the token is active.
type Token struct {
	ID          uuid.UUID
	PersonID    uuid.UUID
	TokenDigest string
	ExpiresAt   time.Time
	RequesterIP string
	UsedAt      *time.Time
	CreatedAt   time.Time
}

// Used reports whether the token was consumed or superseded.
func (t Token) Used() bool { return t.UsedAt != nil }

// Expired reports whether the token is at or past its expiry at now.
func (t Token) Expired(now time.Time) bool { return !now.Before(t.ExpiresAt) }

// Store persists reset tokens.
//
// FindTokenByDigest returns ErrNotFound for an unknown digest. MarkTokenUsed
// sets used_at only when it is still nil and returns ErrNotFound for an
// unknown id.
type Store interface {
	InvalidateActiveTokens(ctx context.Context, personID uuid.UUID, at time.Time) error
	CreateToken(ctx context.Context, token Token) error
	FindTokenByDigest(ctx context.Context, digest string) (Token, error)
	MarkTokenUsed(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Keyer derives the lookup digest of a plaintext token.
type Keyer interface {
	Keyed(plaintext string) string
}

// Issued is returned once per token. Token is the only copy of the plaintext.
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

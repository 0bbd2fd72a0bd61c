package hasher

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords, one-time codes and keyed secrets.
// It is safe for concurrent use.
type Hasher struct {
	pepper []byte
	cost   int
}

// New creates a Hasher from cfg. A zero BcryptCost falls back to bcrypt.DefaultCost.
func New(cfg Config) (*Hasher, error) {
	if cfg.Pepper == "" {
		return nil, ErrMissingPepper
	}

	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCost, cost)
	}

	return &Hasher{
		pepper: []byte(cfg.Pepper),
		cost:   cost,
	}, nil
}

// MustNew is like New but panics on invalid configuration.
func MustNew(cfg Config) *Hasher {
	h, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return h
}

// HashPassword returns a salted bcrypt digest of the peppered password.
func (h *Hasher) HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyInput
	}
	return h.bcrypt(h.Keyed(plaintext))
}

// VerifyPassword reports whether plaintext matches a digest made by HashPassword.
func (h *Hasher) VerifyPassword(plaintext, digest string) bool {
	if plaintext == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(h.Keyed(plaintext))) == nil
}

// HashCode returns a salted bcrypt digest of a one-time code. No pepper is mixed in.
func (h *Hasher) HashCode(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyInput
	}
	return h.bcrypt(plaintext)
}

// VerifyCode reports whether plaintext matches a digest made by HashCode.
func (h *Hasher) VerifyCode(plaintext, digest string) bool {
	if plaintext == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// Keyed returns the hex HMAC-SHA256 of plaintext under the pepper.
// The result is deterministic and 64 characters long, which also keeps the
// bcrypt input below its 72 byte limit.
func (h *Hasher) Keyed(plaintext string) string {
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil))
}

// EqualKeyed compares two keyed digests in constant time.
func EqualKeyed(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}

func (h *Hasher) bcrypt(input string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(input), h.cost)
	if err != nil {
		return "", fmt.Errorf("hasher: bcrypt: %w", err)
	}
	return string(digest), nil
}

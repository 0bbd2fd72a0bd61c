package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issued is a signed token value and the moment it stops verifying.
type Issued struct {
	Value     string
	ExpiresAt time.Time
}

// Options configures a Codec.
type Options struct {
	Secret   string
	TTL      time.Duration
	Audience string
	Issuer   string
	// Clock overrides time.Now, mainly for tests.
	Clock func() time.Time
}

type claims[T any] struct {
	Data T `json:"data"`
	jwt.RegisteredClaims
}

// Codec issues and verifies tokens carrying a payload of type T.
type Codec[T any] struct {
	key      []byte
	ttl      time.Duration
	audience string
	issuer   string
	now      func() time.Time
}

// New creates a Codec. Secret must be non-empty and TTL positive.
func New[T any](opts Options) (*Codec[T], error) {
	if opts.Secret == "" {
		return nil, ErrMissingSecret
	}
	if opts.TTL <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTTL, opts.TTL)
	}

	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	return &Codec[T]{
		key:      []byte(opts.Secret),
		ttl:      opts.TTL,
		audience: opts.Audience,
		issuer:   opts.Issuer,
		now:      now,
	}, nil
}

// TTL returns the lifetime of tokens issued by this codec.
func (c *Codec[T]) TTL() time.Duration {
	return c.ttl
}

// Issue signs payload with an expiry of now plus the codec TTL.
func (c *Codec[T]) Issue(payload T) (Issued, error) {
	now := c.now()
	expiresAt := now.Add(c.ttl)

	rc := jwt.RegisteredClaims{
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	if c.audience != "" {
		rc.Audience = jwt.ClaimStrings{c.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims[T]{
		Data:             payload,
		RegisteredClaims: rc,
	}).SignedString(c.key)
	if err != nil {
		return Issued{}, fmt.Errorf("token: sign: %w", err)
	}

	// NumericDate truncates to seconds, report what the token actually carries
	return Issued{Value: signed, ExpiresAt: rc.ExpiresAt.Time}, nil
}

// Verify checks signature, algorithm, audience and expiry and returns the payload.
func (c *Codec[T]) Verify(value string) (T, error) {
	var zero T
	if value == "" {
		return zero, ErrMalformed
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(c.audience))
	}
	if c.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(c.issuer))
	}

	var parsed claims[T]
	_, err := jwt.ParseWithClaims(value, &parsed, func(*jwt.Token) (any, error) {
		return c.key, nil
	}, parserOpts...)
	switch {
	case err == nil:
		return parsed.Data, nil
	case errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return zero, ErrExpired
	default:
		return zero, errors.Join(ErrMalformed, err)
	}
}

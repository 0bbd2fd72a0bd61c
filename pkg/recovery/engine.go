package recovery

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cargohub/authcore/pkg/logger"
)

const tokenBytes = 32

// Engine issues, validates and consumes reset tokens.
type Engine struct {
	store  Store
	keyer  Keyer
	ttl    time.Duration
	now    func() time.Time
	random io.Reader
	logger *slog.Logger
}

type Option func(*Engine)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates an Engine.
func NewEngine(store Store, keyer Keyer, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		keyer:  keyer,
		ttl:    DefaultTTL,
		now:    time.Now,
		random: rand.Reader,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(logger.Component("recovery"))
	return e
}

// TTL returns the lifetime of issued tokens.
func (e *Engine) TTL() time.Duration { return e.ttl }

// Issue revokes the active tokens of personID and stores a new one.
func (e *Engine) Issue(ctx context.Context, personID uuid.UUID, requesterIP string) (Issued, error) {
	raw := make([]byte, tokenBytes)
	if _, err := io.ReadFull(e.random, raw); err != nil {
		return Issued{}, fmt.Errorf("recovery: generate token: %w", err)
	}
	plaintext := base64.RawURLEncoding.EncodeToString(raw)

	now := e.now()
	if err := e.store.InvalidateActiveTokens(ctx, personID, now); err != nil {
		return Issued{}, fmt.Errorf("recovery: invalidate active tokens: %w", err)
	}

	t := Token{
		ID:          uuid.New(),
		PersonID:    personID,
		TokenDigest: e.keyer.Keyed(plaintext),
		ExpiresAt:   now.Add(e.ttl),
		RequesterIP: requesterIP,
		CreatedAt:   now,
	}
	if err := e.store.CreateToken(ctx, t); err != nil {
		return Issued{}, fmt.Errorf("recovery: store token: %w", err)
	}

	e.logger.InfoContext(ctx, "reset token issued",
		logger.Event("recovery.issued"),
		logger.PersonID(personID),
		logger.ClientIP(requesterIP),
	)
	return Issued{Token: plaintext, ExpiresAt: t.ExpiresAt}, nil
}

// Validate returns the stored record of an active, unexpired token.
func (e *Engine) Validate(ctx context.Context, plaintext string) (Token, error) {
	t, err := e.find(ctx, plaintext)
	if err != nil {
		return Token{}, err
	}
	if t.Used() {
		return Token{}, ErrAlreadyUsed
	}
	if t.Expired(e.now()) {
		return Token{}, ErrExpired
	}
	return t, nil
}

// Consume marks the token used. A token that is already used keeps its first used_at.
func (e *Engine) Consume(ctx context.Context, plaintext string) error {
	t, err := e.find(ctx, plaintext)
	if err != nil {
		return err
	}
	if t.Used() {
		return nil
	}
	if err := e.store.MarkTokenUsed(ctx, t.ID, e.now()); err != nil {
		return fmt.Errorf("recovery: mark token used: %w", err)
	}
	e.logger.InfoContext(ctx, "reset token consumed",
		logger.Event("recovery.consumed"),
		logger.PersonID(t.PersonID),
	)
	return nil
}

func (e *Engine) find(ctx context.Context, plaintext string) (Token, error) {
	if plaintext == "" {
		return Token{}, ErrEmptyToken
	}
	t, err := e.store.FindTokenByDigest(ctx, e.keyer.Keyed(plaintext))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Token{}, ErrNotFound
		}
		return Token{}, fmt.Errorf("recovery: find token: %w", err)
	}
	return t, nil
}

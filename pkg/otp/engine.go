package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/cargohub/authcore/pkg/email"
	"github.com/cargohub/authcore/pkg/logger"
)

// Engine issues and verifies one-time codes.
type Engine struct {
	store       Store
	hasher      Hasher
	sender      email.EmailSender
	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
	random      io.Reader
	logger      *slog.Logger
}

type Option func(*Engine)

// WithConfig applies non-zero values from cfg.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		if cfg.TTL > 0 {
			e.ttl = cfg.TTL
		}
		if cfg.MaxAttempts > 0 {
			e.maxAttempts = cfg.MaxAttempts
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

// WithRandom replaces crypto/rand as the digit source.
func WithRandom(r io.Reader) Option {
	return func(e *Engine) {
		e.random = r
	}
}

// NewEngine creates an Engine with a 10 minute TTL and 5 attempts unless overridden.
func NewEngine(store Store, hasher Hasher, sender email.EmailSender, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		hasher:      hasher,
		sender:      sender,
		ttl:         DefaultTTL,
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
		random:      rand.Reader,
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(logger.Component("otp"))
	return e
}

// TTL returns the lifetime of issued codes.
func (e *Engine) TTL() time.Duration { return e.ttl }

// MaxAttempts returns the wrong-guess budget per code.
func (e *Engine) MaxAttempts() int { return e.maxAttempts }

// Issue creates a new current code for personID and emails it to address.
// The row is kept when delivery fails; the error then wraps ErrDelivery.
func (e *Engine) Issue(ctx context.Context, personID uuid.UUID, address string) (Issued, error) {
	plaintext, err := e.generate()
	if err != nil {
		return Issued{}, fmt.Errorf("otp: generate code: %w", err)
	}

	digest, err := e.hasher.HashCode(plaintext)
	if err != nil {
		return Issued{}, fmt.Errorf("otp: hash code: %w", err)
	}

	now := e.now()
	code := Code{
		ID:         uuid.New(),
		PersonID:   personID,
		CodeDigest: digest,
		ExpiresAt:  now.Add(e.ttl),
		CreatedAt:  now,
	}
	if err := e.store.CreateCode(ctx, code); err != nil {
		return Issued{}, fmt.Errorf("otp: store code: %w", err)
	}

	msg, err := codeMessage(ctx, address, plaintext, e.ttl)
	if err != nil {
		return Issued{}, errors.Join(ErrDelivery, err)
	}
	if err := e.sender.SendEmail(ctx, msg); err != nil {
		e.logger.ErrorContext(ctx, "code delivery failed",
			logger.PersonID(personID),
			logger.Error(err),
		)
		return Issued{}, errors.Join(ErrDelivery, err)
	}

	e.logger.InfoContext(ctx, "code issued",
		logger.Event("otp.issued"),
		logger.PersonID(personID),
	)
	return Issued{ExpiresAt: code.ExpiresAt}, nil
}

// FindCurrent returns the code Verify would check for personID.
func (e *Engine) FindCurrent(ctx context.Context, personID uuid.UUID) (Code, error) {
	code, err := e.store.FindCurrentCode(ctx, personID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Code{}, ErrNotFound
		}
		return Code{}, fmt.Errorf("otp: find current code: %w", err)
	}
	return code, nil
}

// Verify checks submitted against the current code of personID.
// A wrong guess returns *AttemptsError.
//
// Each comparison first reserves one attempt in the store, so concurrent
// guesses never exceed the budget. The reservation made by a matching guess
// stays recorded on the consumed row.
func (e *Engine) Verify(ctx context.Context, personID uuid.UUID, submitted string) error {
	if submitted == "" {
		return ErrEmptyCode
	}

	code, err := e.FindCurrent(ctx, personID)
	if err != nil {
		return e.rejected(ctx, personID, err)
	}
	if code.Expired(e.now()) {
		return e.rejected(ctx, personID, ErrExpired)
	}
	if code.Attempts >= e.maxAttempts {
		return e.rejected(ctx, personID, ErrTooManyAttempts)
	}

	attempts, err := e.store.IncrementAttempts(ctx, code.ID, e.maxAttempts)
	switch {
	case errors.Is(err, ErrTooManyAttempts):
		return e.rejected(ctx, personID, ErrTooManyAttempts)
	case errors.Is(err, ErrNotFound):
		// consumed concurrently
		return e.rejected(ctx, personID, ErrNotFound)
	case err != nil:
		return fmt.Errorf("otp: record attempt: %w", err)
	}

	if !e.hasher.VerifyCode(submitted, code.CodeDigest) {
		return e.rejected(ctx, personID, &AttemptsError{Attempts: attempts, MaxAttempts: e.maxAttempts})
	}

	if err := e.store.MarkCodeUsed(ctx, code.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return e.rejected(ctx, personID, ErrNotFound)
		}
		return fmt.Errorf("otp: mark code used: %w", err)
	}

	e.logger.InfoContext(ctx, "code verified",
		logger.Event("otp.verified"),
		logger.PersonID(personID),
	)
	return nil
}

func (e *Engine) rejected(ctx context.Context, personID uuid.UUID, err error) error {
	reason := ReasonOf(err)
	if reason == ReasonInternal {
		return err
	}
	attrs := []any{logger.Event("otp.rejected"), logger.PersonID(personID), logger.Reason(string(reason))}
	var ae *AttemptsError
	if errors.As(err, &ae) {
		attrs = append(attrs, logger.Attempts(ae.Attempts))
	}
	e.logger.WarnContext(ctx, "code rejected", attrs...)
	return err
}

func (e *Engine) generate() (string, error) {
	n, err := rand.Int(e.random, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}

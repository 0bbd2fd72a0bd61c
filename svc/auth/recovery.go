package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/cargohub/authcore/pkg/email"
	"github.com/cargohub/authcore/pkg/logger"
	"github.com/cargohub/authcore/pkg/recovery"
	"github.com/cargohub/authcore/pkg/validator"
)

// ConfirmInput completes a password reset.
type ConfirmInput struct {
	Token    string
	Password string
}

// RecoveryService handles password reset requests and confirmations.
type RecoveryService struct {
	persons     PersonStore
	hasher      PasswordHasher
	tokens      ResetTokens
	sender      email.EmailSender
	resetURL    *url.URL
	tokenTTL    time.Duration
	minPassword int
	logger      *slog.Logger
}

type RecoveryOption func(*RecoveryService)

func WithRecoveryLogger(l *slog.Logger) RecoveryOption {
	return func(s *RecoveryService) {
		s.logger = l
	}
}

// WithMinPasswordLength overrides DefaultMinPasswordLength. Values below 1 are ignored.
func WithMinPasswordLength(n int) RecoveryOption {
	return func(s *RecoveryService) {
		if n > 0 {
			s.minPassword = n
		}
	}
}

// WithTokenTTL sets the lifetime stated in reset emails. It should match the engine TTL.
func WithTokenTTL(ttl time.Duration) RecoveryOption {
	return func(s *RecoveryService) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// NewRecoveryService creates a RecoveryService. resetURL is the page that
// receives the token as its "token" query parameter.
func NewRecoveryService(
	persons PersonStore,
	hasher PasswordHasher,
	tokens ResetTokens,
	sender email.EmailSender,
	resetURL string,
	opts ...RecoveryOption,
) (*RecoveryService, error) {
	u, err := url.Parse(resetURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("auth: invalid reset url %q", resetURL)
	}

	s := &RecoveryService{
		persons:     persons,
		hasher:      hasher,
		tokens:      tokens,
		sender:      sender,
		resetURL:    u,
		tokenTTL:    recovery.DefaultTTL,
		minPassword: DefaultMinPasswordLength,
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("recovery"))
	return s, nil
}

// Request emails a reset link when email belongs to a person with access.
// Unknown addresses return nil without side effects so callers answer identically.
func (s *RecoveryService) Request(ctx context.Context, address, requesterIP string) error {
	address = strings.TrimSpace(address)
	if err := validator.Apply(
		validator.Required("email", address),
		validator.MaxLen("email", address, MaxEmailLength),
		validator.Email("email", address),
	); err != nil {
		return errors.Join(ErrBadRequest, err)
	}

	person, err := s.persons.FindPersonByEmail(ctx, address)
	switch {
	case errors.Is(err, ErrNotFound):
		s.logger.InfoContext(ctx, "reset requested for unknown account",
			logger.Event("recovery.unknown"),
			logger.ClientIP(requesterIP),
		)
		return nil
	case err != nil:
		return fmt.Errorf("recovery: find person: %w", err)
	case person.Access == nil:
		s.logger.InfoContext(ctx, "reset requested for person without access",
			logger.Event("recovery.no_access"),
			logger.PersonID(person.ID),
		)
		return nil
	}

	issued, err := s.tokens.Issue(ctx, person.ID, requesterIP)
	if err != nil {
		return fmt.Errorf("recovery: issue token: %w", err)
	}

	msg, err := resetMessage(ctx, person.Email, s.link(issued.Token), s.tokenTTL)
	if err != nil {
		return fmt.Errorf("recovery: render message: %w", err)
	}
	if err := s.sender.SendEmail(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "reset email failed",
			logger.PersonID(person.ID),
			logger.Error(err),
		)
		return fmt.Errorf("recovery: send email: %w", err)
	}

	s.logger.InfoContext(ctx, "reset requested",
		logger.Event("recovery.requested"),
		logger.PersonID(person.ID),
		logger.ClientIP(requesterIP),
	)
	return nil
}

// Confirm stores a new password for the owner of a valid token and then
// consumes the token. Token failures are the recovery package errors.
// Existing sessions are not revoked.
func (s *RecoveryService) Confirm(ctx context.Context, in ConfirmInput) error {
	in.Token = strings.TrimSpace(in.Token)
	if err := validator.Apply(
		validator.Required("token", in.Token),
		validator.Required("password", in.Password),
	); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	if err := validator.Apply(validator.MaxLen("password", in.Password, MaxPasswordLength)); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	if err := validator.Apply(validator.MinLen("password", in.Password, s.minPassword)); err != nil {
		return errors.Join(ErrPasswordTooShort, err)
	}

	t, err := s.tokens.Validate(ctx, in.Token)
	if err != nil {
		reason := resetReason(err)
		if reason == "" {
			return fmt.Errorf("recovery: validate token: %w", err)
		}
		s.logger.WarnContext(ctx, "reset token rejected",
			logger.Event("recovery.rejected"),
			logger.Reason(reason),
		)
		return err
	}

	digest, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("recovery: hash password: %w", err)
	}
	err = s.persons.UpdatePasswordDigest(ctx, t.PersonID, digest)
	switch {
	case errors.Is(err, ErrNotFound):
		// access was removed after the token was issued
		s.logger.WarnContext(ctx, "reset token rejected",
			logger.Event("recovery.rejected"),
			logger.Reason("no_access"),
			logger.PersonID(t.PersonID),
		)
		return recovery.ErrNotFound
	case err != nil:
		return fmt.Errorf("recovery: update password: %w", err)
	}
	if err := s.tokens.Consume(ctx, in.Token); err != nil {
		return fmt.Errorf("recovery: consume token: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset",
		logger.Event("recovery.password_reset"),
		logger.PersonID(t.PersonID),
	)
	return nil
}

func (s *RecoveryService) link(plaintext string) string {
	u := *s.resetURL
	q := u.Query()
	q.Set("token", plaintext)
	u.RawQuery = q.Encode()
	return u.String()
}

func resetReason(err error) string {
	switch {
	case errors.Is(err, recovery.ErrNotFound), errors.Is(err, recovery.ErrEmptyToken):
		return "not_found"
	case errors.Is(err, recovery.ErrAlreadyUsed):
		return "already_used"
	case errors.Is(err, recovery.ErrExpired):
		return "expired"
	}
	return ""
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cargohub/authcore/pkg/logger"
	"github.com/cargohub/authcore/pkg/otp"
	"github.com/cargohub/authcore/pkg/token"
	"github.com/cargohub/authcore/pkg/validator"
)

// LoginInput is the first login step.
type LoginInput struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResult carries the pending second factor token. No session exists yet.
type LoginResult struct {
	Pending       token.Issued
	CodeExpiresAt time.Time
}

// VerifyCodeInput is the second login step.
type VerifyCodeInput struct {
	PendingToken string
	Code         string
	ClientIP     string
}

// VerifyCodeResult carries the session token and the identity it encodes.
type VerifyCodeResult struct {
	Session  token.Issued
	Identity token.Session
}

// LoginService drives the credentials, code and session steps of login.
type LoginService struct {
	persons  PersonStore
	hasher   PasswordHasher
	codes    CodeIssuer
	pending  TokenCodec[token.Pending]
	sessions TokenCodec[token.Session]
	logger   *slog.Logger
}

type LoginOption func(*LoginService)

func WithLoginLogger(l *slog.Logger) LoginOption {
	return func(s *LoginService) {
		s.logger = l
	}
}

// NewLoginService creates a LoginService.
func NewLoginService(
	persons PersonStore,
	hasher PasswordHasher,
	codes CodeIssuer,
	pending TokenCodec[token.Pending],
	sessions TokenCodec[token.Session],
	opts ...LoginOption,
) *LoginService {
	s := &LoginService{
		persons:  persons,
		hasher:   hasher,
		codes:    codes,
		pending:  pending,
		sessions: sessions,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("login"))
	return s
}

// Login checks credentials, then issues a pending token and emails a code.
// An unknown email yields ErrNotFound and a wrong password ErrUnauthorized.
func (s *LoginService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validator.Apply(
		validator.Required("email", in.Email),
		validator.MaxLen("email", in.Email, MaxEmailLength),
		validator.Email("email", in.Email),
		validator.Required("password", in.Password),
		validator.MaxLen("password", in.Password, MaxPasswordLength),
	); err != nil {
		return LoginResult{}, errors.Join(ErrBadRequest, err)
	}
	if in.ClientIP == "" {
		return LoginResult{}, ErrIPUnresolved
	}

	person, err := s.persons.FindPersonByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, ErrNotFound):
		s.reject(ctx, "not_found", in.ClientIP)
		return LoginResult{}, ErrNotFound
	case err != nil:
		return LoginResult{}, fmt.Errorf("login: find person: %w", err)
	case person.Access == nil:
		s.reject(ctx, "no_access", in.ClientIP, logger.PersonID(person.ID))
		return LoginResult{}, ErrNotFound
	}

	if !s.hasher.VerifyPassword(in.Password, person.Access.PasswordDigest) {
		s.reject(ctx, "wrong_password", in.ClientIP, logger.PersonID(person.ID))
		return LoginResult{}, ErrUnauthorized
	}

	pending, err := s.pending.Issue(token.Pending{PersonID: person.ID})
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: issue pending token: %w", err)
	}

	issued, err := s.codes.Issue(ctx, person.ID, person.Email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: issue code: %w", err)
	}

	s.logger.InfoContext(ctx, "credentials accepted",
		logger.Event("login.credentials_ok"),
		logger.PersonID(person.ID),
		logger.ClientIP(in.ClientIP),
	)
	return LoginResult{Pending: pending, CodeExpiresAt: issued.ExpiresAt}, nil
}

// VerifyCode checks the code bound to a pending token and issues a session.
// Code failures are the otp package errors. The caller discards the pending
// token on success.
func (s *LoginService) VerifyCode(ctx context.Context, in VerifyCodeInput) (VerifyCodeResult, error) {
	pending, err := s.verifyPending(in.PendingToken)
	if err != nil {
		return VerifyCodeResult{}, err
	}
	code := strings.TrimSpace(in.Code)
	if err := validator.Apply(
		validator.Required("code", code),
		validator.Digits("code", code, otp.CodeLength),
	); err != nil {
		return VerifyCodeResult{}, errors.Join(ErrBadRequest, err)
	}

	if err := s.codes.Verify(ctx, pending.PersonID, code); err != nil {
		if otp.ReasonOf(err) == otp.ReasonInternal {
			return VerifyCodeResult{}, fmt.Errorf("login: verify code: %w", err)
		}
		return VerifyCodeResult{}, err
	}

	person, err := s.persons.FindPersonByID(ctx, pending.PersonID)
	switch {
	case errors.Is(err, ErrNotFound):
		return VerifyCodeResult{}, ErrUnauthenticated
	case err != nil:
		return VerifyCodeResult{}, fmt.Errorf("login: find person: %w", err)
	case person.Access == nil:
		return VerifyCodeResult{}, ErrUnauthenticated
	}

	role, err := s.persons.ResolveRole(ctx, person.Email)
	if err != nil {
		return VerifyCodeResult{}, fmt.Errorf("login: resolve role: %w", err)
	}

	identity := token.Session{
		PersonID: person.ID,
		AccessID: person.Access.ID,
		Email:    person.Email,
		ClientIP: in.ClientIP,
		Role:     role,
	}
	session, err := s.sessions.Issue(identity)
	if err != nil {
		return VerifyCodeResult{}, fmt.Errorf("login: issue session: %w", err)
	}

	s.logger.InfoContext(ctx, "login verified",
		logger.Event("login.verified"),
		logger.PersonID(person.ID),
		logger.Role(role),
		logger.ClientIP(in.ClientIP),
	)
	return VerifyCodeResult{Session: session, Identity: identity}, nil
}

// ResendCode emails a fresh code to the holder of a valid pending token.
// The password is not checked again.
func (s *LoginService) ResendCode(ctx context.Context, pendingToken string) (otp.Issued, error) {
	pending, err := s.verifyPending(pendingToken)
	if err != nil {
		return otp.Issued{}, err
	}

	person, err := s.persons.FindPersonByID(ctx, pending.PersonID)
	switch {
	case errors.Is(err, ErrNotFound):
		return otp.Issued{}, ErrUnauthenticated
	case err != nil:
		return otp.Issued{}, fmt.Errorf("login: find person: %w", err)
	case person.Access == nil:
		return otp.Issued{}, ErrUnauthenticated
	}

	issued, err := s.codes.Issue(ctx, person.ID, person.Email)
	if err != nil {
		return otp.Issued{}, fmt.Errorf("login: reissue code: %w", err)
	}
	s.logger.InfoContext(ctx, "code resent",
		logger.Event("login.code_resent"),
		logger.PersonID(person.ID),
	)
	return issued, nil
}

// Whoami returns the identity inside a valid session token.
func (s *LoginService) Whoami(sessionToken string) (token.Session, error) {
	if sessionToken == "" {
		return token.Session{}, ErrUnauthenticated
	}
	identity, err := s.sessions.Verify(sessionToken)
	if err != nil {
		return token.Session{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return identity, nil
}

func (s *LoginService) verifyPending(value string) (token.Pending, error) {
	if value == "" {
		return token.Pending{}, ErrUnauthenticated
	}
	pending, err := s.pending.Verify(value)
	switch {
	case errors.Is(err, token.ErrExpired):
		return token.Pending{}, errors.Join(ErrUnauthenticated, ErrPendingExpired)
	case err != nil:
		return token.Pending{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return pending, nil
}

func (s *LoginService) reject(ctx context.Context, reason, clientIP string, attrs ...any) {
	attrs = append(attrs, logger.Event("login.rejected"), logger.Reason(reason), logger.ClientIP(clientIP))
	s.logger.WarnContext(ctx, "login rejected", attrs...)
}

package account

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cargohub/authcore/pkg/clientip"
	"github.com/cargohub/authcore/pkg/cookie"
	"github.com/cargohub/authcore/pkg/logger"
	"github.com/cargohub/authcore/pkg/otp"
	"github.com/cargohub/authcore/pkg/ratelimiter"
	"github.com/cargohub/authcore/pkg/token"
	"github.com/cargohub/authcore/svc/auth"
)

// LoginFlow is implemented by *auth.LoginService.
type LoginFlow interface {
	Login(ctx context.Context, in auth.LoginInput) (auth.LoginResult, error)
	VerifyCode(ctx context.Context, in auth.VerifyCodeInput) (auth.VerifyCodeResult, error)
	ResendCode(ctx context.Context, pendingToken string) (otp.Issued, error)
	Whoami(sessionToken string) (token.Session, error)
}

// RecoveryFlow is implemented by *auth.RecoveryService.
type RecoveryFlow interface {
	Request(ctx context.Context, email, requesterIP string) error
	Confirm(ctx context.Context, in auth.ConfirmInput) error
}

// Module serves the login and recovery routes.
type Module struct {
	cfg      Config
	login    LoginFlow
	recovery RecoveryFlow
	cookies  *cookie.Manager
	limiter  ratelimiter.Limiter
	logger   *slog.Logger
}

type Option func(*Module)

func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		m.logger = l
	}
}

// WithRateLimiter limits the login and recovery routes per client address.
func WithRateLimiter(l ratelimiter.Limiter) Option {
	return func(m *Module) {
		m.limiter = l
	}
}

// New creates a Module.
func New(cfg Config, login LoginFlow, recovery RecoveryFlow, cookies *cookie.Manager, opts ...Option) *Module {
	m := &Module{
		cfg:      cfg.withDefaults(),
		login:    login,
		recovery: recovery,
		cookies:  cookies,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(logger.Component("account"))
	return m
}

// Router returns the module routes.
//
//	POST /login               credentials, sets the pending cookie
//	POST /login/verify-code   code, swaps the pending cookie for a session
//	POST /login/resend-code   emails a fresh code
//	POST /logout              clears the session cookie
//	GET  /whoami              identity of the current session
//	POST /recovery/request    emails a reset link
//	POST /recovery/confirm    sets a new password
func (m *Module) Router() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		if m.limiter != nil {
			r.Use(ratelimiter.Middleware(m.limiter, rateLimitKey,
				ratelimiter.WithDeniedHandler(m.rateLimited),
				ratelimiter.WithErrorHandler(m.rateLimitFailed),
			))
		}
		r.Post("/login", m.handleLogin())
		r.Post("/login/verify-code", m.handleVerifyCode())
		r.Post("/login/resend-code", m.handleResendCode())
		r.Post("/recovery/request", m.handleRecoveryRequest())
		r.Post("/recovery/confirm", m.handleRecoveryConfirm())
	})

	r.Post("/logout", m.handleLogout())
	r.With(m.RequireSession).Get("/whoami", m.handleWhoami())

	return r
}

// RequireSession rejects requests without a valid session cookie and stores
// the session for auth.SessionFromContext.
func (m *Module) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value, _ := m.cookies.Get(r, m.cfg.SessionCookie)
		session, err := m.login.Whoami(value)
		if err != nil {
			m.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.SetSessionToContext(r.Context(), session)))
	})
}

func rateLimitKey(r *http.Request) string {
	if ip := clientip.FromContext(r.Context()); ip != "" {
		return "account:" + ip
	}
	return ""
}

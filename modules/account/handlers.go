package account

import (
	"net/http"
	"time"

	"github.com/cargohub/authcore/handler"
	"github.com/cargohub/authcore/pkg/binder"
	"github.com/cargohub/authcore/pkg/clientip"
	"github.com/cargohub/authcore/pkg/cookie"
	"github.com/cargohub/authcore/pkg/logger"
	"github.com/cargohub/authcore/pkg/token"
	"github.com/cargohub/authcore/svc/auth"
)

const pendingCookiePath = "/login"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	CodeExpiresAt time.Time `json:"code_expires_at"`
}

type verifyCodeRequest struct {
	Code string `json:"code"`
}

type resendCodeResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
}

type recoveryRequest struct {
	Email string `json:"email"`
}

type confirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type identityResponse struct {
	PersonID  string     `json:"person_id"`
	AccessID  string     `json:"access_id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	ClientIP  string     `json:"client_ip"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func identity(s token.Session, expiresAt *time.Time) identityResponse {
	return identityResponse{
		PersonID:  s.PersonID.String(),
		AccessID:  s.AccessID.String(),
		Email:     s.Email,
		Role:      s.Role,
		ClientIP:  s.ClientIP,
		ExpiresAt: expiresAt,
	}
}

func (m *Module) handleLogin() http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, req loginRequest) handler.Response {
		res, err := m.login.Login(ctx, auth.LoginInput{
			Email:    req.Email,
			Password: req.Password,
			ClientIP: clientip.FromContext(ctx),
		})
		if err != nil {
			return m.toResponse(ctx.Request(), err)
		}

		m.cookies.Set(ctx.ResponseWriter(), m.cfg.PendingCookie, res.Pending.Value,
			cookie.WithPath(pendingCookiePath),
			cookie.WithMaxAge(maxAge(res.Pending.ExpiresAt)),
		)
		return handler.JSON(loginResponse{CodeExpiresAt: res.CodeExpiresAt})
	},
		handler.WithBinder[loginRequest](binder.JSON()),
		handler.WithErrorHandler[loginRequest](m.bindError),
	)
}

func (m *Module) handleVerifyCode() http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, req verifyCodeRequest) handler.Response {
		pending, _ := m.cookies.Get(ctx.Request(), m.cfg.PendingCookie)
		res, err := m.login.VerifyCode(ctx, auth.VerifyCodeInput{
			PendingToken: pending,
			Code:         req.Code,
			ClientIP:     clientip.FromContext(ctx),
		})
		if err != nil {
			return m.toResponse(ctx.Request(), err)
		}

		w := ctx.ResponseWriter()
		m.cookies.Delete(w, m.cfg.PendingCookie, cookie.WithPath(pendingCookiePath))
		m.cookies.Set(w, m.cfg.SessionCookie, res.Session.Value, cookie.WithMaxAge(maxAge(res.Session.ExpiresAt)))
		return handler.JSON(identity(res.Identity, &res.Session.ExpiresAt))
	},
		handler.WithBinder[verifyCodeRequest](binder.JSON()),
		handler.WithErrorHandler[verifyCodeRequest](m.bindError),
	)
}

func (m *Module) handleResendCode() http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, _ struct{}) handler.Response {
		pending, _ := m.cookies.Get(ctx.Request(), m.cfg.PendingCookie)
		issued, err := m.login.ResendCode(ctx, pending)
		if err != nil {
			return m.toResponse(ctx.Request(), err)
		}
		return handler.JSON(resendCodeResponse{ExpiresAt: issued.ExpiresAt})
	})
}

func (m *Module) handleLogout() http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, _ struct{}) handler.Response {
		w := ctx.ResponseWriter()
		m.cookies.Delete(w, m.cfg.SessionCookie)
		m.cookies.Delete(w, m.cfg.PendingCookie, cookie.WithPath(pendingCookiePath))
		return handler.Empty()
	})
}

func (m *Module) handleWhoami() http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, _ struct{}) handler.Response {
		session, ok := auth.SessionFromContext(ctx)
		if !ok {
			return handler.JSONError(errUnauthenticated)
		}
		return handler.JSON(identity(session, nil))
	})
}

// handleRecoveryRequest answers 204 whether or not the email has an account.
// Only malformed input is reported.
func (m *Module) handleRecoveryRequest() http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, req recoveryRequest) handler.Response {
		err := m.recovery.Request(ctx, req.Email, clientip.FromContext(ctx))
		switch {
		case err == nil:
		case isBadRequest(err):
			return m.toResponse(ctx.Request(), err)
		default:
			m.logger.ErrorContext(ctx, "recovery request failed",
				logger.Event("account.recovery_failed"),
				logger.Error(err),
			)
		}
		return handler.Empty()
	},
		handler.WithBinder[recoveryRequest](binder.JSON()),
		handler.WithErrorHandler[recoveryRequest](m.bindError),
	)
}

func (m *Module) handleRecoveryConfirm() http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, req confirmRequest) handler.Response {
		err := m.recovery.Confirm(ctx, auth.ConfirmInput{Token: req.Token, Password: req.Password})
		if err != nil {
			return m.toResponse(ctx.Request(), err)
		}
		return handler.JSON(map[string]string{"status": "password_reset"})
	},
		handler.WithBinder[confirmRequest](binder.JSON()),
		handler.WithErrorHandler[confirmRequest](m.bindError),
	)
}

func maxAge(expiresAt time.Time) int {
	return max(int(time.Until(expiresAt).Seconds()), 1)
}

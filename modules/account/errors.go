package account

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cargohub/authcore/handler"
	"github.com/cargohub/authcore/pkg/binder"
	"github.com/cargohub/authcore/pkg/logger"
	"github.com/cargohub/authcore/pkg/otp"
	"github.com/cargohub/authcore/pkg/ratelimiter"
	"github.com/cargohub/authcore/pkg/recovery"
	"github.com/cargohub/authcore/svc/auth"
)

var (
	errIPUnresolved     = handler.NewHTTPError(http.StatusBadRequest, "ip_unresolved", "client address could not be determined")
	errAccountNotFound  = handler.NewHTTPError(http.StatusNotFound, "not_found", "no account with this email")
	errWrongPassword    = handler.NewHTTPError(http.StatusUnauthorized, "unauthorized", "incorrect password")
	errUnauthenticated  = handler.NewHTTPError(http.StatusUnauthorized, "unauthenticated", "sign in required")
	errLoginExpired     = handler.NewHTTPError(http.StatusUnauthorized, "unauthenticated", "sign-in window expired, sign in again")
	errNoCode           = handler.NewHTTPError(http.StatusNotFound, "request_new_code", "request a new code")
	errCodeExpired      = handler.NewHTTPError(http.StatusGone, "request_new_code", "request a new code")
	errTooManyAttempts  = handler.NewHTTPError(http.StatusTooManyRequests, "too_many_attempts", "request a new code")
	errPasswordTooShort = handler.NewHTTPError(http.StatusBadRequest, "password_too_short", "password is too short")
	errInvalidToken     = handler.NewHTTPError(http.StatusBadRequest, "invalid_token", "reset link is invalid")
	errTokenExpired     = handler.NewHTTPError(http.StatusGone, "token_expired", "reset link has expired")
	errTokenUsed        = handler.NewHTTPError(http.StatusConflict, "token_already_used", "reset link was already used")
	errUnsupportedMedia = handler.ErrUnsupportedMedia.WithMessage("expected application/json")
	errRateLimited      = handler.ErrTooManyRequests.WithMessage("too many requests, try again later")
)

// toResponse maps service errors to JSON error responses. Errors without a
// mapping are logged and answered with 500.
func (m *Module) toResponse(r *http.Request, err error) handler.Response {
	var attempts *otp.AttemptsError
	switch {
	case errors.As(err, &attempts):
		return handler.JSONError(&handler.ErrorDetail{
			Code:    "invalid_code",
			Message: "incorrect code",
			Details: map[string][]string{
				"attempts":  {strconv.Itoa(attempts.Attempts)},
				"remaining": {strconv.Itoa(attempts.Remaining())},
			},
		}, handler.WithJSONStatus(http.StatusUnauthorized))

	case errors.Is(err, auth.ErrBadRequest):
		return handler.JSONError(errors.Join(handler.ErrBadRequest, err))
	case errors.Is(err, auth.ErrPasswordTooShort):
		return handler.JSONError(errors.Join(errPasswordTooShort, err))
	case errors.Is(err, auth.ErrIPUnresolved):
		return handler.JSONError(errIPUnresolved)
	case errors.Is(err, auth.ErrNotFound):
		return handler.JSONError(errAccountNotFound)
	case errors.Is(err, auth.ErrUnauthorized):
		return handler.JSONError(errWrongPassword)
	case errors.Is(err, auth.ErrPendingExpired):
		return handler.JSONError(errLoginExpired)
	case errors.Is(err, auth.ErrUnauthenticated):
		return handler.JSONError(errUnauthenticated)

	case errors.Is(err, otp.ErrNotFound):
		return handler.JSONError(errNoCode)
	case errors.Is(err, otp.ErrExpired):
		return handler.JSONError(errCodeExpired)
	case errors.Is(err, otp.ErrTooManyAttempts):
		return handler.JSONError(errTooManyAttempts)
	case errors.Is(err, otp.ErrInvalidCode), errors.Is(err, otp.ErrEmptyCode):
		return handler.JSONError(&handler.ErrorDetail{Code: "invalid_code", Message: "incorrect code"},
			handler.WithJSONStatus(http.StatusUnauthorized))

	case errors.Is(err, recovery.ErrNotFound), errors.Is(err, recovery.ErrEmptyToken):
		return handler.JSONError(errInvalidToken)
	case errors.Is(err, recovery.ErrExpired):
		return handler.JSONError(errTokenExpired)
	case errors.Is(err, recovery.ErrAlreadyUsed):
		return handler.JSONError(errTokenUsed)
	}

	m.logger.ErrorContext(r.Context(), "request failed",
		logger.Event("account.internal_error"),
		logger.Error(err),
	)
	return handler.JSONError(handler.ErrInternalServerError)
}

func (m *Module) writeError(w http.ResponseWriter, r *http.Request, err error) {
	_ = m.toResponse(r, err).Render(w, r)
}

// bindError answers request decoding failures.
func (m *Module) bindError(ctx handler.Context, err error) {
	w, r := ctx.ResponseWriter(), ctx.Request()
	switch {
	case errors.Is(err, binder.ErrMissingContentType), errors.Is(err, binder.ErrUnsupportedMediaType):
		_ = handler.JSONError(errUnsupportedMedia).Render(w, r)
	case errors.Is(err, binder.ErrBodyTooLarge), errors.Is(err, binder.ErrFailedToParseJSON):
		_ = handler.JSONError(handler.ErrBadRequest.WithMessage("malformed request body")).Render(w, r)
	default:
		m.writeError(w, r, err)
	}
}

func (m *Module) rateLimited(w http.ResponseWriter, r *http.Request, _ ratelimiter.Result) {
	m.logger.WarnContext(r.Context(), "rate limit exceeded", logger.Event("account.rate_limited"))
	_ = handler.JSONError(errRateLimited).Render(w, r)
}

func (m *Module) rateLimitFailed(w http.ResponseWriter, r *http.Request, err error) {
	m.writeError(w, r, err)
}

func isBadRequest(err error) bool {
	return errors.Is(err, auth.ErrBadRequest)
}

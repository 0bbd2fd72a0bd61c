package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargohub/authcore/pkg/cookie"
)

func TestManager_SetGet(t *testing.T) {
	t.Parallel()

	m := cookie.NewFromConfig(cookie.Config{Secure: true, SameSite: http.SameSiteStrictMode})
	rec := httptest.NewRecorder()
	m.Set(rec, "auth_pending", "tok", cookie.WithPath("/login"), cookie.WithMaxAge(600))

	res := rec.Result()
	require.Len(t, res.Cookies(), 1)
	c := res.Cookies()[0]
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, "/login", c.Path)
	assert.Equal(t, 600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	req := httptest.NewRequest(http.MethodPost, "/login/verify-code", nil)
	req.AddCookie(c)
	v, err := m.Get(req, "auth_pending")
	require.NoError(t, err)
	assert.Equal(t, "tok", v)
}

func TestManager_GetMissing(t *testing.T) {
	t.Parallel()

	m := cookie.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := m.Get(req, "auth_session")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)

	req.AddCookie(&http.Cookie{Name: "auth_session", Value: ""})
	_, err = m.Get(req, "auth_session")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()

	m := cookie.New()
	rec := httptest.NewRecorder()
	m.Delete(rec, "auth_pending", cookie.WithPath("/login"))

	cs := rec.Result().Cookies()
	require.Len(t, cs, 1)
	assert.Equal(t, "auth_pending", cs[0].Name)
	assert.Equal(t, "/login", cs[0].Path)
	assert.Equal(t, -1, cs[0].MaxAge)
	assert.True(t, cs[0].HttpOnly)
}

package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargohub/authcore/pkg/binder"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func newRequest(contentType, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes body", func(t *testing.T) {
		t.Parallel()
		var v loginBody
		err := binder.JSON()(newRequest("application/json; charset=utf-8", `{"email":"a@b.co","password":"pw"}`), &v)
		require.NoError(t, err)
		assert.Equal(t, loginBody{Email: "a@b.co", Password: "pw"}, v)
	})

	tests := []struct {
		name        string
		contentType string
		body        string
		wantErr     error
	}{
		{"missing content type", "", `{}`, binder.ErrMissingContentType},
		{"form content type", "application/x-www-form-urlencoded", `email=a`, binder.ErrUnsupportedMediaType},
		{"empty body", "application/json", ``, binder.ErrFailedToParseJSON},
		{"unknown field", "application/json", `{"email":"a@b.co","admin":true}`, binder.ErrFailedToParseJSON},
		{"wrong type", "application/json", `{"email":42}`, binder.ErrFailedToParseJSON},
		{"trailing data", "application/json", `{"email":"a@b.co"}{"email":"c@d.co"}`, binder.ErrFailedToParseJSON},
		{"too large", "application/json", `{"email":"` + strings.Repeat("a", binder.MaxJSONSize) + `"}`, binder.ErrBodyTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var v loginBody
			err := binder.JSON()(newRequest(tt.contentType, tt.body), &v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

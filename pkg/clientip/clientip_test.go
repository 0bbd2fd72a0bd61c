package clientip_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargohub/authcore/pkg/clientip"
)

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	res, err := clientip.NewResolver(clientip.Config{TrustedProxies: []string{"10.0.0.0/8", "192.168.1.1"}})
	require.NoError(t, err)

	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{name: "direct peer", remote: "203.0.113.9:52100", want: "203.0.113.9"},
		{name: "untrusted peer headers ignored", remote: "203.0.113.9:52100", headers: map[string]string{"X-Forwarded-For": "1.2.3.4"}, want: "203.0.113.9"},
		{name: "cloudflare via trusted proxy", remote: "10.1.2.3:80", headers: map[string]string{"CF-Connecting-IP": "198.51.100.20"}, want: "198.51.100.20"},
		{name: "xff rightmost untrusted", remote: "10.1.2.3:80", headers: map[string]string{"X-Forwarded-For": "6.6.6.6, 198.51.100.20, 10.9.9.9"}, want: "198.51.100.20"},
		{name: "xff garbage stops walk", remote: "10.1.2.3:80", headers: map[string]string{"X-Forwarded-For": "nope", "X-Real-IP": "198.51.100.21"}, want: "198.51.100.21"},
		{name: "single trusted address", remote: "192.168.1.1:80", headers: map[string]string{"X-Real-IP": "198.51.100.22"}, want: "198.51.100.22"},
		{name: "trusted proxy without headers", remote: "10.1.2.3:80", want: "10.1.2.3"},
		{name: "ipv6 peer", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "mapped ipv4", remote: "[::ffff:203.0.113.9]:443", want: "203.0.113.9"},
		{name: "unparseable peer", remote: "pipe", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodPost, "/login", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, res.Resolve(r))
		})
	}
}

func TestNewResolver_Invalid(t *testing.T) {
	t.Parallel()
	_, err := clientip.NewResolver(clientip.Config{TrustedProxies: []string{"not-an-ip"}})
	assert.Error(t, err)
}

func TestResolver_Middleware(t *testing.T) {
	t.Parallel()

	res, err := clientip.NewResolver(clientip.Config{})
	require.NoError(t, err)

	var got string
	h := res.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = clientip.FromContext(r.Context())
	}))
	r := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.RemoteAddr = "198.51.100.7:1234"
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "198.51.100.7", got)
}

package cookie

import "net/http"

// Config holds deployment-wide cookie attributes.
type Config struct {
	Domain   string        `env:"COOKIE_DOMAIN" envDefault:""`
	Secure   bool          `env:"COOKIE_SECURE" envDefault:"true"`
	SameSite http.SameSite `env:"COOKIE_SAME_SITE" envDefault:"3"` // 3 = SameSiteStrictMode
}

// NewFromConfig creates a Manager with cfg applied on top of the defaults.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	base := []Option{WithDomain(cfg.Domain), WithSecure(cfg.Secure)}
	if cfg.SameSite != 0 {
		base = append(base, WithSameSite(cfg.SameSite))
	}
	return New(append(base, opts...)...)
}

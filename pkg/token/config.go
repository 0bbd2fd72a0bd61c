package token

import "time"

// Config holds the secrets and lifetimes of the two codecs used by login.
type Config struct {
	PendingSecret string        `env:"AUTH_PENDING_SECRET,required"`
	PendingTTL    time.Duration `env:"AUTH_PENDING_TTL" envDefault:"10m"`
	SessionSecret string        `env:"AUTH_SESSION_SECRET,required"`
	SessionTTL    time.Duration `env:"AUTH_SESSION_TTL" envDefault:"9h"`
	Issuer        string        `env:"AUTH_TOKEN_ISSUER" envDefault:"authcore"`
}

// NewPendingCodec builds the second-factor codec from cfg.
func NewPendingCodec(cfg Config) (*Codec[Pending], error) {
	return New[Pending](Options{
		Secret:   cfg.PendingSecret,
		TTL:      cfg.PendingTTL,
		Audience: AudiencePending,
		Issuer:   cfg.Issuer,
	})
}

// NewSessionCodec builds the session codec from cfg.
func NewSessionCodec(cfg Config) (*Codec[Session], error) {
	return New[Session](Options{
		Secret:   cfg.SessionSecret,
		TTL:      cfg.SessionTTL,
		Audience: AudienceSession,
		Issuer:   cfg.Issuer,
	})
}

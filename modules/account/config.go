package account

// Config names the cookies the module sets.
type Config struct {
	PendingCookie string `env:"ACCOUNT_PENDING_COOKIE" envDefault:"auth_pending"`
	SessionCookie string `env:"ACCOUNT_SESSION_COOKIE" envDefault:"auth_session"`
}

func (c Config) withDefaults() Config {
	if c.PendingCookie == "" {
		c.PendingCookie = "auth_pending"
	}
	if c.SessionCookie == "" {
		c.SessionCookie = "auth_session"
	}
	return c
}

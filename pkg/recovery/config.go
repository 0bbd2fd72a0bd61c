package recovery

import "time"

// DefaultTTL is the lifetime of a reset token.
const DefaultTTL = 30 * time.Minute

// Config holds reset token settings.
type Config struct {
	TTL time.Duration `env:"RECOVERY_TOKEN_TTL" envDefault:"30m"`
}

package otp

import "time"

// Defaults.
const (
	DefaultTTL         = 10 * time.Minute
	DefaultMaxAttempts = 5
	CodeLength         = 6
)

// Config holds code lifetime and attempt budget.
type Config struct {
	TTL         time.Duration `env:"OTP_TTL" envDefault:"10m"`
	MaxAttempts int           `env:"OTP_MAX_ATTEMPTS" envDefault:"5"`
}

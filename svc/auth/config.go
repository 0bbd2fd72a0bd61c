package auth

// DefaultMinPasswordLength is the shortest password accepted on reset.
const DefaultMinPasswordLength = 8

// Input bounds checked before any lookup.
const (
	MaxEmailLength    = 254
	MaxPasswordLength = 256
)

// Config holds orchestrator settings.
type Config struct {
	ResetURL          string `env:"AUTH_RESET_URL,required"`
	MinPasswordLength int    `env:"AUTH_MIN_PASSWORD_LENGTH" envDefault:"8"`
}

package hasher

// Config holds the hashing secrets and cost. Pepper is process-wide and read
// only after startup.
type Config struct {
	Pepper     string `env:"AUTH_PEPPER,required"`
	BcryptCost int    `env:"AUTH_BCRYPT_COST" envDefault:"12"`
}

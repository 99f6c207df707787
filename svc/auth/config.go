package auth

import "time"

// Config holds token settings.
type Config struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
	Issuer string        `env:"JWT_ISSUER" envDefault:"tenantkit"`
}

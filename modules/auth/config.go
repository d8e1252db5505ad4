package auth

import "time"

// Config holds the auth secrets and lifetimes. Constructed once at
// process start and passed into the service; nothing here is read from
// the environment after startup.
type Config struct {
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET,required"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET,required"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"240h"`
	BcryptCost         int           `env:"BCRYPT_COST" envDefault:"0"` // 0 selects the package default
	LoginRateLimit     int           `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
	LoginRateWindow    time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`
}

package config

import "time"

// AuthConfig groups token issuance and password hashing configuration.
type AuthConfig struct {
	// JWTSecret signs issued bearer tokens. Required outside development.
	JWTSecret string `env:"JWT_SECRET"`

	// TokenTTL is the lifetime of issued bearer tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// BcryptCost is the bcrypt work factor for password hashing.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// Issuer is the "iss" claim stamped on issued tokens.
	Issuer string `env:"ISSUER" envDefault:"raborimet-crm"`
}

const (
	minBcryptCost = 4
	maxBcryptCost = 16

	minTokenTTL = time.Minute
)

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.BcryptCost < minBcryptCost {
		a.BcryptCost = minBcryptCost
	}
	if a.BcryptCost > maxBcryptCost {
		a.BcryptCost = maxBcryptCost
	}
	if a.TokenTTL < minTokenTTL {
		a.TokenTTL = minTokenTTL
	}
}

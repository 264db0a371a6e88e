package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthConfigSanitize_ClampsBcryptCost(t *testing.T) {
	cfg := AuthConfig{BcryptCost: 0, TokenTTL: time.Hour}
	cfg.Sanitize()
	assert.Equal(t, minBcryptCost, cfg.BcryptCost)

	cfg = AuthConfig{BcryptCost: 31, TokenTTL: time.Hour}
	cfg.Sanitize()
	assert.Equal(t, maxBcryptCost, cfg.BcryptCost)
}

func TestAuthConfigSanitize_EnforcesMinimumTokenTTL(t *testing.T) {
	cfg := AuthConfig{BcryptCost: 10, TokenTTL: time.Second}
	cfg.Sanitize()
	assert.Equal(t, minTokenTTL, cfg.TokenTTL)
}

func TestHTTPConfigSanitize_DefaultsEmptyAddr(t *testing.T) {
	cfg := HTTPConfig{}
	cfg.Sanitize()
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestAppConfigSanitize_DetectsDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()
	assert.True(t, cfg.IsDev)
}

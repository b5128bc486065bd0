package config

import (
	"log"
	"os"
	"sync"
	"time"
)

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	ResetTTL  time.Duration
}

var (
	authConfig *AuthConfig
	authOnce   sync.Once
)

func LoadAuthConfig() *AuthConfig {
	authOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			log.Fatal("JWT_SECRET not set")
		}
		authConfig = &AuthConfig{
			JWTSecret: secret,
			TokenTTL:  12 * time.Hour,
			ResetTTL:  2 * time.Hour,
		}
	})
	return authConfig
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-secret-key-change-this-in-production"

type JWTConfig struct {
	Secret     []byte
	Expiration time.Duration
	Issuer     string
}

func loadJWTConfig(v *viper.Viper) JWTConfig {
	expiration := v.GetDuration("JWT_EXPIRATION")
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return JWTConfig{
		Secret:     []byte(v.GetString("JWT_SECRET")),
		Expiration: expiration,
		Issuer:     "recipe-blog-cms",
	}
}

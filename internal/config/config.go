package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// OIDCConfig configures the optional SSO login provider.
// The provider is only registered when Issuer is set.
type OIDCConfig struct {
	Name         string `env:"NAME"          envDefault:"sso"`
	Issuer       string `env:"ISSUER"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
}

// Enabled reports whether an SSO provider should be wired.
func (o OIDCConfig) Enabled() bool { return o.Issuer != "" }

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	DatabaseDSN string `env:"DATABASE_DSN,required"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// SessionTTL is the absolute session lifetime; resolution past this
	// point is treated as no session.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// CookieSecure should only be disabled for local development over
	// plain HTTP (__Host- cookies require Secure in browsers).
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"true"`

	OIDC OIDCConfig `envPrefix:"OIDC_"`
}

// Load reads configuration from the environment, overlaying a local
// .env file when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DevSecretKey signs tokens when no SECRET_KEY is configured in in-memory mode.
const DevSecretKey = "your-secret-key-change-in-production"

const minBcryptCost = 10

type Config struct {
	Port               string        `env:"PORT"                        envDefault:"8080"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	SecretKey          string        `env:"SECRET_KEY"`
	AccessTokenMinutes int           `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
	BcryptCost         int           `env:"BCRYPT_COST"                 envDefault:"12"`
	RabbitMQURL        string        `env:"RABBITMQ_URL"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS"        envDefault:"*" envSeparator:","`
	StatsInterval      time.Duration `env:"STATS_INTERVAL"              envDefault:"1m"`
	TrustedProxy       bool          `env:"TRUSTED_PROXY"               envDefault:"false"`

	Mail  MailConfig
	Kommo KommoConfig
}

type MailConfig struct {
	Host string `env:"MAIL_HOST"`
	Port int    `env:"MAIL_PORT" envDefault:"587"`
	User string `env:"MAIL_USER"`
	Pass string `env:"MAIL_PASS"`
	From string `env:"MAIL_FROM"`
}

type KommoConfig struct {
	APIToken string `env:"KOMMO_API_TOKEN"`
	BaseURL  string `env:"KOMMO_BASE_URL"`
}

// Enabled reports whether assignment emails can be sent.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

// Enabled reports whether leads are pushed to Kommo.
func (k KommoConfig) Enabled() bool {
	return k.APIToken != "" && k.BaseURL != ""
}

func (c Config) InMemory() bool {
	return c.DatabaseURL == ""
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.AccessTokenMinutes) * time.Minute
}

func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ No .env file found, using process environment")
	}
	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SecretKey == "" {
		if !c.InMemory() {
			return errors.New("SECRET_KEY is required when DATABASE_URL is set")
		}
		log.Println("⚠️ WARNING: SECRET_KEY not set, signing tokens with the development key")
		c.SecretKey = DevSecretKey
	}
	if c.AccessTokenMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", c.AccessTokenMinutes)
	}
	if c.BcryptCost < minBcryptCost {
		return fmt.Errorf("BCRYPT_COST must be at least %d, got %d", minBcryptCost, c.BcryptCost)
	}
	if c.StatsInterval <= 0 {
		return fmt.Errorf("STATS_INTERVAL must be positive, got %s", c.StatsInterval)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config defines chargehub service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"CHARGEHUB_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"CHARGEHUB_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"CHARGEHUB_REDIS_ADDR"`
		Password string `yaml:"password" env:"CHARGEHUB_REDIS_PASSWORD"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret       string `yaml:"jwtSecret" env:"CHARGEHUB_JWT_SECRET"`
		TokenTTL        int    `yaml:"tokenTTLSeconds" env:"CHARGEHUB_TOKEN_TTL"`
		OTPTTL          int    `yaml:"otpTTLSeconds" env:"CHARGEHUB_OTP_TTL"`
		RegistrationTTL int    `yaml:"registrationTTLSeconds" env:"CHARGEHUB_REGISTRATION_TTL"`
	} `yaml:"auth"`
	SMTP struct {
		Host string `yaml:"host" env:"CHARGEHUB_SMTP_HOST"`
		Port int    `yaml:"port" env:"CHARGEHUB_SMTP_PORT"`
		User string `yaml:"user" env:"CHARGEHUB_SMTP_USER"`
		Pass string `yaml:"pass" env:"CHARGEHUB_SMTP_PASS"`
		From string `yaml:"from" env:"CHARGEHUB_SMTP_FROM"`
	} `yaml:"smtp"`
}

// Load reads configuration from YAML file and environment.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Auth.TokenTTL = 3600
	cfg.Auth.OTPTTL = 300
	cfg.Auth.RegistrationTTL = 600
	cfg.SMTP.Port = 587

	if err := load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// TokenTTL returns the JWT lifetime.
func (c *Config) TokenTTL() time.Duration {
	if c.Auth.TokenTTL <= 0 {
		return time.Hour
	}
	return time.Duration(c.Auth.TokenTTL) * time.Second
}

// OTPTTL returns how long a login code stays valid.
func (c *Config) OTPTTL() time.Duration {
	if c.Auth.OTPTTL <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Auth.OTPTTL) * time.Second
}

// RegistrationTTL returns how long a pending signup stays valid.
func (c *Config) RegistrationTTL() time.Duration {
	if c.Auth.RegistrationTTL <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.Auth.RegistrationTTL) * time.Second
}

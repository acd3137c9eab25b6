// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	minSecretLength = 32
)

var insecureSecretPlaceholders = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Port             string
	DBDriver         string
	DBPath           string
	DatabaseURL      string
	AuthJWTSecret    string
	CookieSecret     string
	CookieSecure     bool
	CronSecret       string
	VAPIDPublicKey   string
	VAPIDPrivateKey  string
	VAPIDSubject     string
	ReminderURL      string
	ReminderInterval time.Duration
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	port, err := ResolvePort(getEnv("PORT", "8080"))
	if err != nil {
		return nil, err
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", DriverSQLite))
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, driver)
	}
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if driver == DriverPostgres && databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
	}

	authSecret, err := ResolveSecret("AUTH_JWT_SECRET", os.Getenv("AUTH_JWT_SECRET"))
	if err != nil {
		return nil, err
	}
	cookieSecret := authSecret
	if raw := os.Getenv("COOKIE_SECRET"); raw != "" {
		cookieSecret, err = ResolveSecret("COOKIE_SECRET", raw)
		if err != nil {
			return nil, err
		}
	}

	interval, err := ParseInterval(os.Getenv("REMINDER_INTERVAL"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:             port,
		DBDriver:         driver,
		DBPath:           getEnv("DB_PATH", "data/bujo.db"),
		DatabaseURL:      databaseURL,
		AuthJWTSecret:    authSecret,
		CookieSecret:     cookieSecret,
		CookieSecure:     ParseBool(os.Getenv("COOKIE_SECURE")),
		CronSecret:       strings.TrimSpace(os.Getenv("CRON_SECRET")),
		VAPIDPublicKey:   strings.TrimSpace(os.Getenv("VAPID_PUBLIC_KEY")),
		VAPIDPrivateKey:  strings.TrimSpace(os.Getenv("VAPID_PRIVATE_KEY")),
		VAPIDSubject:     getEnv("VAPID_SUBJECT", "mailto:admin@localhost"),
		ReminderURL:      getEnv("REMINDER_URL", "/today"),
		ReminderInterval: interval,
	}, nil
}

// LoadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func ResolveSecret(name string, raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	if _, insecure := insecureSecretPlaceholders[strings.ToLower(secret)]; insecure {
		return "", fmt.Errorf("%s uses an insecure placeholder value", name)
	}
	if len(secret) < minSecretLength {
		return "", fmt.Errorf("%s must be at least %d characters", name, minSecretLength)
	}
	return secret, nil
}

func ResolvePort(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		return "8080", nil
	}
	parsed, err := strconv.Atoi(port)
	if err != nil || parsed < 1 || parsed > 65535 {
		return "", fmt.Errorf("PORT must be between 1 and 65535, got %q", raw)
	}
	return port, nil
}

// ParseInterval reads REMINDER_INTERVAL; empty or "0" disables the
// in-process scheduler.
func ParseInterval(raw string) (time.Duration, error) {
	value := strings.TrimSpace(raw)
	if value == "" || value == "0" {
		return 0, nil
	}
	interval, err := time.ParseDuration(value)
	if err != nil || interval < 0 {
		return 0, fmt.Errorf("REMINDER_INTERVAL must be a positive duration, got %q", raw)
	}
	if interval > 0 && interval < time.Minute {
		return 0, fmt.Errorf("REMINDER_INTERVAL must be at least 1m, got %q", raw)
	}
	return interval, nil
}

func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func (cfg *Config) PushConfigured() bool {
	return cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != ""
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

package db

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// OpenPostgres connects to the hosted Postgres database (Supabase exposes a
// plain Postgres connection string) and applies the postgres migrations.
func OpenPostgres(rawDSN string) (*gorm.DB, error) {
	dsn := NormalizeDSN(rawDSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: newGormLogger()})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := applyEmbeddedMigrations(database, DialectPostgres); err != nil {
		return nil, fmt.Errorf("apply embedded migrations: %w", err)
	}

	return database, nil
}

// NormalizeDSN accepts either a URL style DSN (postgres://...) or a
// key=value list. Key=value lists without sslmode get sslmode=require, since
// hosted databases only accept TLS connections.
func NormalizeDSN(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.Trim(value, "\"'")
	if value == "" {
		return value
	}

	lower := strings.ToLower(value)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return value
	}
	if !kvPairRegex.MatchString(value) {
		return value
	}

	cleaned := strings.Join(strings.Fields(value), " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=require"
	}
	return cleaned
}

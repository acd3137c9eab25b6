package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_PATH", "DATABASE_URL", "COOKIE_SECRET", "COOKIE_SECURE", "CRON_SECRET", "VAPID_PUBLIC_KEY", "VAPID_PRIVATE_KEY", "VAPID_SUBJECT", "REMINDER_URL", "REMINDER_INTERVAL"} {
		t.Setenv(key, "")
	}
	t.Setenv("AUTH_JWT_SECRET", validSecret)
}

func TestLoadAppliesDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.DBDriver != DriverSQLite || cfg.DBPath != "data/bujo.db" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if cfg.CookieSecret != validSecret {
		t.Fatalf("expected cookie secret to default to the auth secret")
	}
	if cfg.ReminderURL != "/today" || cfg.ReminderInterval != 0 {
		t.Fatalf("unexpected reminder defaults: %#v", cfg)
	}
	if cfg.PushConfigured() {
		t.Fatal("expected push to be unconfigured without VAPID keys")
	}
}

func TestLoadRequiresDatabaseURLForPostgres(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}

	t.Setenv("DB_DRIVER", "mysql")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("REMINDER_URL", "/journal")
	dotenv := "REMINDER_URL=/ignored\nCRON_SECRET=from-dotenv\n"
	if err := os.WriteFile(filepath.Join(".", ".env"), []byte(dotenv), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	os.Unsetenv("CRON_SECRET")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.ReminderURL != "/journal" {
		t.Fatalf("expected environment to win over .env, got %q", cfg.ReminderURL)
	}
	if cfg.CronSecret != "from-dotenv" {
		t.Fatalf("expected CRON_SECRET from .env, got %q", cfg.CronSecret)
	}
}

func TestResolveSecret(t *testing.T) {
	if _, err := ResolveSecret("AUTH_JWT_SECRET", ""); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := ResolveSecret("AUTH_JWT_SECRET", "change_me_in_production"); err == nil {
		t.Fatal("expected error for placeholder secret")
	}
	if _, err := ResolveSecret("AUTH_JWT_SECRET", "too-short-secret"); err == nil {
		t.Fatal("expected error for short secret")
	}
	secret, err := ResolveSecret("AUTH_JWT_SECRET", " "+validSecret+" ")
	if err != nil || secret != validSecret {
		t.Fatalf("expected trimmed valid secret, got %q err=%v", secret, err)
	}
}

func TestResolvePort(t *testing.T) {
	if port, err := ResolvePort(""); err != nil || port != "8080" {
		t.Fatalf("expected default port, got %q err=%v", port, err)
	}
	if port, err := ResolvePort("9090"); err != nil || port != "9090" {
		t.Fatalf("expected 9090, got %q err=%v", port, err)
	}
	for _, raw := range []string{"0", "70000", "not-a-number"} {
		if _, err := ResolvePort(raw); err == nil {
			t.Fatalf("expected %q rejected", raw)
		}
	}
}

func TestParseInterval(t *testing.T) {
	if interval, err := ParseInterval(""); err != nil || interval != 0 {
		t.Fatalf("expected disabled scheduler, got %s err=%v", interval, err)
	}
	if interval, err := ParseInterval("5m"); err != nil || interval != 5*time.Minute {
		t.Fatalf("expected 5m, got %s err=%v", interval, err)
	}
	for _, raw := range []string{"soon", "-5m", "10s"} {
		if _, err := ParseInterval(raw); err == nil {
			t.Fatalf("expected %q rejected", raw)
		}
	}
}

func TestParseBool(t *testing.T) {
	for _, raw := range []string{"1", "true", "YES", " on "} {
		if !ParseBool(raw) {
			t.Fatalf("expected %q to be true", raw)
		}
	}
	for _, raw := range []string{"", "0", "false", "nope"} {
		if ParseBool(raw) {
			t.Fatalf("expected %q to be false", raw)
		}
	}
}

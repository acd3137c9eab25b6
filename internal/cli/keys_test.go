package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/terraincognita07/bujo/internal/security"
)

func TestRunVAPIDKeysCommandPrintsEnvLines(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := RunVAPIDKeysCommand(&out); err != nil {
		t.Fatalf("RunVAPIDKeysCommand returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %q", out.String())
	}
	if !strings.HasPrefix(lines[0], "VAPID_PUBLIC_KEY=") || len(lines[0]) <= len("VAPID_PUBLIC_KEY=") {
		t.Fatalf("unexpected public key line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "VAPID_PRIVATE_KEY=") || len(lines[1]) <= len("VAPID_PRIVATE_KEY=") {
		t.Fatalf("unexpected private key line %q", lines[1])
	}
}

func TestRunCronSecretCommandPrintsUsableSecret(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := RunCronSecretCommand(&out); err != nil {
		t.Fatalf("RunCronSecretCommand returned error: %v", err)
	}

	line := strings.TrimSpace(out.String())
	secret, found := strings.CutPrefix(line, "CRON_SECRET=")
	if !found {
		t.Fatalf("unexpected output %q", line)
	}
	if len(secret) != cronSecretLength {
		t.Fatalf("secret length = %d, want %d", len(secret), cronSecretLength)
	}
	for _, char := range secret {
		if !strings.ContainsRune(security.SecretAlphabet, char) {
			t.Fatalf("secret contains %q outside alphabet", char)
		}
	}
}

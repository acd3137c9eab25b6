package cli

import (
	"fmt"
	"io"

	"github.com/terraincognita07/bujo/internal/security"
	"github.com/terraincognita07/bujo/internal/services"
)

const cronSecretLength = 48

// RunVAPIDKeysCommand prints a fresh VAPID key pair as .env lines.
func RunVAPIDKeysCommand(out io.Writer) error {
	credentials, err := services.GenerateVAPIDKeys()
	if err != nil {
		return fmt.Errorf("generate vapid keys: %w", err)
	}

	fmt.Fprintf(out, "VAPID_PUBLIC_KEY=%s\n", credentials.PublicKey)
	fmt.Fprintf(out, "VAPID_PRIVATE_KEY=%s\n", credentials.PrivateKey)
	return nil
}

func RunCronSecretCommand(out io.Writer) error {
	secret, err := security.NewSecret(cronSecretLength)
	if err != nil {
		return fmt.Errorf("generate cron secret: %w", err)
	}

	fmt.Fprintf(out, "CRON_SECRET=%s\n", secret)
	return nil
}

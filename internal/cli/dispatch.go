package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/terraincognita07/bujo/internal/config"
	"github.com/terraincognita07/bujo/internal/db"
	"github.com/terraincognita07/bujo/internal/services"
)

// RunDispatchCommand runs one reminder pass against the configured database
// and prints the summary as JSON.
func RunDispatchCommand(ctx context.Context, cfg *config.Config, out io.Writer) error {
	database, err := db.Open(cfg.DBDriver, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer db.Close(database)

	repositories := db.NewRepositories(database)
	dispatcher := services.NewReminderDispatcher(
		repositories.PushSubscriptions,
		services.WebPushSenderFunc(VAPIDCredentials(cfg)),
		cfg.ReminderURL,
	)
	return runDispatch(ctx, dispatcher, time.Now(), out)
}

func VAPIDCredentials(cfg *config.Config) services.VAPIDCredentials {
	return services.VAPIDCredentials{
		PublicKey:  cfg.VAPIDPublicKey,
		PrivateKey: cfg.VAPIDPrivateKey,
		Subject:    cfg.VAPIDSubject,
	}
}

func runDispatch(ctx context.Context, dispatcher *services.ReminderDispatcher, now time.Time, out io.Writer) error {
	summary, err := dispatcher.Dispatch(ctx, now)
	if err != nil {
		return fmt.Errorf("dispatch reminders: %w", err)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("print summary: %w", err)
	}
	return nil
}

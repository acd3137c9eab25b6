package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bujo/internal/api"
	"github.com/terraincognita07/bujo/internal/cli"
	"github.com/terraincognita07/bujo/internal/config"
	"github.com/terraincognita07/bujo/internal/db"
	"github.com/terraincognita07/bujo/internal/services"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	handled, err := runCommand(context.Background(), os.Args[1:], os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	if handled {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	fx.New(appOptions(cfg)...).Run()
}

// runCommand handles operator subcommands. It reports false when args name
// no subcommand and the server should start.
func runCommand(ctx context.Context, args []string, out io.Writer) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}

	switch args[0] {
	case "vapid-keys":
		return true, cli.RunVAPIDKeysCommand(out)
	case "cron-secret":
		return true, cli.RunCronSecretCommand(out)
	case "dispatch":
		cfg, err := config.Load()
		if err != nil {
			return true, fmt.Errorf("config: %w", err)
		}
		return true, cli.RunDispatchCommand(ctx, cfg, out)
	case "serve":
		return false, nil
	default:
		return true, fmt.Errorf("unknown command %q (expected serve, dispatch, vapid-keys or cron-secret)", args[0])
	}
}

func appOptions(cfg *config.Config) []fx.Option {
	return []fx.Option{
		fx.Supply(cfg),
		fx.Provide(
			ProvideDatabase,
			db.NewRepositories,
			ProvideDispatcher,
			ProvideScheduler,
			api.NewHandler,
			api.NewApp,
		),
		fx.Invoke(StartScheduler),
		fx.Invoke(StartServer),
	}
}

func ProvideDatabase(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	database, err := db.Open(cfg.DBDriver, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return db.Close(database)
		},
	})
	return database, nil
}

func ProvideDispatcher(repositories *db.Repositories, cfg *config.Config) *services.ReminderDispatcher {
	return services.NewReminderDispatcher(
		repositories.PushSubscriptions,
		services.WebPushSenderFunc(cli.VAPIDCredentials(cfg)),
		cfg.ReminderURL,
	)
}

func ProvideScheduler(dispatcher *services.ReminderDispatcher, cfg *config.Config) *services.ReminderScheduler {
	return services.NewReminderScheduler(dispatcher, cfg.ReminderInterval)
}

func StartScheduler(lc fx.Lifecycle, scheduler *services.ReminderScheduler, cfg *config.Config) {
	if cfg.ReminderInterval <= 0 {
		log.Printf("reminders: in-process scheduler disabled, waiting for cron")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				scheduler.Start(ctx)
			}()
			log.Printf("reminders: dispatching every %s", cfg.ReminderInterval)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Printf("Bullet Journal listening on http://0.0.0.0:%s (db: %s)", cfg.Port, cfg.DBDriver)
				if err := app.Listen(":" + cfg.Port); err != nil {
					log.Fatalf("server exited: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return app.ShutdownWithContext(shutdownCtx)
		},
	})
}

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/terraincognita07/bujo/internal/config"
	"github.com/terraincognita07/bujo/internal/models"
	"github.com/terraincognita07/bujo/internal/services"
)

func (env *testEnv) seedSubscriber(t *testing.T, timezone string, reminderTime string, optIn bool, endpoint string) models.Profile {
	t.Helper()

	profile := env.seedProfile(t, func(profile *models.Profile) {
		profile.Timezone = timezone
		profile.ReminderTime = reminderTime
		profile.PushOptIn = optIn
	})
	subscription := models.PushSubscription{UserID: profile.UserID, Endpoint: endpoint, P256dh: "key", Auth: "auth"}
	if err := env.repositories.PushSubscriptions.Upsert(&subscription); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return profile
}

func (env *testEnv) triggerCron(t *testing.T, method string) services.DispatchSummary {
	t.Helper()

	response := env.do(t, method, "/api/cron/reminders", testCronSecret, nil)
	expectStatus(t, response, http.StatusOK)
	return decodeJSON[services.DispatchSummary](t, response)
}

func TestCronRejectsMissingOrWrongSecret(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.seedSubscriber(t, "UTC", "19:30", true, "https://push.example.com/a")

	response := env.do(t, http.MethodPost, "/api/cron/reminders", "", nil)
	expectStatus(t, response, http.StatusUnauthorized)

	response = env.do(t, http.MethodPost, "/api/cron/reminders", "wrong-secret", nil)
	expectStatus(t, response, http.StatusUnauthorized)

	if len(env.sender.endpoints) != 0 {
		t.Fatalf("expected no sends on rejected calls, got %v", env.sender.endpoints)
	}
}

func TestCronThrottlesRepeatedFailures(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	for attempt := 0; attempt < cronAttemptsLimit; attempt++ {
		response := env.do(t, http.MethodPost, "/api/cron/reminders", "wrong-secret", nil)
		expectStatus(t, response, http.StatusUnauthorized)
	}
	response := env.do(t, http.MethodPost, "/api/cron/reminders", "wrong-secret", nil)
	expectStatus(t, response, http.StatusTooManyRequests)

	env.now = env.now.Add(cronAttemptsWindow + time.Minute)
	response = env.do(t, http.MethodPost, "/api/cron/reminders", "wrong-secret", nil)
	expectStatus(t, response, http.StatusUnauthorized)
}

func TestCronValidSecretRunsAfterFailedAttempts(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.seedSubscriber(t, "UTC", "19:30", true, "https://push.example.com/due")

	for attempt := 0; attempt < cronAttemptsLimit+2; attempt++ {
		env.do(t, http.MethodPost, "/api/cron/reminders", "wrong-secret", nil)
	}

	summary := env.triggerCron(t, http.MethodPost)
	if summary.Sent != 1 || len(env.sender.endpoints) != 1 {
		t.Fatalf("expected the due reminder to be sent, got %#v", summary)
	}
}

func TestCronFailsWithoutSecretOrCredentials(t *testing.T) {
	t.Parallel()

	noSecret := newTestEnvWithConfig(t, func(cfg *config.Config) { cfg.CronSecret = "" })
	response := noSecret.do(t, http.MethodPost, "/api/cron/reminders", testCronSecret, nil)
	expectStatus(t, response, http.StatusInternalServerError)

	noKeys := newTestEnvWithConfig(t, func(cfg *config.Config) { cfg.VAPIDPublicKey = "" })
	noKeys.seedSubscriber(t, "UTC", "19:30", true, "https://push.example.com/a")
	response = noKeys.do(t, http.MethodPost, "/api/cron/reminders", testCronSecret, nil)
	expectStatus(t, response, http.StatusInternalServerError)
	if len(noKeys.sender.endpoints) != 0 {
		t.Fatalf("expected no sends without credentials, got %v", noKeys.sender.endpoints)
	}
}

func TestCronNewYorkReminderEndToEnd(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.seedSubscriber(t, "America/New_York", "14:30", true, "https://push.example.com/ny")
	env.seedSubscriber(t, "America/New_York", "14:30", false, "https://push.example.com/opted-out")

	env.now = time.Date(2026, time.January, 15, 19, 32, 0, 0, time.UTC)
	summary := env.triggerCron(t, http.MethodPost)
	if summary.Sent != 1 || len(summary.Results) != 1 || summary.Results[0].Status != services.DispatchStatusSent {
		t.Fatalf("expected one sent result at 14:32 local, got %+v", summary)
	}
	if summary.Results[0].Endpoint != "https://push.example.com/ny" {
		t.Fatalf("unexpected endpoint %q", summary.Results[0].Endpoint)
	}
	message := env.sender.messages[0]
	if message.Title != services.ReminderTitle || message.Body != services.ReminderBody || message.URL != "/today" {
		t.Fatalf("unexpected payload %+v", message)
	}

	env.now = time.Date(2026, time.January, 15, 19, 36, 0, 0, time.UTC)
	summary = env.triggerCron(t, http.MethodGet)
	if summary.Sent != 0 || len(summary.Results) != 0 {
		t.Fatalf("expected nothing due at 14:36 local, got %+v", summary)
	}
}

func TestCronRemovesGoneSubscriptionOnly(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	gone := env.seedSubscriber(t, "UTC", "19:30", true, "https://push.example.com/gone")
	env.sender.status = http.StatusGone

	summary := env.triggerCron(t, http.MethodPost)
	if summary.Sent != 0 || len(summary.Results) != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	result := summary.Results[0]
	if result.Status != services.DispatchStatusError || !result.Removed || result.StatusCode != http.StatusGone {
		t.Fatalf("expected removed 410 result, got %+v", result)
	}
	remaining, err := env.repositories.PushSubscriptions.ListByUser(gone.UserID)
	if err != nil || len(remaining) != 0 {
		t.Fatalf("expected gone subscription deleted, got %+v (%v)", remaining, err)
	}

	transient := env.seedSubscriber(t, "UTC", "19:30", true, "https://push.example.com/flaky")
	env.sender.status = http.StatusInternalServerError
	summary = env.triggerCron(t, http.MethodPost)
	if len(summary.Results) != 1 || summary.Results[0].Removed || summary.Results[0].StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected reported 500 without removal, got %+v", summary)
	}
	remaining, err = env.repositories.PushSubscriptions.ListByUser(transient.UserID)
	if err != nil || len(remaining) != 1 {
		t.Fatalf("expected transient failure to keep subscription, got %+v (%v)", remaining, err)
	}
}

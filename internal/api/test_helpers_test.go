package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/config"
	"github.com/terraincognita07/bujo/internal/db"
	"github.com/terraincognita07/bujo/internal/models"
	"github.com/terraincognita07/bujo/internal/services"
)

const (
	testJWTSecret  = "test-auth-secret-0123456789abcdef0123"
	testCronSecret = "test-cron-secret-0123456789abcdef0123"
)

type recordingSender struct {
	mu        sync.Mutex
	status    int
	endpoints []string
	messages  []services.PushMessage
}

func (sender *recordingSender) Send(_ context.Context, endpoint services.PushEndpoint, message services.PushMessage) (int, error) {
	sender.mu.Lock()
	defer sender.mu.Unlock()
	sender.endpoints = append(sender.endpoints, endpoint.Endpoint)
	sender.messages = append(sender.messages, message)
	if sender.status == 0 {
		return http.StatusCreated, nil
	}
	return sender.status, nil
}

type testEnv struct {
	app          *fiber.App
	handler      *Handler
	repositories *db.Repositories
	sender       *recordingSender
	now          time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, func(*config.Config) {})
}

func newTestEnvWithConfig(t *testing.T, configure func(*config.Config)) *testEnv {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "bujo-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(database) })

	cfg := &config.Config{
		AuthJWTSecret:  testJWTSecret,
		CronSecret:     testCronSecret,
		VAPIDPublicKey: "test-public-key",
		ReminderURL:    "/today",
	}
	configure(cfg)

	env := &testEnv{
		repositories: db.NewRepositories(database),
		sender:       &recordingSender{},
		now:          time.Date(2026, time.January, 15, 19, 32, 0, 0, time.UTC),
	}
	dispatcher := services.NewReminderDispatcher(env.repositories.PushSubscriptions, func() (services.PushSender, error) {
		if cfg.VAPIDPublicKey == "" {
			return nil, services.ErrPushCredentialsMissing
		}
		return env.sender, nil
	}, cfg.ReminderURL)

	handler, err := NewHandler(cfg, env.repositories, dispatcher)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	handler.now = func() time.Time { return env.now }
	env.handler = handler
	env.app = NewApp(handler)
	return env
}

func (env *testEnv) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	return signTestToken(t, userID.String(), env.now.Add(time.Hour), testJWTSecret)
}

func signTestToken(t *testing.T, subject string, expiresAt time.Time, secret string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Role: "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func (env *testEnv) seedProfile(t *testing.T, mutate func(*models.Profile)) models.Profile {
	t.Helper()

	profile := models.DefaultProfile(uuid.New())
	mutate(&profile)
	if err := env.repositories.Profiles.Upsert(&profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return profile
}

type requestOption func(*http.Request)

func withCookie(cookie *http.Cookie) requestOption {
	return func(request *http.Request) {
		if cookie != nil {
			request.AddCookie(cookie)
		}
	}
}

func withBearer(token string) requestOption {
	return func(request *http.Request) {
		request.Header.Set("Authorization", "Bearer "+token)
	}
}

func (env *testEnv) do(t *testing.T, method string, path string, token string, body any, options ...requestOption) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	for _, option := range options {
		option(request)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func expectStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()
	if response.StatusCode != want {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", want, response.StatusCode, body)
	}
}

func decodeJSON[T any](t *testing.T, response *http.Response) T {
	t.Helper()

	var payload T
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return payload
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()
	return decodeJSON[map[string]string](t, response)["error"]
}

func responseCookie(response *http.Response, name string) *http.Cookie {
	for _, cookie := range response.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

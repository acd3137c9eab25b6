package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
)

const (
	ReminderTitle = "Bullet Journal"
	ReminderBody  = "Time to fill in today's log."
	ReminderTTL   = 12 * time.Hour
)

var ErrPushCredentialsMissing = errors.New("push credentials missing")

type PushMessage struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

type PushEndpoint struct {
	Endpoint string
	P256dh   string
	Auth     string
}

// PushSender delivers one message and reports the push service status code.
// A transport failure returns a zero status and an error.
type PushSender interface {
	Send(ctx context.Context, endpoint PushEndpoint, message PushMessage) (int, error)
}

type VAPIDCredentials struct {
	PublicKey  string
	PrivateKey string
	Subject    string
}

type WebPushSender struct {
	credentials VAPIDCredentials
	ttl         time.Duration
}

func NewWebPushSender(credentials VAPIDCredentials) (*WebPushSender, error) {
	if strings.TrimSpace(credentials.PublicKey) == "" || strings.TrimSpace(credentials.PrivateKey) == "" {
		return nil, ErrPushCredentialsMissing
	}
	return &WebPushSender{credentials: credentials, ttl: ReminderTTL}, nil
}

func (sender *WebPushSender) Send(ctx context.Context, endpoint PushEndpoint, message PushMessage) (int, error) {
	payload, err := json.Marshal(message)
	if err != nil {
		return 0, fmt.Errorf("encode push payload: %w", err)
	}

	response, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: endpoint.Endpoint,
		Keys: webpush.Keys{
			Auth:   endpoint.Auth,
			P256dh: endpoint.P256dh,
		},
	}, &webpush.Options{
		Subscriber:      sender.credentials.Subject,
		VAPIDPublicKey:  sender.credentials.PublicKey,
		VAPIDPrivateKey: sender.credentials.PrivateKey,
		TTL:             int(sender.ttl.Seconds()),
	})
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, response.Body)

	return response.StatusCode, nil
}

// PushSenderFunc lets callers build a sender lazily so missing credentials
// surface on dispatch instead of at startup.
type PushSenderFunc func() (PushSender, error)

func WebPushSenderFunc(credentials VAPIDCredentials) PushSenderFunc {
	return func() (PushSender, error) {
		return NewWebPushSender(credentials)
	}
}

func GenerateVAPIDKeys() (VAPIDCredentials, error) {
	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return VAPIDCredentials{}, err
	}
	return VAPIDCredentials{PublicKey: publicKey, PrivateKey: privateKey}, nil
}

package services

import (
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/models"
)

const maxUserAgentLength = 512

var (
	ErrPushEndpointInvalid     = errors.New("endpoint must be an absolute https URL")
	ErrPushKeysMissing         = errors.New("p256dh and auth keys are required")
	ErrPushSubscriptionMissing = errors.New("subscription not found")
)

type PushSubscriptionRepository interface {
	Upsert(subscription *models.PushSubscription) error
	ListByUser(userID uuid.UUID) ([]models.PushSubscription, error)
	DeleteByUserAndEndpoint(userID uuid.UUID, endpoint string) (int64, error)
}

type PushSubscriptionInput struct {
	Endpoint  string `json:"endpoint"`
	P256dh    string `json:"p256dh"`
	Auth      string `json:"auth"`
	UserAgent string `json:"ua"`
}

type PushSubscriptionService struct {
	subscriptions PushSubscriptionRepository
}

func NewPushSubscriptionService(subscriptions PushSubscriptionRepository) *PushSubscriptionService {
	return &PushSubscriptionService{subscriptions: subscriptions}
}

func ValidatePushEndpoint(raw string) (string, error) {
	endpoint := strings.TrimSpace(raw)
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return "", ErrPushEndpointInvalid
	}
	return endpoint, nil
}

// truncateUTF8 cuts value to at most limit bytes without splitting a rune.
func truncateUTF8(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}

// Subscribe upserts the caller's subscription; each user keeps one.
func (service *PushSubscriptionService) Subscribe(userID uuid.UUID, input PushSubscriptionInput) (models.PushSubscription, error) {
	endpoint, err := ValidatePushEndpoint(input.Endpoint)
	if err != nil {
		return models.PushSubscription{}, err
	}
	p256dh := strings.TrimSpace(input.P256dh)
	auth := strings.TrimSpace(input.Auth)
	if p256dh == "" || auth == "" {
		return models.PushSubscription{}, ErrPushKeysMissing
	}

	userAgent := truncateUTF8(strings.TrimSpace(input.UserAgent), maxUserAgentLength)

	subscription := models.PushSubscription{
		UserID:    userID,
		Endpoint:  endpoint,
		P256dh:    p256dh,
		Auth:      auth,
		UserAgent: userAgent,
	}
	if err := service.subscriptions.Upsert(&subscription); err != nil {
		return models.PushSubscription{}, err
	}
	return subscription, nil
}

func (service *PushSubscriptionService) Unsubscribe(userID uuid.UUID, rawEndpoint string) error {
	endpoint := strings.TrimSpace(rawEndpoint)
	if endpoint == "" {
		return ErrPushEndpointInvalid
	}
	removed, err := service.subscriptions.DeleteByUserAndEndpoint(userID, endpoint)
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrPushSubscriptionMissing
	}
	return nil
}

func (service *PushSubscriptionService) List(userID uuid.UUID) ([]models.PushSubscription, error) {
	return service.subscriptions.ListByUser(userID)
}

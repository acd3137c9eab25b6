package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/terraincognita07/bujo/internal/models"
)

const (
	DispatchStatusSent  = "sent"
	DispatchStatusError = "error"
)

type ReminderTargetRepository interface {
	ListReminderTargets() ([]models.ReminderTarget, error)
	DeleteByID(id uint) error
}

type DispatchResult struct {
	Endpoint   string `json:"endpoint"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	Removed    bool   `json:"removed,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

type DispatchSummary struct {
	Sent    int              `json:"sent"`
	Results []DispatchResult `json:"results"`
}

type ReminderDispatcher struct {
	targets     ReminderTargetRepository
	newSender   PushSenderFunc
	reminderURL string
}

func NewReminderDispatcher(targets ReminderTargetRepository, newSender PushSenderFunc, reminderURL string) *ReminderDispatcher {
	return &ReminderDispatcher{
		targets:     targets,
		newSender:   newSender,
		reminderURL: reminderURL,
	}
}

// Dispatch sends one reminder to every opted-in subscription whose local
// time is inside its reminder window at now. Sends run one after another;
// a failing subscription never stops the run.
func (dispatcher *ReminderDispatcher) Dispatch(ctx context.Context, now time.Time) (DispatchSummary, error) {
	sender, err := dispatcher.newSender()
	if err != nil {
		return DispatchSummary{}, err
	}

	targets, err := dispatcher.targets.ListReminderTargets()
	if err != nil {
		return DispatchSummary{}, fmt.Errorf("load reminder targets: %w", err)
	}

	summary := DispatchSummary{Results: make([]DispatchResult, 0)}
	message := PushMessage{Title: ReminderTitle, Body: ReminderBody, URL: dispatcher.reminderURL}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		// A missing or unparsable reminder time means no reminder.
		hour, minute, ok := ParseReminderTime(target.ReminderTime)
		if !ok {
			continue
		}

		localMinutes, err := LocalMinutes(now, target.Timezone)
		if err != nil {
			summary.Results = append(summary.Results, DispatchResult{
				Endpoint: target.Endpoint,
				Status:   DispatchStatusError,
				Message:  err.Error(),
			})
			continue
		}
		if !IsReminderDue(localMinutes, hour*60+minute) {
			continue
		}

		summary.Results = append(summary.Results, dispatcher.deliver(ctx, sender, target, message, &summary))
	}

	log.Printf("reminders: dispatch at %s sent=%d results=%d", now.UTC().Format(time.RFC3339), summary.Sent, len(summary.Results))
	return summary, nil
}

func (dispatcher *ReminderDispatcher) deliver(ctx context.Context, sender PushSender, target models.ReminderTarget, message PushMessage, summary *DispatchSummary) DispatchResult {
	statusCode, err := sender.Send(ctx, PushEndpoint{
		Endpoint: target.Endpoint,
		P256dh:   target.P256dh,
		Auth:     target.Auth,
	}, message)
	if err != nil {
		return DispatchResult{Endpoint: target.Endpoint, Status: DispatchStatusError, Message: err.Error()}
	}

	if statusCode >= 200 && statusCode < 300 {
		summary.Sent++
		return DispatchResult{Endpoint: target.Endpoint, Status: DispatchStatusSent}
	}

	result := DispatchResult{
		Endpoint:   target.Endpoint,
		Status:     DispatchStatusError,
		Message:    fmt.Sprintf("push service responded %d %s", statusCode, http.StatusText(statusCode)),
		StatusCode: statusCode,
	}
	if isGoneSubscriptionStatus(statusCode) {
		if err := dispatcher.targets.DeleteByID(target.ID); err != nil {
			result.Message = fmt.Sprintf("%s; remove subscription: %v", result.Message, err)
			return result
		}
		log.Printf("reminders: removed subscription %d (status %d)", target.ID, statusCode)
		result.Removed = true
	}
	return result
}

func isGoneSubscriptionStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusNotFound, http.StatusGone, http.StatusBadRequest:
		return true
	default:
		return false
	}
}

package services

import (
	"context"
	"log"
	"time"
)

type ReminderScheduler struct {
	dispatcher *ReminderDispatcher
	interval   time.Duration
	now        func() time.Time
}

func NewReminderScheduler(dispatcher *ReminderDispatcher, interval time.Duration) *ReminderScheduler {
	return &ReminderScheduler{
		dispatcher: dispatcher,
		interval:   interval,
		now:        time.Now,
	}
}

// Start runs dispatch passes on a ticker until ctx is cancelled. A pass
// finishes before the next tick is read, so runs never overlap in-process.
func (scheduler *ReminderScheduler) Start(ctx context.Context) {
	if scheduler.interval <= 0 {
		return
	}

	ticker := time.NewTicker(scheduler.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scheduler.RunOnce(ctx)
		}
	}
}

func (scheduler *ReminderScheduler) RunOnce(ctx context.Context) {
	summary, err := scheduler.dispatcher.Dispatch(ctx, scheduler.now())
	if err != nil {
		log.Printf("reminders: scheduled dispatch failed: %v", err)
		return
	}
	for _, result := range summary.Results {
		if result.Status == DispatchStatusError {
			log.Printf("reminders: %s: %s", result.Endpoint, result.Message)
		}
	}
}

package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"coursebook/models"
)

const (
	TypeNotificationSend = "notification:send"
	TypeReminderSend     = "reminder:send"
)

// TaskQueue enqueues background work. Handlers run in the asynq worker.
type TaskQueue interface {
	// EnqueueNotification queues a push notification for immediate dispatch.
	EnqueueNotification(ctx context.Context, payload models.NotificationPayload) error
	// ScheduleReminder queues a session reminder to fire at the given time.
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

// AsynqTaskQueue implements TaskQueue on top of an asynq client.
type AsynqTaskQueue struct {
	Client *asynq.Client
}

// NewAsynqTaskQueue wraps an asynq client in the TaskQueue interface.
func NewAsynqTaskQueue(client *asynq.Client) TaskQueue {
	return &AsynqTaskQueue{Client: client}
}

func (q *AsynqTaskQueue) EnqueueNotification(ctx context.Context, payload models.NotificationPayload) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}
	task := asynq.NewTask(TypeNotificationSend, b)
	if _, err := q.Client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("failed to enqueue notification task: %w", err)
	}
	return nil
}

func (q *AsynqTaskQueue) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal reminder payload: %w", err)
	}
	task := asynq.NewTask(TypeReminderSend, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt), asynq.MaxRetry(3)}
	if _, err := q.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder task: %w", err)
	}
	return nil
}

package worker

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"coursebook/config"
	"coursebook/models"
	"coursebook/services/notification"
	"coursebook/services/tasks"
	"coursebook/utils"
)

// Start runs the asynq worker in the background. It consumes the
// notification and reminder queues and dispatches through the
// notification service.
func Start(notifSvc notification.NotificationService) {
	logger := utils.GetLogger()

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeNotificationSend, handleNotificationTask(notifSvc))
	mux.HandleFunc(tasks.TypeReminderSend, handleReminderTask(notifSvc))

	go func() {
		logger.Info("starting background worker")
		if err := srv.Run(mux); err != nil {
			logger.Fatal("background worker failed", zap.Error(err))
		}
	}()
}

func handleNotificationTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.NotificationPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid notification payload", zap.Error(err))
			return err
		}

		if err := notifSvc.SendPush(ctx, p.UserID, p.Title, p.Body, p.Data); err != nil {
			logger.Warn("failed to send notification",
				zap.String("userId", p.UserID), zap.Error(err))
			return err
		}
		return nil
	}
}

func handleReminderTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		data := map[string]string{
			"bookingId": p.BookingID,
			"sessionId": p.SessionID,
			"fireDate":  p.FireDate,
		}
		if err := notifSvc.SendPush(ctx, p.UserID, p.Title, p.Body, data); err != nil {
			logger.Warn("failed to send reminder",
				zap.String("userId", p.UserID), zap.Error(err))
			return err
		}
		return nil
	}
}

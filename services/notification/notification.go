package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"

	userRepo "coursebook/database/repository/user"
)

// NotificationService sends push notifications to users.
type NotificationService interface {
	SendPush(ctx context.Context, userID, title, body string, data map[string]string) error
}

// FCMNotificationService implements NotificationService using Firebase
// Cloud Messaging. The user's registration token is stored on the
// identity record.
type FCMNotificationService struct {
	Client *messaging.Client
	Users  userRepo.UserRepository
}

func (svc *FCMNotificationService) SendPush(ctx context.Context, userID, title, body string, data map[string]string) error {
	u, err := svc.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user %s: %w", userID, err)
	}
	if u == nil || u.FCMToken == "" {
		// Nothing to deliver to; not an error.
		return nil
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := svc.Client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send push to user %s: %w", userID, err)
	}
	return nil
}

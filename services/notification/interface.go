package notification

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/messaging"
)

var ErrNoToken = errors.New("worker has no FCM token")

// NotificationService defines methods for sending FCM pushes to workers.
type NotificationService interface {
	SendWorkerPushNotification(ctx context.Context, token, title, body string, data map[string]string) error
}

// FCMSender is the part of the Firebase messaging client used here.
type FCMSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	client FCMSender
}

func NewDefaultNotificationService(client FCMSender) (*DefaultNotificationService, error) {
	if client == nil {
		return nil, fmt.Errorf("notification service initialization error: FCM client is nil")
	}
	return &DefaultNotificationService{client: client}, nil
}

// SendWorkerPushNotification sends a high-priority push to one device.
func (s *DefaultNotificationService) SendWorkerPushNotification(
	ctx context.Context,
	token, title, body string,
	data map[string]string,
) error {
	if token == "" {
		return ErrNoToken
	}
	if data == nil {
		data = map[string]string{}
	}
	if _, ok := data["role"]; !ok {
		data["role"] = "worker"
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "job_offers",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	if _, err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("SendWorkerPushNotification: failed to send FCM message: %w", err)
	}
	return nil
}

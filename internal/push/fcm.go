package push

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	"io.winapps.pushrelay/internal/apperrors"
)

// FCMClient delivers messages through Firebase Cloud Messaging.
type FCMClient struct {
	client *messaging.Client
	logger *zap.SugaredLogger
}

// NewFCMClient creates an FCM push client from an initialized Firebase app.
func NewFCMClient(ctx context.Context, app *firebase.App, logger *zap.SugaredLogger) (*FCMClient, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &FCMClient{client: client, logger: logger}, nil
}

// Submit sends one message via FCM. The returned message name serves as the
// delivery receipt.
func (f *FCMClient) Submit(ctx context.Context, msg Message) (*Receipt, error) {
	sound := msg.Sound
	if sound == "" {
		sound = "default"
	}
	channelID := msg.ChannelID
	if channelID == "" {
		channelID = "default"
	}

	fcmMsg := &messaging.Message{
		Token: msg.To,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				ChannelID: channelID,
				Priority:  messaging.PriorityHigh,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: msg.Title,
						Body:  msg.Body,
					},
					Sound: sound,
				},
			},
		},
	}

	name, err := f.client.Send(ctx, fcmMsg)
	if err != nil {
		code := fcmErrorCode(err)
		if f.logger != nil {
			f.logger.Warnw("fcm rejected message", "error_code", code, "error", err)
		}
		if code == "" {
			return nil, apperrors.Unavailable(err, "fcm send failed")
		}
		return nil, apperrors.DeliveryFailed(code, "%v", err)
	}

	return &Receipt{ID: name, Provider: "fcm"}, nil
}

// fcmErrorCode maps the SDK's error predicates to the provider code we
// surface; "" means the failure was not a per-message rejection.
func fcmErrorCode(err error) string {
	switch {
	case messaging.IsUnregistered(err):
		return "registration-token-not-registered"
	case messaging.IsInvalidArgument(err):
		return "invalid-registration-token"
	case messaging.IsSenderIDMismatch(err):
		return "sender-id-mismatch"
	case messaging.IsQuotaExceeded(err):
		return "quota-exceeded"
	case messaging.IsThirdPartyAuthError(err):
		return "third-party-auth-error"
	case messaging.IsUnavailable(err), messaging.IsInternal(err):
		return ""
	default:
		return "unknown"
	}
}

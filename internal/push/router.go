package push

import (
	"context"

	"io.winapps.pushrelay/internal/apperrors"
)

// Router picks the transport for a message by the shape of its token: Expo
// push tokens go to the Expo service, everything else to FCM. Both sides of
// the split present the same per-message contract, so callers never see
// which transport carried a message.
type Router struct {
	expo Provider
	fcm  Provider
}

// NewRouter creates a token-shape router. Either provider may be nil when
// the deployment only carries one transport.
func NewRouter(expo, fcm Provider) *Router {
	return &Router{expo: expo, fcm: fcm}
}

func (r *Router) Submit(ctx context.Context, msg Message) (*Receipt, error) {
	if IsExpoToken(msg.To) {
		if r.expo == nil {
			return nil, apperrors.Unavailable(nil, "expo transport not configured")
		}
		return r.expo.Submit(ctx, msg)
	}
	if r.fcm == nil {
		return nil, apperrors.Unavailable(nil, "fcm transport not configured")
	}
	return r.fcm.Submit(ctx, msg)
}

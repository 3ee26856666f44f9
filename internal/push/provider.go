package push

import "context"

// Message is one logical notification addressed to a single device token.
// Data is an opaque payload passed through to the device verbatim.
type Message struct {
	To       string
	Title    string
	Body     string
	Data     map[string]string
	Sound    string
	Priority string
	// ChannelID is the Android notification channel, ignored by Expo.
	ChannelID string
}

// Receipt acknowledges that the provider accepted one message for delivery.
// It is not a guarantee the device displayed it.
type Receipt struct {
	ID       string
	Provider string
}

// Provider submits one message and reports its per-message outcome. Batching
// into transport chunks is an internal concern of implementations; callers
// always deal in single logical messages.
type Provider interface {
	Submit(ctx context.Context, msg Message) (*Receipt, error)
}

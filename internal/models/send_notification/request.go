package models

// Request is the body of POST /api/notifications/send. Exactly one of
// UserID or Token must resolve to a delivery target; Token wins if both
// are present. Data is an opaque payload: any JSON object is accepted and
// passed through to the device.
type Request struct {
	UserID string         `json:"userId"`
	Token  string         `json:"token"`
	Title  string         `json:"title"`
	Body   string         `json:"body"`
	Data   map[string]any `json:"data"`
}

package models

// Response is the data payload for a delivered notification.
type Response struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	SentAt  string `json:"sentAt"`
	Receipt string `json:"receipt"`
}

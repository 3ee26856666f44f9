package models

// Response is the data payload returned for a registration, new or existing.
type Response struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Token     string `json:"token"`
	CreatedAt string `json:"createdAt"`
}

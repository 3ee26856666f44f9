package user

import "time"

// Record is the sole persisted entity: one registered device per row,
// deduplicated by delivery token.
type Record struct {
	UserID        string    `json:"userId" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	DeliveryToken string    `json:"token" db:"delivery_token"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

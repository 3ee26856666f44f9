package models

// Request is the body of POST /api/users/register.
type Request struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

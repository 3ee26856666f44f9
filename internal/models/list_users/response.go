package models

import usermodels "io.winapps.pushrelay/internal/models/user"

// Response is the data payload of GET /api/users. Diagnostics only: raw
// delivery tokens are exposed here.
type Response struct {
	Users []usermodels.Record `json:"users"`
	Count int                 `json:"count"`
}

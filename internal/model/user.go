package model

import "time"

// User represents an authenticated user. Authentication itself happens
// upstream (OAuth on the primary session); this layer only resolves the
// identity that the auth middleware established.
type User struct {
	ID             string    `json:"id"`
	GoogleID       string    `json:"googleId,omitempty"`
	DisplayName    string    `json:"displayName"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

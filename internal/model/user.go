package model

import "time"

// User carries the display profile attached to match results. Identity and
// credentials live elsewhere; this service only ever reads users.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	Age        int       `json:"age,omitempty"`
	Occupation string    `json:"occupation,omitempty"`
	CreatedOn  time.Time `json:"created_on"`
}

// CreateUserRequest registers a minimal profile.
type CreateUserRequest struct {
	Name       string `json:"name,omitempty"`
	Age        int    `json:"age,omitempty"`
	Occupation string `json:"occupation,omitempty"`
}

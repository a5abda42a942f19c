package roster

import (
	"strconv"
	"time"
)

// User represents a person known to the system. The ID is the external
// chat-platform identity and is immutable.
type User struct {
	ID            int64     `json:"id"`
	Username      *string   `json:"username,omitempty"`
	FullName      *string   `json:"full_name,omitempty"`
	IsCoordinator bool      `json:"is_coordinator"`
	CreatedAt     time.Time `json:"created_at"`
}

// DisplayName returns the best available human-readable name for the user:
// full name, then username, then the raw identifier.
func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return strconv.FormatInt(u.ID, 10)
}

package roster

// RegisterRequest represents the request body for registering the caller
type RegisterRequest struct {
	Username *string `json:"username,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

// RegisterResponse reports the registration outcome. NamePending is true
// when the caller still owes the service a display name.
type RegisterResponse struct {
	User        *UserResponse `json:"user"`
	NamePending bool          `json:"name_pending"`
}

// SubmitNameRequest represents the request body for completing registration
type SubmitNameRequest struct {
	FullName string `json:"full_name"`
}

// UserResponse represents the response for a single user
type UserResponse struct {
	ID            int64   `json:"id"`
	Username      *string `json:"username,omitempty"`
	FullName      *string `json:"full_name,omitempty"`
	IsCoordinator bool    `json:"is_coordinator"`
	CreatedAt     string  `json:"created_at"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		FullName:      u.FullName,
		IsCoordinator: u.IsCoordinator,
		CreatedAt:     u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

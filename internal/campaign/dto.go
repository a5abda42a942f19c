package campaign

// CreateCampaignRequest represents the request body for creating a campaign.
// TotalAmount is in minor currency units.
type CreateCampaignRequest struct {
	Title       string `json:"title" validate:"required"`
	TotalAmount int64  `json:"total_amount" validate:"min=0"`
}

// ToggleRequest represents the request body for acknowledging a payment
type ToggleRequest struct {
	Paid bool `json:"paid"`
}

// CampaignResponse represents the response for a single campaign
type CampaignResponse struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	TotalAmount   int64  `json:"total_amount"`
	PerUserAmount int64  `json:"per_user_amount"`
	CreatedBy     int64  `json:"created_by"`
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at"`
}

// CreateCampaignResponse reports the creation outcome, including the exact
// participant snapshot the campaign was built against.
type CreateCampaignResponse struct {
	Campaign            *CampaignResponse `json:"campaign"`
	Participants        []int64           `json:"participants"`
	PerUserAmount       int64             `json:"per_user_amount"`
	NotificationsQueued int               `json:"notifications_queued"`
}

// StatsResponse represents the aggregate payment state of a campaign.
// Remaining is the coordinator-facing estimate of what is left to collect.
type StatsResponse struct {
	Total     int   `json:"total_members"`
	Paid      int   `json:"paid_count"`
	Unpaid    int   `json:"unpaid_count"`
	Remaining int64 `json:"remaining_estimate"`
}

// MemberResponse is one participant's payment state with display identity
type MemberResponse struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Paid        bool   `json:"paid"`
}

// MembersResponse partitions a campaign's participants by payment state
type MembersResponse struct {
	Paid   []MemberResponse `json:"paid"`
	Unpaid []MemberResponse `json:"unpaid"`
}

// StatusResponse is the caller's view of the active campaign. Share and
// payment fields are present only when the caller is a tracked participant.
type StatusResponse struct {
	Campaign      *CampaignResponse `json:"campaign,omitempty"`
	Role          string            `json:"role,omitempty"`
	IsParticipant bool              `json:"is_participant"`
	PerUserAmount *int64            `json:"per_user_amount,omitempty"`
	Paid          *bool             `json:"paid,omitempty"`
}

// RemindResponse reports how many reminders were queued
type RemindResponse struct {
	Queued int `json:"queued"`
	Total  int `json:"total"`
}

// ToResponse converts a Campaign model to a CampaignResponse DTO
func (c *Campaign) ToResponse() *CampaignResponse {
	return &CampaignResponse{
		ID:            c.ID,
		Title:         c.Title,
		TotalAmount:   c.TotalAmount,
		PerUserAmount: c.PerUserAmount,
		CreatedBy:     c.CreatedBy,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

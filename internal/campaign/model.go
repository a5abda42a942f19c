package campaign

import "time"

// Campaign represents one fundraising round. Amounts are integer minor
// currency units. A campaign is created active and becomes permanently
// historical once closed; rows are never deleted.
type Campaign struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	TotalAmount   int64     `json:"total_amount"`
	PerUserAmount int64     `json:"per_user_amount"`
	CreatedBy     int64     `json:"created_by"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// Membership associates one user with one campaign. The full membership
// set is written atomically at campaign creation; afterwards only the paid
// flag and timestamp mutate.
type Membership struct {
	ID         int64      `json:"id"`
	CampaignID int64      `json:"campaign_id"`
	UserID     int64      `json:"user_id"`
	HasPaid    bool       `json:"has_paid"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
}

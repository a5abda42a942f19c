package campaign

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles campaign data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new campaign repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithMembers inserts the campaign row and one membership row per
// participant in a single transaction. A concurrent reader never observes
// a campaign with a partial membership set.
func (r *Repository) CreateWithMembers(ctx context.Context, c *Campaign, memberIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	campaignQuery := `
		INSERT INTO campaigns (title, total_amount, per_user_amount, created_by, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, is_active, created_at
	`
	err = tx.QueryRowContext(ctx, campaignQuery, c.Title, c.TotalAmount, c.PerUserAmount, c.CreatedBy).Scan(
		&c.ID,
		&c.IsActive,
		&c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	memberQuery := `
		INSERT INTO campaign_members (campaign_id, user_id)
		VALUES ($1, $2)
	`
	for _, userID := range memberIDs {
		if _, err := tx.ExecContext(ctx, memberQuery, c.ID, userID); err != nil {
			return fmt.Errorf("failed to create membership for user %d: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit campaign creation: %w", err)
	}

	return nil
}

// GetActive returns the active campaign with the greatest identifier, or
// nil when no campaign is active.
func (r *Repository) GetActive(ctx context.Context) (*Campaign, error) {
	query := `
		SELECT id, title, total_amount, per_user_amount, created_by, is_active, created_at
		FROM campaigns
		WHERE is_active = TRUE
		ORDER BY id DESC
		LIMIT 1
	`

	campaign := &Campaign{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&campaign.ID,
		&campaign.Title,
		&campaign.TotalAmount,
		&campaign.PerUserAmount,
		&campaign.CreatedBy,
		&campaign.IsActive,
		&campaign.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active campaign: %w", err)
	}

	return campaign, nil
}

// GetByID retrieves a campaign by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Campaign, error) {
	query := `
		SELECT id, title, total_amount, per_user_amount, created_by, is_active, created_at
		FROM campaigns
		WHERE id = $1
	`

	campaign := &Campaign{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&campaign.ID,
		&campaign.Title,
		&campaign.TotalAmount,
		&campaign.PerUserAmount,
		&campaign.CreatedBy,
		&campaign.IsActive,
		&campaign.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return campaign, nil
}

// GetMembership retrieves the unique membership for (campaign, user)
func (r *Repository) GetMembership(ctx context.Context, campaignID, userID int64) (*Membership, error) {
	query := `
		SELECT id, campaign_id, user_id, has_paid, paid_at
		FROM campaign_members
		WHERE campaign_id = $1 AND user_id = $2
	`

	membership := &Membership{}
	err := r.db.QueryRowContext(ctx, query, campaignID, userID).Scan(
		&membership.ID,
		&membership.CampaignID,
		&membership.UserID,
		&membership.HasPaid,
		&membership.PaidAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return membership, nil
}

// SetPaid sets the paid flag for a membership; the timestamp is written
// when marking and cleared when unmarking, in the same statement. Returns
// false when no membership exists for (campaign, user).
func (r *Repository) SetPaid(ctx context.Context, campaignID, userID int64, mark bool) (bool, error) {
	query := `
		UPDATE campaign_members
		SET has_paid = $3,
		    paid_at  = CASE WHEN $3 THEN NOW() ELSE NULL END
		WHERE campaign_id = $1 AND user_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, campaignID, userID, mark)
	if err != nil {
		return false, fmt.Errorf("failed to set paid flag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Stats returns (total members, paid count) for a campaign. An unknown
// campaign yields zeros, not an error.
func (r *Repository) Stats(ctx context.Context, campaignID int64) (int, int, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE has_paid)
		FROM campaign_members
		WHERE campaign_id = $1
	`

	var total, paid int
	if err := r.db.QueryRowContext(ctx, query, campaignID).Scan(&total, &paid); err != nil {
		return 0, 0, fmt.Errorf("failed to get campaign stats: %w", err)
	}

	return total, paid, nil
}

// ListPaidUnpaid partitions a campaign's membership rows by paid flag,
// each list ordered by user id.
func (r *Repository) ListPaidUnpaid(ctx context.Context, campaignID int64) ([]int64, []int64, error) {
	query := `
		SELECT user_id, has_paid
		FROM campaign_members
		WHERE campaign_id = $1
		ORDER BY user_id
	`

	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var paid, unpaid []int64
	for rows.Next() {
		var userID int64
		var hasPaid bool
		if err := rows.Scan(&userID, &hasPaid); err != nil {
			return nil, nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		if hasPaid {
			paid = append(paid, userID)
		} else {
			unpaid = append(unpaid, userID)
		}
	}

	return paid, unpaid, nil
}

// Deactivate marks a campaign inactive. There is no reactivation path.
func (r *Repository) Deactivate(ctx context.Context, campaignID int64) error {
	query := `UPDATE campaigns SET is_active = FALSE WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, campaignID); err != nil {
		return fmt.Errorf("failed to deactivate campaign: %w", err)
	}

	return nil
}

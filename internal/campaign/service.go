package campaign

import (
	"context"

	"github.com/avasilyev/fundbot/internal/roster"
)

// Store is the persistence surface the campaign service needs
type Store interface {
	CreateWithMembers(ctx context.Context, c *Campaign, memberIDs []int64) error
	GetActive(ctx context.Context) (*Campaign, error)
	GetByID(ctx context.Context, id int64) (*Campaign, error)
	GetMembership(ctx context.Context, campaignID, userID int64) (*Membership, error)
	SetPaid(ctx context.Context, campaignID, userID int64, mark bool) (bool, error)
	Stats(ctx context.Context, campaignID int64) (int, int, error)
	ListPaidUnpaid(ctx context.Context, campaignID int64) ([]int64, []int64, error)
	Deactivate(ctx context.Context, campaignID int64) error
}

// RosterSource supplies the user snapshot campaigns are created against.
// The campaign engine only ever reads from the roster.
type RosterSource interface {
	ListIDs(ctx context.Context) ([]int64, error)
	GetByID(ctx context.Context, id int64) (*roster.User, error)
}

// Stats is the aggregate payment state of one campaign
type Stats struct {
	Total  int
	Paid   int
	Unpaid int
}

// Status is the composite view of one user against the active campaign.
// PerUserAmount is populated only when the user holds a membership: a
// personal share is only meaningful for a tracked participant.
type Status struct {
	Campaign      *Campaign
	Membership    *Membership
	User          *roster.User
	PerUserAmount *int64
}

// Service implements the campaign engine
type Service struct {
	store Store
	users RosterSource
}

// NewService creates a new campaign service
func NewService(store Store, users RosterSource) *Service {
	return &Service{store: store, users: users}
}

// Create creates a campaign against a snapshot of the current roster. The
// creator is excluded from the snapshot and never receives a membership
// row; the per-user share is a ceiling division over the remaining
// participants (treated as one when the snapshot is empty). The campaign
// and its full membership set commit in one transaction.
//
// Create does not deactivate a prior active campaign; preventing two
// simultaneously active campaigns is the dispatcher's responsibility.
func (s *Service) Create(ctx context.Context, title string, totalAmount, creatorID int64) (*Campaign, []int64, int64, error) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return nil, nil, 0, err
	}

	participants := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != creatorID {
			participants = append(participants, id)
		}
	}

	perUser := SplitEven(totalAmount, len(participants))

	c := &Campaign{
		Title:         title,
		TotalAmount:   totalAmount,
		PerUserAmount: perUser,
		CreatedBy:     creatorID,
	}
	if err := s.store.CreateWithMembers(ctx, c, participants); err != nil {
		return nil, nil, 0, err
	}

	return c, participants, perUser, nil
}

// Active returns the current campaign, nil when none is active. The most
// recently created active campaign wins; this is the sole mechanism for
// resolving "the current campaign".
func (s *Service) Active(ctx context.Context) (*Campaign, error) {
	return s.store.GetActive(ctx)
}

// GetByID retrieves a campaign, nil when it does not exist
func (s *Service) GetByID(ctx context.Context, id int64) (*Campaign, error) {
	return s.store.GetByID(ctx, id)
}

// TogglePayment sets the paid flag for a member of a campaign. A user
// without a membership row yields false with no mutation. Re-marking the
// same value is a valid no-op that still refreshes or clears the
// timestamp consistently with the mark.
func (s *Service) TogglePayment(ctx context.Context, campaignID, userID int64, mark bool) (bool, error) {
	return s.store.SetPaid(ctx, campaignID, userID, mark)
}

// CampaignStats returns the aggregate payment counts for a campaign. A
// nonexistent campaign yields zero values, never an error.
func (s *Service) CampaignStats(ctx context.Context, campaignID int64) (*Stats, error) {
	total, paid, err := s.store.Stats(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return &Stats{Total: total, Paid: paid, Unpaid: total - paid}, nil
}

// PaidUnpaid partitions a campaign's members by paid flag
func (s *Service) PaidUnpaid(ctx context.Context, campaignID int64) ([]int64, []int64, error) {
	return s.store.ListPaidUnpaid(ctx, campaignID)
}

// CloseActive deactivates the current campaign. Returns false when no
// campaign is active. Closing is terminal; there is no reopen.
func (s *Service) CloseActive(ctx context.Context) (bool, error) {
	c, err := s.store.GetActive(ctx)
	if err != nil {
		return false, err
	}
	if c == nil {
		return false, nil
	}

	if err := s.store.Deactivate(ctx, c.ID); err != nil {
		return false, err
	}

	return true, nil
}

// UserStatus resolves the active campaign, the user's membership in it,
// and the user record. With no active campaign every field is nil.
func (s *Service) UserStatus(ctx context.Context, userID int64) (*Status, error) {
	c, err := s.store.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &Status{}, nil
	}

	membership, err := s.store.GetMembership(ctx, c.ID, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &Status{Campaign: c, Membership: membership, User: user}
	if membership != nil {
		amount := c.PerUserAmount
		status.PerUserAmount = &amount
	}

	return status, nil
}

package campaign_test

import (
	"context"
	"testing"
	"time"

	"github.com/avasilyev/fundbot/internal/campaign"
	"github.com/avasilyev/fundbot/internal/roster"
)

// fakeStore is an in-memory Store mirroring the repository's contract:
// campaign plus memberships appear together, not-found is nil, only the
// paid flag and timestamp mutate after creation.
type fakeStore struct {
	nextID    int64
	campaigns map[int64]*campaign.Campaign
	members   map[int64]map[int64]*campaign.Membership
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		campaigns: make(map[int64]*campaign.Campaign),
		members:   make(map[int64]map[int64]*campaign.Membership),
	}
}

func (s *fakeStore) CreateWithMembers(_ context.Context, c *campaign.Campaign, memberIDs []int64) error {
	s.nextID++
	c.ID = s.nextID
	c.IsActive = true
	c.CreatedAt = time.Now()

	stored := *c
	s.campaigns[c.ID] = &stored

	s.members[c.ID] = make(map[int64]*campaign.Membership, len(memberIDs))
	for _, userID := range memberIDs {
		s.members[c.ID][userID] = &campaign.Membership{
			CampaignID: c.ID,
			UserID:     userID,
		}
	}
	return nil
}

func (s *fakeStore) GetActive(_ context.Context) (*campaign.Campaign, error) {
	var latest *campaign.Campaign
	for _, c := range s.campaigns {
		if c.IsActive && (latest == nil || c.ID > latest.ID) {
			latest = c
		}
	}
	return latest, nil
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*campaign.Campaign, error) {
	return s.campaigns[id], nil
}

func (s *fakeStore) GetMembership(_ context.Context, campaignID, userID int64) (*campaign.Membership, error) {
	return s.members[campaignID][userID], nil
}

func (s *fakeStore) SetPaid(_ context.Context, campaignID, userID int64, mark bool) (bool, error) {
	m, ok := s.members[campaignID][userID]
	if !ok {
		return false, nil
	}
	m.HasPaid = mark
	if mark {
		now := time.Now()
		m.PaidAt = &now
	} else {
		m.PaidAt = nil
	}
	return true, nil
}

func (s *fakeStore) Stats(_ context.Context, campaignID int64) (int, int, error) {
	total, paid := 0, 0
	for _, m := range s.members[campaignID] {
		total++
		if m.HasPaid {
			paid++
		}
	}
	return total, paid, nil
}

func (s *fakeStore) ListPaidUnpaid(_ context.Context, campaignID int64) ([]int64, []int64, error) {
	var paid, unpaid []int64
	var maxID int64
	for userID := range s.members[campaignID] {
		if userID > maxID {
			maxID = userID
		}
	}
	for userID := int64(0); userID <= maxID; userID++ {
		m, ok := s.members[campaignID][userID]
		if !ok {
			continue
		}
		if m.HasPaid {
			paid = append(paid, userID)
		} else {
			unpaid = append(unpaid, userID)
		}
	}
	return paid, unpaid, nil
}

func (s *fakeStore) Deactivate(_ context.Context, campaignID int64) error {
	if c, ok := s.campaigns[campaignID]; ok {
		c.IsActive = false
	}
	return nil
}

type fakeRoster struct {
	ids   []int64
	users map[int64]*roster.User
}

func (r *fakeRoster) ListIDs(_ context.Context) ([]int64, error) {
	return r.ids, nil
}

func (r *fakeRoster) GetByID(_ context.Context, id int64) (*roster.User, error) {
	return r.users[id], nil
}

func newService(ids ...int64) (*campaign.Service, *fakeStore) {
	store := newFakeStore()
	users := make(map[int64]*roster.User, len(ids))
	for _, id := range ids {
		users[id] = &roster.User{ID: id}
	}
	svc := campaign.NewService(store, &fakeRoster{ids: ids, users: users})
	return svc, store
}

func TestCreateExcludesCreator(t *testing.T) {
	svc, _ := newService(1, 2, 3)
	ctx := context.Background()

	c, participants, perUser, err := svc.Create(ctx, "October", 300, 1)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if len(participants) != 2 {
		t.Fatalf("expected 2 participants, got %v", participants)
	}
	for _, id := range participants {
		if id == 1 {
			t.Errorf("creator must never receive a membership row")
		}
	}
	if perUser != 150 {
		t.Errorf("expected per-user amount 150, got %d", perUser)
	}
	if !c.IsActive {
		t.Errorf("new campaign must be active")
	}

	if m, _ := svc.TogglePayment(ctx, c.ID, 1, true); m {
		t.Errorf("creator toggle must report not-a-participant")
	}
}

func TestCreateEmptyRosterChargesCreatorShare(t *testing.T) {
	// Only the creator is registered: no membership rows, but the share
	// is still computed against a participant count of one.
	svc, _ := newService(7)
	ctx := context.Background()

	_, participants, perUser, err := svc.Create(ctx, "Solo", 5000, 7)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(participants) != 0 {
		t.Fatalf("expected no participants, got %v", participants)
	}
	if perUser != 5000 {
		t.Errorf("expected per-user amount 5000, got %d", perUser)
	}
}

func TestCreateIsAtomicAgainstStats(t *testing.T) {
	svc, _ := newService(1, 2, 3, 4, 5)
	ctx := context.Background()

	c, participants, _, err := svc.Create(ctx, "Trip", 1000, 1)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stats, err := svc.CampaignStats(ctx, c.ID)
	if err != nil {
		t.Fatalf("CampaignStats returned error: %v", err)
	}
	if stats.Total != len(participants) {
		t.Errorf("expected %d members immediately after create, got %d", len(participants), stats.Total)
	}
}

func TestTogglePaymentIdempotentAndReversible(t *testing.T) {
	svc, store := newService(1, 2, 3)
	ctx := context.Background()

	c, _, _, err := svc.Create(ctx, "Trip", 300, 1)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	ok, err := svc.TogglePayment(ctx, c.ID, 2, true)
	if err != nil || !ok {
		t.Fatalf("expected toggle to succeed, got ok=%v err=%v", ok, err)
	}
	m := store.members[c.ID][2]
	if !m.HasPaid || m.PaidAt == nil {
		t.Fatalf("expected paid membership with timestamp, got %+v", m)
	}

	// Re-marking the same value is a valid no-op.
	if ok, _ := svc.TogglePayment(ctx, c.ID, 2, true); !ok {
		t.Errorf("re-marking must still succeed")
	}

	ok, err = svc.TogglePayment(ctx, c.ID, 2, false)
	if err != nil || !ok {
		t.Fatalf("expected unmark to succeed, got ok=%v err=%v", ok, err)
	}
	if m.HasPaid || m.PaidAt != nil {
		t.Errorf("expected cleared membership, got %+v", m)
	}

	// Non-members never gain a row through toggling.
	if ok, _ := svc.TogglePayment(ctx, c.ID, 99, true); ok {
		t.Errorf("toggle for non-member must fail")
	}
	if _, exists := store.members[c.ID][99]; exists {
		t.Errorf("toggle must not create membership rows")
	}
}

func TestStatsConsistency(t *testing.T) {
	svc, _ := newService(1, 2, 3, 4)
	ctx := context.Background()

	c, _, _, err := svc.Create(ctx, "Trip", 999, 1)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	svc.TogglePayment(ctx, c.ID, 2, true)
	svc.TogglePayment(ctx, c.ID, 4, true)
	svc.TogglePayment(ctx, c.ID, 4, false)

	stats, err := svc.CampaignStats(ctx, c.ID)
	if err != nil {
		t.Fatalf("CampaignStats returned error: %v", err)
	}
	if stats.Paid+stats.Unpaid != stats.Total {
		t.Errorf("paid %d + unpaid %d != total %d", stats.Paid, stats.Unpaid, stats.Total)
	}
	if stats.Paid != 1 {
		t.Errorf("expected 1 paid, got %d", stats.Paid)
	}
}

func TestStatsForUnknownCampaign(t *testing.T) {
	svc, _ := newService(1, 2)

	stats, err := svc.CampaignStats(context.Background(), 42)
	if err != nil {
		t.Fatalf("unknown campaign must not be an error, got %v", err)
	}
	if stats.Total != 0 || stats.Paid != 0 || stats.Unpaid != 0 {
		t.Errorf("expected zero-valued stats, got %+v", stats)
	}
}

func TestCloseActiveLifecycle(t *testing.T) {
	svc, _ := newService(1, 2, 3)
	ctx := context.Background()

	if closed, _ := svc.CloseActive(ctx); closed {
		t.Fatalf("close with no active campaign must report false")
	}

	first, _, _, err := svc.Create(ctx, "First", 100, 1)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	closed, err := svc.CloseActive(ctx)
	if err != nil || !closed {
		t.Fatalf("expected close to succeed, got closed=%v err=%v", closed, err)
	}

	if active, _ := svc.Active(ctx); active != nil {
		t.Fatalf("expected no active campaign after close, got %+v", active)
	}

	second, _, _, err := svc.Create(ctx, "Second", 200, 1)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	active, _ := svc.Active(ctx)
	if active == nil || active.ID != second.ID {
		t.Fatalf("expected second campaign active, got %+v", active)
	}

	// The first campaign stays permanently historical.
	old, _ := svc.GetByID(ctx, first.ID)
	if old == nil || old.IsActive {
		t.Errorf("closed campaign must remain inactive, got %+v", old)
	}
}

func TestUserStatusShareOnlyForParticipants(t *testing.T) {
	svc, _ := newService(1, 2, 3)
	ctx := context.Background()

	status, err := svc.UserStatus(ctx, 2)
	if err != nil {
		t.Fatalf("UserStatus returned error: %v", err)
	}
	if status.Campaign != nil || status.PerUserAmount != nil {
		t.Fatalf("expected empty status with no active campaign, got %+v", status)
	}

	if _, _, _, err := svc.Create(ctx, "Trip", 300, 1); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	status, err = svc.UserStatus(ctx, 2)
	if err != nil {
		t.Fatalf("UserStatus returned error: %v", err)
	}
	if status.Membership == nil || status.PerUserAmount == nil {
		t.Fatalf("participant must see a share, got %+v", status)
	}
	if *status.PerUserAmount != 150 {
		t.Errorf("expected share 150, got %d", *status.PerUserAmount)
	}

	// The creator knows the campaign but owns no share.
	status, err = svc.UserStatus(ctx, 1)
	if err != nil {
		t.Fatalf("UserStatus returned error: %v", err)
	}
	if status.Campaign == nil {
		t.Fatalf("expected campaign in status")
	}
	if status.Membership != nil || status.PerUserAmount != nil {
		t.Errorf("non-participant must not see a share, got %+v", status)
	}
}

// Full scenario: roster A(coordinator), B, C. A creates "Trip" for 300;
// B and C owe 150 each; B pays; the campaign closes.
func TestCampaignScenario(t *testing.T) {
	const (
		userA = 1
		userB = 2
		userC = 3
	)
	svc, _ := newService(userA, userB, userC)
	ctx := context.Background()

	c, participants, perUser, err := svc.Create(ctx, "Trip", 300, userA)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(participants) != 2 || participants[0] != userB || participants[1] != userC {
		t.Fatalf("expected participants [B C], got %v", participants)
	}
	if perUser != 150 {
		t.Fatalf("expected per-user 150, got %d", perUser)
	}

	if ok, _ := svc.TogglePayment(ctx, c.ID, userB, true); !ok {
		t.Fatalf("B's payment toggle failed")
	}

	stats, _ := svc.CampaignStats(ctx, c.ID)
	if stats.Total != 2 || stats.Paid != 1 || stats.Unpaid != 1 {
		t.Fatalf("expected stats (2,1,1), got %+v", stats)
	}

	paid, unpaid, _ := svc.PaidUnpaid(ctx, c.ID)
	if len(paid) != 1 || paid[0] != userB {
		t.Fatalf("expected paid [B], got %v", paid)
	}
	if len(unpaid) != 1 || unpaid[0] != userC {
		t.Fatalf("expected unpaid [C], got %v", unpaid)
	}

	if closed, _ := svc.CloseActive(ctx); !closed {
		t.Fatalf("expected close to succeed")
	}
	if active, _ := svc.Active(ctx); active != nil {
		t.Fatalf("expected no active campaign, got %+v", active)
	}
}

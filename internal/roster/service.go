package roster

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrNoNamePending = errors.New("no name prompt pending for this user")
	ErrEmptyName     = errors.New("name cannot be empty")
)

// Store is the persistence surface the roster service needs
type Store interface {
	RegisterOrUpdate(ctx context.Context, id int64, username, fullName *string, isCoordinator bool) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	SetFullName(ctx context.Context, id int64, fullName string) error
	ListIDs(ctx context.Context) ([]int64, error)
	ListAll(ctx context.Context) ([]*User, error)
}

// Service handles roster business logic
type Service struct {
	store         Store
	conversations *ConversationStore
}

// NewService creates a new roster service with store dependency injected
func NewService(store Store) *Service {
	return &Service{
		store:         store,
		conversations: NewConversationStore(),
	}
}

// Register registers or updates the caller. The coordinator set is an
// explicit parameter supplied from configuration, never process state.
// The second return value reports whether the caller was moved into the
// awaiting-name conversation state.
func (s *Service) Register(ctx context.Context, id int64, username, fullName *string, coordinators map[int64]bool) (*User, bool, error) {
	user, err := s.store.RegisterOrUpdate(ctx, id, username, fullName, coordinators[id])
	if err != nil {
		return nil, false, err
	}

	// Coordinators are never prompted for a name.
	if !user.IsCoordinator && (user.FullName == nil || *user.FullName == "") {
		s.conversations.Set(id, StateAwaitingName)
		return user, true, nil
	}

	s.conversations.Clear(id)
	return user, false, nil
}

// SubmitName completes the registration conversation for a user who was
// prompted for their name.
func (s *Service) SubmitName(ctx context.Context, id int64, name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if s.conversations.Get(id) != StateAwaitingName {
		return ErrNoNamePending
	}

	if err := s.store.SetFullName(ctx, id, name); err != nil {
		return err
	}

	s.conversations.Clear(id)
	return nil
}

// GetByID retrieves a user by their external identity
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListIDs returns every known user identifier, ascending
func (s *Service) ListIDs(ctx context.Context) ([]int64, error) {
	return s.store.ListIDs(ctx)
}

// ListAll returns all users in registration order
func (s *Service) ListAll(ctx context.Context) ([]*User, error) {
	return s.store.ListAll(ctx)
}

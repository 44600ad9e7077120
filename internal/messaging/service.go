// internal/messaging/service.go

package messaging

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrSameUser = errors.New("conversation requires two distinct users")
)

// Service exposes the conversation store. Real-time message delivery lives in
// a separate gateway; this service only owns thread existence.
type Service interface {
	GetOrCreateDirect(ctx context.Context, user1ID, user2ID int64) (*Conversation, error)
	GetUserConversations(ctx context.Context, userID int64) ([]*Conversation, error)
}

type service struct {
	repo Repository
}

// NewService creates a new messaging service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// GetOrCreateDirect ensures a thread exists between two users. The check-
// then-create pair relies on the conversations uniqueness constraint, so two
// near-simultaneous matches resolve to one thread.
func (s *service) GetOrCreateDirect(ctx context.Context, user1ID, user2ID int64) (*Conversation, error) {
	if user1ID == user2ID {
		return nil, ErrSameUser
	}

	conv, err := s.repo.GetDirectConversation(ctx, user1ID, user2ID)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	conv, err = s.repo.CreateDirectConversation(ctx, user1ID, user2ID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure conversation: %w", err)
	}

	return conv, nil
}

func (s *service) GetUserConversations(ctx context.Context, userID int64) ([]*Conversation, error) {
	return s.repo.GetUserConversations(ctx, userID)
}

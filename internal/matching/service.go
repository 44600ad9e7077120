// internal/matching/service.go
// Connection state machine: like, cancel, reject, unmatch.
// State transitions are the source of truth; conversation creation and
// notification dispatch are best-effort side effects that never roll back a
// committed transition.

package matching

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/lumadating/luma-backend/internal/messaging"
	"github.com/lumadating/luma-backend/internal/notification"
	"github.com/lumadating/luma-backend/internal/profile"
)

var (
	ErrSelfLike           = errors.New("cannot like yourself")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrNoRelationshipGoal = errors.New("relationship goal not set")
)

// fallbackDisplayName is used in notification copy when the acting user's
// profile cannot be loaded; a missing name never blocks a transition.
const fallbackDisplayName = "Someone"

// ProfileStore is the read-side boundary to user profiles.
// Satisfied by profile.Service.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID int64) (*profile.Profile, error)
	GetLatestPersonalityTest(ctx context.Context, userID int64) (*profile.PersonalityTest, error)
	GetSnapshots(ctx context.Context, userIDs []int64) ([]*profile.Snapshot, error)
	GetDisplayName(ctx context.Context, userID int64) (string, error)
}

// ConversationStore ensures a message thread exists for a matched pair.
// Satisfied by messaging.Service.
type ConversationStore interface {
	GetOrCreateDirect(ctx context.Context, user1ID, user2ID int64) (*messaging.Conversation, error)
}

// Notifier dispatches user notifications, fire-and-forget.
// Satisfied by notification.Service.
type Notifier interface {
	Notify(ctx context.Context, userID int64, content, url string, notifType string) error
}

// Service drives the like/connection lifecycle and candidate ranking
type Service interface {
	// State machine verbs
	Like(ctx context.Context, senderID, receiverID int64) error
	CancelLike(ctx context.Context, senderID, receiverID int64) error
	Reject(ctx context.Context, receiverID, senderID int64) error
	Unmatch(ctx context.Context, userID, otherUserID int64) error

	// Ranking and views
	SuggestedMatches(ctx context.Context, userID int64, limit int) ([]*CompatibilityResult, error)
	CompatibilityFor(ctx context.Context, userID int64, candidateIDs []int64) ([]*CompatibilityResult, error)
	ListLikes(ctx context.Context, userID int64, direction string) ([]*CompatibilityResult, error)
	ListMatches(ctx context.Context, userID int64) ([]*CompatibilityResult, error)
}

// Options tunes ranking behavior
type Options struct {
	DefaultSuggestionLimit int
	CandidatePool          int
}

func (o *Options) withDefaults() {
	if o.DefaultSuggestionLimit <= 0 {
		o.DefaultSuggestionLimit = 20
	}
	if o.CandidatePool <= 0 {
		o.CandidatePool = 200
	}
}

type service struct {
	repo          Repository
	profiles      ProfileStore
	conversations ConversationStore
	notifier      Notifier
	opts          Options
}

// NewService creates the matching service
func NewService(repo Repository, profiles ProfileStore, conversations ConversationStore, notifier Notifier, opts Options) Service {
	opts.withDefaults()
	return &service{
		repo:          repo,
		profiles:      profiles,
		conversations: conversations,
		notifier:      notifier,
		opts:          opts,
	}
}

// Like records interest from sender toward receiver. A repeat like is a
// silent no-op; a reciprocal like promotes both pendings into a connection.
func (s *service) Like(ctx context.Context, senderID, receiverID int64) error {
	if senderID == receiverID {
		return ErrSelfLike
	}

	// A connection and a pending like must never coexist, so a like toward
	// an existing match changes nothing.
	connected, err := s.repo.IsConnected(ctx, senderID, receiverID)
	if err != nil {
		return fmt.Errorf("failed to check connection: %w", err)
	}
	if connected {
		return nil
	}

	reverse, err := s.repo.HasPendingLike(ctx, receiverID, senderID)
	if err != nil {
		return fmt.Errorf("failed to check reverse like: %w", err)
	}
	if reverse {
		return s.promote(ctx, senderID, receiverID)
	}

	created, err := s.repo.CreatePendingLike(ctx, senderID, receiverID)
	if err != nil {
		return fmt.Errorf("failed to create pending like: %w", err)
	}
	if !created {
		// Idempotent repeat: one pending row, no second notification
		return nil
	}

	// The reverse like may have landed between our lookup and our insert.
	// Whichever handler sees both directions resolves them; promotion is
	// idempotent, so both racing handlers converge on one connection.
	reverse, err = s.repo.HasPendingLike(ctx, receiverID, senderID)
	if err == nil && reverse {
		return s.promote(ctx, senderID, receiverID)
	}

	RecordLike("pending")

	senderName := s.displayName(ctx, senderID)
	s.notify(ctx, receiverID,
		fmt.Sprintf("%s is interested in you", senderName),
		"/likes/received",
		notification.TypeWaitingMatch,
	)

	return nil
}

// promote atomically turns a reciprocal like into a connection, then runs the
// match side effects
func (s *service) promote(ctx context.Context, senderID, receiverID int64) error {
	created, err := s.repo.PromoteToConnection(ctx, senderID, receiverID)
	if err != nil {
		return fmt.Errorf("failed to promote to connection: %w", err)
	}
	if !created {
		// A concurrent handler already resolved this match
		return nil
	}

	RecordLike("match")
	RecordMatch()

	// The conversation is a find-or-create cache keyed on the pair; if this
	// call fails the thread is created when either user first opens the chat.
	if _, err := s.conversations.GetOrCreateDirect(ctx, senderID, receiverID); err != nil {
		log.Printf("matching: failed to ensure conversation for %d/%d: %v", senderID, receiverID, err)
	}

	senderName := s.displayName(ctx, senderID)
	receiverName := s.displayName(ctx, receiverID)

	s.notify(ctx, senderID,
		fmt.Sprintf("You matched with %s!", receiverName),
		fmt.Sprintf("/matches/%d", receiverID),
		notification.TypeMatchSuccess,
	)
	s.notify(ctx, receiverID,
		fmt.Sprintf("You matched with %s!", senderName),
		fmt.Sprintf("/matches/%d", senderID),
		notification.TypeMatchSuccess,
	)

	return nil
}

// CancelLike withdraws a previously sent like. Deleting zero rows is success.
func (s *service) CancelLike(ctx context.Context, senderID, receiverID int64) error {
	deleted, err := s.repo.DeletePendingLike(ctx, senderID, receiverID)
	if err != nil {
		return fmt.Errorf("failed to cancel like: %w", err)
	}
	if !deleted {
		return nil
	}

	senderName := s.displayName(ctx, senderID)
	s.notify(ctx, receiverID,
		fmt.Sprintf("%s withdrew their like", senderName),
		"/likes/received",
		notification.TypeCancelLike,
	)

	return nil
}

// Reject declines an incoming like. Same underlying row as CancelLike, but
// the receiver acts and the original sender is told.
func (s *service) Reject(ctx context.Context, receiverID, senderID int64) error {
	deleted, err := s.repo.DeletePendingLike(ctx, senderID, receiverID)
	if err != nil {
		return fmt.Errorf("failed to reject like: %w", err)
	}
	if !deleted {
		return nil
	}

	receiverName := s.displayName(ctx, receiverID)
	s.notify(ctx, senderID,
		fmt.Sprintf("%s declined your like", receiverName),
		"/likes/sent",
		notification.TypeRejected,
	)

	return nil
}

// Unmatch dissolves a connection. Symmetric in its arguments; it never
// resurrects a pending like.
func (s *service) Unmatch(ctx context.Context, userID, otherUserID int64) error {
	deleted, err := s.repo.DeleteConnection(ctx, userID, otherUserID)
	if err != nil {
		return fmt.Errorf("failed to unmatch: %w", err)
	}
	if !deleted {
		return nil
	}

	RecordUnmatch()

	userName := s.displayName(ctx, userID)
	s.notify(ctx, otherUserID,
		fmt.Sprintf("%s ended your match", userName),
		"/matches",
		notification.TypeUnmatched,
	)

	return nil
}

// displayName loads notification copy for a user, degrading to a generic
// placeholder when the profile is missing
func (s *service) displayName(ctx context.Context, userID int64) string {
	name, err := s.profiles.GetDisplayName(ctx, userID)
	if err != nil || name == "" {
		return fallbackDisplayName
	}
	return name
}

// notify dispatches best-effort; failures are logged, never propagated
func (s *service) notify(ctx context.Context, userID int64, content, url string, notifType string) {
	if err := s.notifier.Notify(ctx, userID, content, url, notifType); err != nil {
		log.Printf("matching: failed to notify user %d (%s): %v", userID, notifType, err)
	}
}

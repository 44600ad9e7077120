// internal/messaging/repository.go

package messaging

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository persists direct conversations
type Repository interface {
	GetDirectConversation(ctx context.Context, user1ID, user2ID int64) (*Conversation, error)
	CreateDirectConversation(ctx context.Context, user1ID, user2ID int64) (*Conversation, error)
	GetUserConversations(ctx context.Context, userID int64) ([]*Conversation, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func orderedPair(user1ID, user2ID int64) (int64, int64) {
	if user1ID > user2ID {
		return user2ID, user1ID
	}
	return user1ID, user2ID
}

// GetDirectConversation finds the thread for a pair, nil when none exists
func (r *postgresRepository) GetDirectConversation(ctx context.Context, user1ID, user2ID int64) (*Conversation, error) {
	user1ID, user2ID = orderedPair(user1ID, user2ID)

	var conv Conversation
	query := `
		SELECT id, uuid, user1_id, user2_id, created_at
		FROM conversations
		WHERE user1_id = $1 AND user2_id = $2
	`

	err := r.db.GetContext(ctx, &conv, query, user1ID, user2ID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return &conv, nil
}

// CreateDirectConversation inserts the thread for a pair. Under a concurrent
// duplicate create, ON CONFLICT returns the existing row instead of erroring,
// so both racers end up with the same conversation.
func (r *postgresRepository) CreateDirectConversation(ctx context.Context, user1ID, user2ID int64) (*Conversation, error) {
	user1ID, user2ID = orderedPair(user1ID, user2ID)

	var conv Conversation
	query := `
		INSERT INTO conversations (uuid, user1_id, user2_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user1_id, user2_id) DO UPDATE SET user1_id = EXCLUDED.user1_id
		RETURNING id, uuid, user1_id, user2_id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query, uuid.NewString(), user1ID, user2ID).StructScan(&conv)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	return &conv, nil
}

func (r *postgresRepository) GetUserConversations(ctx context.Context, userID int64) ([]*Conversation, error) {
	var conversations []*Conversation
	query := `
		SELECT id, uuid, user1_id, user2_id, created_at
		FROM conversations
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY created_at DESC
	`

	err := r.db.SelectContext(ctx, &conversations, query, userID)
	return conversations, err
}

// internal/matching/repository.go

package matching

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository owns the pending_likes and connections relations. Every mutation
// of match state in the application goes through these methods.
type Repository interface {
	// Pending likes
	CreatePendingLike(ctx context.Context, senderID, receiverID int64) (bool, error)
	DeletePendingLike(ctx context.Context, senderID, receiverID int64) (bool, error)
	HasPendingLike(ctx context.Context, senderID, receiverID int64) (bool, error)
	GetSentLikeReceiverIDs(ctx context.Context, senderID int64) ([]int64, error)
	GetReceivedLikeSenderIDs(ctx context.Context, receiverID int64) ([]int64, error)

	// Connections
	PromoteToConnection(ctx context.Context, senderID, receiverID int64) (bool, error)
	IsConnected(ctx context.Context, user1ID, user2ID int64) (bool, error)
	DeleteConnection(ctx context.Context, user1ID, user2ID int64) (bool, error)
	GetConnectedUserIDs(ctx context.Context, userID int64) ([]int64, error)

	// Candidate discovery
	FindCandidateIDs(ctx context.Context, userID int64, limit int) ([]int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// orderedPair normalizes an unordered pair so user1 < user2, matching how
// connection rows are stored
func orderedPair(user1ID, user2ID int64) (int64, int64) {
	if user1ID > user2ID {
		return user2ID, user1ID
	}
	return user1ID, user2ID
}

// CreatePendingLike inserts the directional edge. Returns false when the row
// already existed; the unique constraint makes repeats harmless.
func (r *postgresRepository) CreatePendingLike(ctx context.Context, senderID, receiverID int64) (bool, error) {
	query := `
		INSERT INTO pending_likes (sender_id, receiver_id)
		VALUES ($1, $2)
		ON CONFLICT (sender_id, receiver_id) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query, senderID, receiverID)
	if err != nil {
		return false, fmt.Errorf("failed to create pending like: %w", err)
	}

	affected, err := res.RowsAffected()
	return affected > 0, err
}

// DeletePendingLike removes the edge if present. Zero rows deleted is a
// successful no-op: the caller's intent is already satisfied.
func (r *postgresRepository) DeletePendingLike(ctx context.Context, senderID, receiverID int64) (bool, error) {
	query := `DELETE FROM pending_likes WHERE sender_id = $1 AND receiver_id = $2`

	res, err := r.db.ExecContext(ctx, query, senderID, receiverID)
	if err != nil {
		return false, fmt.Errorf("failed to delete pending like: %w", err)
	}

	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (r *postgresRepository) HasPendingLike(ctx context.Context, senderID, receiverID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM pending_likes
			WHERE sender_id = $1 AND receiver_id = $2
		)
	`

	err := r.db.GetContext(ctx, &exists, query, senderID, receiverID)
	return exists, err
}

func (r *postgresRepository) GetSentLikeReceiverIDs(ctx context.Context, senderID int64) ([]int64, error) {
	var ids []int64
	query := `
		SELECT receiver_id FROM pending_likes
		WHERE sender_id = $1
		ORDER BY created_at DESC, id DESC
	`

	err := r.db.SelectContext(ctx, &ids, query, senderID)
	return ids, err
}

func (r *postgresRepository) GetReceivedLikeSenderIDs(ctx context.Context, receiverID int64) ([]int64, error) {
	var ids []int64
	query := `
		SELECT sender_id FROM pending_likes
		WHERE receiver_id = $1
		ORDER BY created_at DESC, id DESC
	`

	err := r.db.SelectContext(ctx, &ids, query, receiverID)
	return ids, err
}

// PromoteToConnection collapses a reciprocal like into a connection inside a
// single transaction: both directional pendings go away and the connection
// row appears, or neither happens. Returns false when another handler already
// created the connection; the unique constraint resolves the concurrent
// mutual-like race to one row without surfacing an error.
func (r *postgresRepository) PromoteToConnection(ctx context.Context, senderID, receiverID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deleteQuery := `
		DELETE FROM pending_likes
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
	`
	if _, err := tx.ExecContext(ctx, deleteQuery, senderID, receiverID); err != nil {
		return false, fmt.Errorf("failed to consume pending likes: %w", err)
	}

	user1ID, user2ID := orderedPair(senderID, receiverID)
	insertQuery := `
		INSERT INTO connections (user1_id, user2_id)
		VALUES ($1, $2)
		ON CONFLICT (user1_id, user2_id) DO NOTHING
	`
	res, err := tx.ExecContext(ctx, insertQuery, user1ID, user2ID)
	if err != nil {
		return false, fmt.Errorf("failed to create connection: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit promotion: %w", err)
	}

	return affected > 0, nil
}

func (r *postgresRepository) IsConnected(ctx context.Context, user1ID, user2ID int64) (bool, error) {
	user1ID, user2ID = orderedPair(user1ID, user2ID)

	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM connections
			WHERE user1_id = $1 AND user2_id = $2
		)
	`

	err := r.db.GetContext(ctx, &exists, query, user1ID, user2ID)
	return exists, err
}

// DeleteConnection removes the connection regardless of argument order.
func (r *postgresRepository) DeleteConnection(ctx context.Context, user1ID, user2ID int64) (bool, error) {
	query := `
		DELETE FROM connections
		WHERE (user1_id = $1 AND user2_id = $2)
		   OR (user1_id = $2 AND user2_id = $1)
	`

	res, err := r.db.ExecContext(ctx, query, user1ID, user2ID)
	if err != nil {
		return false, fmt.Errorf("failed to delete connection: %w", err)
	}

	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (r *postgresRepository) GetConnectedUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	query := `
		SELECT CASE WHEN user1_id = $1 THEN user2_id ELSE user1_id END
		FROM connections
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY matched_at DESC, id DESC
	`

	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

// FindCandidateIDs returns profile-holding users the given user could still
// be suggested: not themself, not already the target of one of their pending
// likes, not already connected to them. Incoming likes are deliberately kept
// in the pool.
func (r *postgresRepository) FindCandidateIDs(ctx context.Context, userID int64, limit int) ([]int64, error) {
	var ids []int64
	query := `
		SELECT p.user_id
		FROM profiles p
		WHERE p.user_id <> $1
		  AND NOT EXISTS (
			SELECT 1 FROM pending_likes pl
			WHERE pl.sender_id = $1 AND pl.receiver_id = p.user_id
		  )
		  AND NOT EXISTS (
			SELECT 1 FROM connections c
			WHERE c.user1_id = LEAST($1, p.user_id)
			  AND c.user2_id = GREATEST($1, p.user_id)
		  )
		ORDER BY p.user_id
		LIMIT $2
	`

	err := r.db.SelectContext(ctx, &ids, query, userID, limit)
	return ids, err
}

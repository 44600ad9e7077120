// internal/messaging/models.go

package messaging

import (
	"time"
)

// Conversation is a direct message thread between two matched users.
// The pair is stored normalized with user1_id < user2_id and carries a
// uniqueness constraint, so find-or-create can never produce duplicates for
// the same pair.
type Conversation struct {
	ID        int64     `json:"id" db:"id"`
	UUID      string    `json:"uuid" db:"uuid"`
	User1ID   int64     `json:"user1_id" db:"user1_id"`
	User2ID   int64     `json:"user2_id" db:"user2_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// OtherParticipant returns the peer of the given user in this conversation
func (c *Conversation) OtherParticipant(userID int64) int64 {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// internal/notification/models.go

package notification

import (
	"time"
)

// Notification types form a fixed vocabulary shared with clients.
// The matching engine emits the first five; the rest belong to collaborating
// features.
const (
	TypeWaitingMatch = "waiting_match"
	TypeMatchSuccess = "match_success"
	TypeCancelLike   = "cancel_like"
	TypeRejected     = "rejected"
	TypeUnmatched    = "unmatched"

	TypeMessage = "message"
	TypeSystem  = "system"
)

// Notification represents a stored in-app notification
type Notification struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	Type      string     `json:"type" db:"type"`
	Content   string     `json:"content" db:"content"`
	URL       string     `json:"url" db:"url"`
	IsRead    bool       `json:"is_read" db:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// internal/matching/models.go

package matching

import (
	"time"

	"github.com/lumadating/luma-backend/internal/profile"
)

// PendingLike is a one-directional, unconfirmed expression of interest.
// At most one row exists per ordered (sender, receiver) pair, and a pending
// like never coexists with a connection between the same two users.
type PendingLike struct {
	ID         int64     `json:"id" db:"id"`
	SenderID   int64     `json:"sender_id" db:"sender_id"`
	ReceiverID int64     `json:"receiver_id" db:"receiver_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Connection is a confirmed mutual match. The pair is stored normalized with
// user1_id < user2_id and queried symmetrically; its existence is the sole
// authority for "these two users are matched".
type Connection struct {
	ID        int64     `json:"id" db:"id"`
	User1ID   int64     `json:"user1_id" db:"user1_id"`
	User2ID   int64     `json:"user2_id" db:"user2_id"`
	MatchedAt time.Time `json:"matched_at" db:"matched_at"`
}

// CompatibilityScore is computed on demand and never persisted.
// All reported fields are percentages in [0,100]; OceanScore is present only
// when both sides have taken the personality assessment.
type CompatibilityScore struct {
	InterestScore      int                 `json:"interest_score"`
	GoalScore          int                 `json:"goal_score"`
	OceanScore         *int                `json:"ocean_score,omitempty"`
	TotalScore         int                 `json:"total_score"`
	PersonalityDetails *PersonalityDetails `json:"personality_details,omitempty"`
}

// PersonalityDetails exposes the candidate's raw trait percentages for
// display. Present whenever the candidate has an assessment, regardless of
// whether the requester does.
type PersonalityDetails struct {
	Openness          int `json:"openness"`
	Conscientiousness int `json:"conscientiousness"`
	Extraversion      int `json:"extraversion"`
	Agreeableness     int `json:"agreeableness"`
	Neuroticism       int `json:"neuroticism"`
}

// CompatibilityResult pairs a candidate profile with its score
type CompatibilityResult struct {
	Profile *profile.Profile    `json:"profile"`
	Score   *CompatibilityScore `json:"score"`
}

// LikeRequest is the payload for expressing interest in another user
type LikeRequest struct {
	ReceiverID int64 `json:"receiver_id" validate:"required,gt=0"`
}

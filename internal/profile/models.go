// internal/profile/models.go

package profile

import (
	"time"
)

// Relationship goal categories a user can declare
const (
	GoalLongTerm   = "long-term"
	GoalCasual     = "casual"
	GoalMarriage   = "marriage"
	GoalFriendship = "friendship"
)

// Profile represents a user's dating profile
type Profile struct {
	ID               int64      `json:"id" db:"id"`
	UserID           int64      `json:"user_id" db:"user_id"`
	Username         string     `json:"username" db:"username"`
	DisplayName      string     `json:"display_name" db:"display_name"`
	ProfilePicture   *string    `json:"profile_picture,omitempty" db:"profile_picture"`
	Bio              *string    `json:"bio,omitempty" db:"bio"`
	Interests        []string   `json:"interests" db:"interests"`
	RelationshipGoal *string    `json:"relationship_goal,omitempty" db:"relationship_goal"`
	BirthDate        *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// PersonalityTest holds one OCEAN assessment result.
// Scores are percentages in [0,100]. Only the most recent test per user is
// ever read by the matching engine; older rows are history.
type PersonalityTest struct {
	ID                int64     `json:"id" db:"id"`
	UserID            int64     `json:"user_id" db:"user_id"`
	Openness          float64   `json:"openness" db:"openness"`
	Conscientiousness float64   `json:"conscientiousness" db:"conscientiousness"`
	Extraversion      float64   `json:"extraversion" db:"extraversion"`
	Agreeableness     float64   `json:"agreeableness" db:"agreeableness"`
	Neuroticism       float64   `json:"neuroticism" db:"neuroticism"`
	TakenAt           time.Time `json:"taken_at" db:"taken_at"`
}

// Traits returns the five scores as a vector in OCEAN order
func (t *PersonalityTest) Traits() [5]float64 {
	return [5]float64{
		t.Openness,
		t.Conscientiousness,
		t.Extraversion,
		t.Agreeableness,
		t.Neuroticism,
	}
}

// Snapshot bundles a profile with its latest personality test for scoring.
// Personality is nil when the user has never taken the assessment.
type Snapshot struct {
	Profile     *Profile         `json:"profile"`
	Personality *PersonalityTest `json:"personality,omitempty"`
}

// SubmitPersonalityTestRequest is the payload for recording a new assessment
type SubmitPersonalityTestRequest struct {
	Openness          float64 `json:"openness" validate:"min=0,max=100"`
	Conscientiousness float64 `json:"conscientiousness" validate:"min=0,max=100"`
	Extraversion      float64 `json:"extraversion" validate:"min=0,max=100"`
	Agreeableness     float64 `json:"agreeableness" validate:"min=0,max=100"`
	Neuroticism       float64 `json:"neuroticism" validate:"min=0,max=100"`
}

// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

// Repository defines the profile repository interface
type Repository interface {
	GetProfileByUserID(ctx context.Context, userID int64) (*Profile, error)
	GetProfilesByUserIDs(ctx context.Context, userIDs []int64) ([]*Profile, error)
	GetDisplayName(ctx context.Context, userID int64) (string, error)

	GetLatestPersonalityTest(ctx context.Context, userID int64) (*PersonalityTest, error)
	GetLatestPersonalityTests(ctx context.Context, userIDs []int64) (map[int64]*PersonalityTest, error)
	SavePersonalityTest(ctx context.Context, test *PersonalityTest) error
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetProfileByUserID(ctx context.Context, userID int64) (*Profile, error) {
	var profile Profile
	var interests pq.StringArray

	query := `
		SELECT id, user_id, username, display_name, profile_picture, bio,
		       interests, relationship_goal, birth_date, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	row := r.db.QueryRowxContext(ctx, query, userID)
	err := row.Scan(
		&profile.ID, &profile.UserID, &profile.Username, &profile.DisplayName,
		&profile.ProfilePicture, &profile.Bio, &interests,
		&profile.RelationshipGoal, &profile.BirthDate,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.Interests = interests
	return &profile, nil
}

func (r *postgresRepository) GetProfilesByUserIDs(ctx context.Context, userIDs []int64) ([]*Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, user_id, username, display_name, profile_picture, bio,
		       interests, relationship_goal, birth_date, created_at, updated_at
		FROM profiles
		WHERE user_id = ANY($1)
		ORDER BY user_id
	`

	rows, err := r.db.QueryxContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		var profile Profile
		var interests pq.StringArray

		err := rows.Scan(
			&profile.ID, &profile.UserID, &profile.Username, &profile.DisplayName,
			&profile.ProfilePicture, &profile.Bio, &interests,
			&profile.RelationshipGoal, &profile.BirthDate,
			&profile.CreatedAt, &profile.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		profile.Interests = interests
		profiles = append(profiles, &profile)
	}

	return profiles, rows.Err()
}

func (r *postgresRepository) GetDisplayName(ctx context.Context, userID int64) (string, error) {
	var name string
	query := `SELECT display_name FROM profiles WHERE user_id = $1`

	err := r.db.GetContext(ctx, &name, query, userID)
	if err == sql.ErrNoRows {
		return "", ErrProfileNotFound
	}
	return name, err
}

// GetLatestPersonalityTest returns the most recent assessment, or nil when the
// user has never taken one. Absence is a normal state, not an error.
func (r *postgresRepository) GetLatestPersonalityTest(ctx context.Context, userID int64) (*PersonalityTest, error) {
	var test PersonalityTest
	query := `
		SELECT id, user_id, openness, conscientiousness, extraversion,
		       agreeableness, neuroticism, taken_at
		FROM personality_tests
		WHERE user_id = $1
		ORDER BY taken_at DESC, id DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &test, query, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get personality test: %w", err)
	}

	return &test, nil
}

func (r *postgresRepository) GetLatestPersonalityTests(ctx context.Context, userIDs []int64) (map[int64]*PersonalityTest, error) {
	if len(userIDs) == 0 {
		return map[int64]*PersonalityTest{}, nil
	}

	// DISTINCT ON keeps only the newest row per user
	query := `
		SELECT DISTINCT ON (user_id)
		       id, user_id, openness, conscientiousness, extraversion,
		       agreeableness, neuroticism, taken_at
		FROM personality_tests
		WHERE user_id = ANY($1)
		ORDER BY user_id, taken_at DESC, id DESC
	`

	rows, err := r.db.QueryxContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get personality tests: %w", err)
	}
	defer rows.Close()

	tests := make(map[int64]*PersonalityTest)
	for rows.Next() {
		var test PersonalityTest
		if err := rows.StructScan(&test); err != nil {
			return nil, err
		}
		tests[test.UserID] = &test
	}

	return tests, rows.Err()
}

func (r *postgresRepository) SavePersonalityTest(ctx context.Context, test *PersonalityTest) error {
	query := `
		INSERT INTO personality_tests (
			user_id, openness, conscientiousness, extraversion,
			agreeableness, neuroticism
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, taken_at
	`

	err := r.db.QueryRowxContext(
		ctx, query,
		test.UserID, test.Openness, test.Conscientiousness,
		test.Extraversion, test.Agreeableness, test.Neuroticism,
	).Scan(&test.ID, &test.TakenAt)
	if err != nil {
		return fmt.Errorf("failed to save personality test: %w", err)
	}

	return nil
}

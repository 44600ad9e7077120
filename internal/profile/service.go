// internal/profile/service.go

package profile

import (
	"context"
	"fmt"
)

// Service exposes the profile store to the rest of the application.
// The matching engine consumes it through its own ProfileStore interface.
type Service interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	GetLatestPersonalityTest(ctx context.Context, userID int64) (*PersonalityTest, error)
	GetSnapshot(ctx context.Context, userID int64) (*Snapshot, error)
	GetSnapshots(ctx context.Context, userIDs []int64) ([]*Snapshot, error)
	GetDisplayName(ctx context.Context, userID int64) (string, error)
	SubmitPersonalityTest(ctx context.Context, userID int64, req *SubmitPersonalityTestRequest) (*PersonalityTest, error)
}

type service struct {
	repo Repository
}

// NewService creates a new profile service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	return s.repo.GetProfileByUserID(ctx, userID)
}

func (s *service) GetLatestPersonalityTest(ctx context.Context, userID int64) (*PersonalityTest, error) {
	return s.repo.GetLatestPersonalityTest(ctx, userID)
}

func (s *service) GetDisplayName(ctx context.Context, userID int64) (string, error) {
	return s.repo.GetDisplayName(ctx, userID)
}

// GetSnapshot loads a profile together with its latest assessment.
// Profile and test stay separate entities: only the test may be absent.
func (s *service) GetSnapshot(ctx context.Context, userID int64) (*Snapshot, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	test, err := s.repo.GetLatestPersonalityTest(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Snapshot{Profile: profile, Personality: test}, nil
}

// GetSnapshots batches the profile and personality-test reads for a set of
// users. Users without a profile row are silently omitted.
func (s *service) GetSnapshots(ctx context.Context, userIDs []int64) ([]*Snapshot, error) {
	profiles, err := s.repo.GetProfilesByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}

	tests, err := s.repo.GetLatestPersonalityTests(ctx, ids)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*Snapshot, 0, len(profiles))
	for _, p := range profiles {
		snapshots = append(snapshots, &Snapshot{
			Profile:     p,
			Personality: tests[p.UserID],
		})
	}

	return snapshots, nil
}

func (s *service) SubmitPersonalityTest(ctx context.Context, userID int64, req *SubmitPersonalityTestRequest) (*PersonalityTest, error) {
	// The owning profile must exist before a test can be attached
	if _, err := s.repo.GetProfileByUserID(ctx, userID); err != nil {
		return nil, err
	}

	test := &PersonalityTest{
		UserID:            userID,
		Openness:          req.Openness,
		Conscientiousness: req.Conscientiousness,
		Extraversion:      req.Extraversion,
		Agreeableness:     req.Agreeableness,
		Neuroticism:       req.Neuroticism,
	}

	if err := s.repo.SavePersonalityTest(ctx, test); err != nil {
		return nil, fmt.Errorf("failed to record assessment: %w", err)
	}

	return test, nil
}

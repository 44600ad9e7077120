// internal/matching/recommendations.go
// Candidate ranking: who should a user see next, and how compatible are they
// with a specific set of candidates.

package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/lumadating/luma-backend/internal/profile"
)

// SuggestedMatches scores every remaining candidate for the user and returns
// the top results by total score. The pool already excludes the user, the
// targets of their outgoing likes, and their connections.
func (s *service) SuggestedMatches(ctx context.Context, userID int64, limit int) ([]*CompatibilityResult, error) {
	requester, err := s.requesterSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Scoring is meaningless without a declared goal
	if requester.Profile.RelationshipGoal == nil {
		return nil, ErrNoRelationshipGoal
	}

	if limit <= 0 {
		limit = s.opts.DefaultSuggestionLimit
	}

	candidateIDs, err := s.repo.FindCandidateIDs(ctx, userID, s.opts.CandidatePool)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}

	results, err := s.scoreCandidates(ctx, requester, candidateIDs)
	if err != nil {
		return nil, err
	}

	// Total descending, ties broken by candidate id ascending so equal
	// scores rank deterministically
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score.TotalScore != results[j].Score.TotalScore {
			return results[i].Score.TotalScore > results[j].Score.TotalScore
		}
		return results[i].Profile.UserID < results[j].Profile.UserID
	})

	if len(results) > limit {
		results = results[:limit]
	}

	RecordSuggestionBatch(len(results))

	return results, nil
}

// CompatibilityFor scores the user against an explicit candidate list,
// unranked. Self entries and candidates without profiles are skipped.
func (s *service) CompatibilityFor(ctx context.Context, userID int64, candidateIDs []int64) ([]*CompatibilityResult, error) {
	requester, err := s.requesterSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := make([]int64, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		if id == userID {
			continue
		}
		filtered = append(filtered, id)
	}

	return s.scoreCandidates(ctx, requester, filtered)
}

// ListLikes resolves the sent or received pending-like view with scores
func (s *service) ListLikes(ctx context.Context, userID int64, direction string) ([]*CompatibilityResult, error) {
	var ids []int64
	var err error

	switch direction {
	case "received":
		ids, err = s.repo.GetReceivedLikeSenderIDs(ctx, userID)
	default:
		ids, err = s.repo.GetSentLikeReceiverIDs(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}

	return s.CompatibilityFor(ctx, userID, ids)
}

// ListMatches resolves the user's connections with scores
func (s *service) ListMatches(ctx context.Context, userID int64) ([]*CompatibilityResult, error) {
	ids, err := s.repo.GetConnectedUserIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	return s.CompatibilityFor(ctx, userID, ids)
}

// requesterSnapshot loads the requesting user's profile and latest test,
// translating a missing profile into the service-level not-found error
func (s *service) requesterSnapshot(ctx context.Context, userID int64) (*profile.Snapshot, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load requester profile: %w", err)
	}

	test, err := s.profiles.GetLatestPersonalityTest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requester personality test: %w", err)
	}

	return &profile.Snapshot{Profile: p, Personality: test}, nil
}

func (s *service) scoreCandidates(ctx context.Context, requester *profile.Snapshot, candidateIDs []int64) ([]*CompatibilityResult, error) {
	if len(candidateIDs) == 0 {
		return []*CompatibilityResult{}, nil
	}

	snapshots, err := s.profiles.GetSnapshots(ctx, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate snapshots: %w", err)
	}

	results := make([]*CompatibilityResult, 0, len(snapshots))
	for _, candidate := range snapshots {
		score := Score(requester, candidate)
		RecordCompatibilityScore(float64(score.TotalScore))

		results = append(results, &CompatibilityResult{
			Profile: candidate.Profile,
			Score:   score,
		})
	}

	return results, nil
}

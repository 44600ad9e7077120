package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestedMatchesRequiresProfile(t *testing.T) {
	f := newFixture()

	_, err := f.service.SuggestedMatches(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestSuggestedMatchesRequiresGoal(t *testing.T) {
	f := newFixture()
	f.profiles.add(1, "Ana", []string{"hiking"}, nil, nil)

	_, err := f.service.SuggestedMatches(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrNoRelationshipGoal)
}

func TestSuggestedMatchesRanksByScore(t *testing.T) {
	f := newFixture()
	goal := goalPtr("long-term")
	f.profiles.add(1, "Ana", []string{"hiking", "art"}, goal, nil)
	f.profiles.add(2, "Ben", []string{"chess"}, goalPtr("casual"), nil)           // no overlap, different goal
	f.profiles.add(3, "Cara", []string{"hiking", "art"}, goal, nil)             // full overlap, same goal
	f.profiles.add(4, "Dan", []string{"hiking"}, goal, nil)                     // partial overlap, same goal
	f.repo.profileIDs = []int64{2, 3, 4}

	results, err := f.service.SuggestedMatches(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, int64(3), results[0].Profile.UserID)
	assert.Equal(t, int64(4), results[1].Profile.UserID)
	assert.Equal(t, int64(2), results[2].Profile.UserID)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score.TotalScore, results[i].Score.TotalScore)
	}
}

func TestSuggestedMatchesBreaksTiesByCandidateID(t *testing.T) {
	f := newFixture()
	goal := goalPtr("long-term")
	f.profiles.add(1, "Ana", []string{"hiking"}, goal, nil)
	// Identical candidates score identically; lower id wins the tie
	f.profiles.add(5, "Eve", []string{"hiking"}, goal, nil)
	f.profiles.add(3, "Cara", []string{"hiking"}, goal, nil)
	f.repo.profileIDs = []int64{5, 3}

	results, err := f.service.SuggestedMatches(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, results[0].Score.TotalScore, results[1].Score.TotalScore)
	assert.Equal(t, int64(3), results[0].Profile.UserID)
	assert.Equal(t, int64(5), results[1].Profile.UserID)
}

func TestSuggestedMatchesExcludesLikedAndConnected(t *testing.T) {
	f := newFixture()
	goal := goalPtr("long-term")
	f.profiles.add(1, "Ana", []string{"hiking"}, goal, nil)
	f.profiles.add(2, "Ben", []string{"hiking"}, goal, nil)
	f.profiles.add(3, "Cara", []string{"hiking"}, goal, nil)
	f.profiles.add(4, "Dan", []string{"hiking"}, goal, nil)
	f.repo.profileIDs = []int64{1, 2, 3, 4}

	f.repo.pendings[pair{1, 2}] = true           // Ana already liked Ben
	f.repo.connections[ordered(1, 3)] = true     // Ana is matched with Cara

	results, err := f.service.SuggestedMatches(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(4), results[0].Profile.UserID)
}

func TestSuggestedMatchesStillIncludesIncomingLikers(t *testing.T) {
	f := newFixture()
	goal := goalPtr("long-term")
	f.profiles.add(1, "Ana", []string{"hiking"}, goal, nil)
	f.profiles.add(2, "Ben", []string{"hiking"}, goal, nil)
	f.repo.profileIDs = []int64{2}

	// Only outgoing likes are excluded; someone who liked Ana still shows up
	f.repo.pendings[pair{2, 1}] = true

	results, err := f.service.SuggestedMatches(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(2), results[0].Profile.UserID)
}

func TestSuggestedMatchesDefaultLimit(t *testing.T) {
	f := newFixture()
	goal := goalPtr("long-term")
	f.profiles.add(1, "Ana", []string{"hiking"}, goal, nil)
	for id := int64(2); id <= 30; id++ {
		f.profiles.add(id, "User", []string{"hiking"}, goal, nil)
		f.repo.profileIDs = append(f.repo.profileIDs, id)
	}

	results, err := f.service.SuggestedMatches(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Len(t, results, 20)
}

func TestSuggestedMatchesHonorsLimit(t *testing.T) {
	f := newFixture()
	goal := goalPtr("long-term")
	f.profiles.add(1, "Ana", []string{"hiking"}, goal, nil)
	for id := int64(2); id <= 10; id++ {
		f.profiles.add(id, "User", []string{"hiking"}, goal, nil)
		f.repo.profileIDs = append(f.repo.profileIDs, id)
	}

	results, err := f.service.SuggestedMatches(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSuggestedMatchesEmptyPool(t *testing.T) {
	f := newFixture()
	f.profiles.add(1, "Ana", []string{"hiking"}, goalPtr("long-term"), nil)

	results, err := f.service.SuggestedMatches(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCompatibilityForSkipsSelfAndMissing(t *testing.T) {
	f := newFixture()
	goal := goalPtr("long-term")
	f.profiles.add(1, "Ana", []string{"hiking"}, goal, nil)
	f.profiles.add(2, "Ben", []string{"hiking"}, goal, nil)

	// 1 is the requester, 99 has no profile; neither produces a result
	results, err := f.service.CompatibilityFor(context.Background(), 1, []int64{1, 2, 99})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(2), results[0].Profile.UserID)
}

func TestCompatibilityForWorksWithoutGoal(t *testing.T) {
	f := newFixture()
	f.profiles.add(1, "Ana", []string{"hiking"}, nil, nil)
	f.profiles.add(2, "Ben", []string{"hiking"}, nil, nil)

	// The goal requirement only gates suggestions, not direct scoring
	results, err := f.service.CompatibilityFor(context.Background(), 1, []int64{2})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Score.GoalScore)
	assert.Equal(t, 100, results[0].Score.InterestScore)
}

func TestListMatches(t *testing.T) {
	f := newFixture()
	goal := goalPtr("long-term")
	f.profiles.add(1, "Ana", []string{"hiking"}, goal, nil)
	f.profiles.add(2, "Ben", []string{"hiking"}, goal, nil)
	f.profiles.add(3, "Cara", []string{"hiking"}, goal, nil)
	ctx := context.Background()

	require.NoError(t, f.service.Like(ctx, 1, 2))
	require.NoError(t, f.service.Like(ctx, 2, 1))

	matches, err := f.service.ListMatches(ctx, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(2), matches[0].Profile.UserID)
	require.NotNil(t, matches[0].Score)

	// Cara never matched with Ana
	matches, err = f.service.ListMatches(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestListLikesSentAndReceived(t *testing.T) {
	f := newFixture()
	goal := goalPtr("long-term")
	f.profiles.add(1, "Ana", []string{"hiking"}, goal, nil)
	f.profiles.add(2, "Ben", []string{"hiking"}, goal, nil)
	f.profiles.add(3, "Cara", []string{"hiking"}, goal, nil)
	ctx := context.Background()

	require.NoError(t, f.service.Like(ctx, 1, 2)) // Ana -> Ben
	require.NoError(t, f.service.Like(ctx, 3, 1)) // Cara -> Ana

	sent, err := f.service.ListLikes(ctx, 1, "sent")
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, int64(2), sent[0].Profile.UserID)

	received, err := f.service.ListLikes(ctx, 1, "received")
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, int64(3), received[0].Profile.UserID)
	require.NotNil(t, received[0].Score)
}

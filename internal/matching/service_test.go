package matching

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumadating/luma-backend/internal/messaging"
	"github.com/lumadating/luma-backend/internal/notification"
	"github.com/lumadating/luma-backend/internal/profile"
)

// ---------------------------------------------------------------------------
// In-memory fakes
// ---------------------------------------------------------------------------

type pair [2]int64

func ordered(a, b int64) pair {
	if a > b {
		return pair{b, a}
	}
	return pair{a, b}
}

type fakeRepo struct {
	pendings    map[pair]bool // directional: [sender, receiver]
	connections map[pair]bool // normalized
	profileIDs  []int64       // users visible to candidate discovery
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		pendings:    make(map[pair]bool),
		connections: make(map[pair]bool),
	}
}

func (r *fakeRepo) CreatePendingLike(_ context.Context, senderID, receiverID int64) (bool, error) {
	key := pair{senderID, receiverID}
	if r.pendings[key] {
		return false, nil
	}
	r.pendings[key] = true
	return true, nil
}

func (r *fakeRepo) DeletePendingLike(_ context.Context, senderID, receiverID int64) (bool, error) {
	key := pair{senderID, receiverID}
	if !r.pendings[key] {
		return false, nil
	}
	delete(r.pendings, key)
	return true, nil
}

func (r *fakeRepo) HasPendingLike(_ context.Context, senderID, receiverID int64) (bool, error) {
	return r.pendings[pair{senderID, receiverID}], nil
}

func (r *fakeRepo) GetSentLikeReceiverIDs(_ context.Context, senderID int64) ([]int64, error) {
	var ids []int64
	for key := range r.pendings {
		if key[0] == senderID {
			ids = append(ids, key[1])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeRepo) GetReceivedLikeSenderIDs(_ context.Context, receiverID int64) ([]int64, error) {
	var ids []int64
	for key := range r.pendings {
		if key[1] == receiverID {
			ids = append(ids, key[0])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeRepo) PromoteToConnection(_ context.Context, senderID, receiverID int64) (bool, error) {
	delete(r.pendings, pair{senderID, receiverID})
	delete(r.pendings, pair{receiverID, senderID})

	key := ordered(senderID, receiverID)
	if r.connections[key] {
		return false, nil
	}
	r.connections[key] = true
	return true, nil
}

func (r *fakeRepo) IsConnected(_ context.Context, user1ID, user2ID int64) (bool, error) {
	return r.connections[ordered(user1ID, user2ID)], nil
}

func (r *fakeRepo) DeleteConnection(_ context.Context, user1ID, user2ID int64) (bool, error) {
	key := ordered(user1ID, user2ID)
	if !r.connections[key] {
		return false, nil
	}
	delete(r.connections, key)
	return true, nil
}

func (r *fakeRepo) GetConnectedUserIDs(_ context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for key := range r.connections {
		switch userID {
		case key[0]:
			ids = append(ids, key[1])
		case key[1]:
			ids = append(ids, key[0])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeRepo) FindCandidateIDs(_ context.Context, userID int64, limit int) ([]int64, error) {
	var ids []int64
	for _, id := range r.profileIDs {
		if id == userID {
			continue
		}
		if r.pendings[pair{userID, id}] {
			continue
		}
		if r.connections[ordered(userID, id)] {
			continue
		}
		ids = append(ids, id)
		if len(ids) == limit {
			break
		}
	}
	return ids, nil
}

type fakeProfiles struct {
	profiles map[int64]*profile.Profile
	tests    map[int64]*profile.PersonalityTest
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		profiles: make(map[int64]*profile.Profile),
		tests:    make(map[int64]*profile.PersonalityTest),
	}
}

func (p *fakeProfiles) add(userID int64, name string, interests []string, goal *string, test *profile.PersonalityTest) {
	p.profiles[userID] = &profile.Profile{
		UserID:           userID,
		Username:         name,
		DisplayName:      name,
		Interests:        interests,
		RelationshipGoal: goal,
	}
	if test != nil {
		p.tests[userID] = test
	}
}

func (p *fakeProfiles) GetProfile(_ context.Context, userID int64) (*profile.Profile, error) {
	prof, ok := p.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return prof, nil
}

func (p *fakeProfiles) GetLatestPersonalityTest(_ context.Context, userID int64) (*profile.PersonalityTest, error) {
	return p.tests[userID], nil
}

func (p *fakeProfiles) GetSnapshots(_ context.Context, userIDs []int64) ([]*profile.Snapshot, error) {
	var snapshots []*profile.Snapshot
	for _, id := range userIDs {
		prof, ok := p.profiles[id]
		if !ok {
			continue
		}
		snapshots = append(snapshots, &profile.Snapshot{
			Profile:     prof,
			Personality: p.tests[id],
		})
	}
	return snapshots, nil
}

func (p *fakeProfiles) GetDisplayName(_ context.Context, userID int64) (string, error) {
	prof, ok := p.profiles[userID]
	if !ok {
		return "", profile.ErrProfileNotFound
	}
	return prof.DisplayName, nil
}

type fakeConversations struct {
	threads map[pair]*messaging.Conversation
	creates int
	failErr error
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{threads: make(map[pair]*messaging.Conversation)}
}

func (c *fakeConversations) GetOrCreateDirect(_ context.Context, user1ID, user2ID int64) (*messaging.Conversation, error) {
	if c.failErr != nil {
		return nil, c.failErr
	}

	key := ordered(user1ID, user2ID)
	if conv, ok := c.threads[key]; ok {
		return conv, nil
	}

	c.creates++
	conv := &messaging.Conversation{
		ID:      int64(c.creates),
		User1ID: key[0],
		User2ID: key[1],
	}
	c.threads[key] = conv
	return conv, nil
}

type sentNotification struct {
	UserID  int64
	Content string
	URL     string
	Type    string
}

type fakeNotifier struct {
	sent    []sentNotification
	failErr error
}

func (n *fakeNotifier) Notify(_ context.Context, userID int64, content, url string, notifType string) error {
	if n.failErr != nil {
		return n.failErr
	}
	n.sent = append(n.sent, sentNotification{UserID: userID, Content: content, URL: url, Type: notifType})
	return nil
}

func (n *fakeNotifier) ofType(notifType string) []sentNotification {
	var out []sentNotification
	for _, s := range n.sent {
		if s.Type == notifType {
			out = append(out, s)
		}
	}
	return out
}

type fixture struct {
	repo          *fakeRepo
	profiles      *fakeProfiles
	conversations *fakeConversations
	notifier      *fakeNotifier
	service       Service
}

func newFixture() *fixture {
	repo := newFakeRepo()
	profiles := newFakeProfiles()
	conversations := newFakeConversations()
	notifier := &fakeNotifier{}

	return &fixture{
		repo:          repo,
		profiles:      profiles,
		conversations: conversations,
		notifier:      notifier,
		service:       NewService(repo, profiles, conversations, notifier, Options{}),
	}
}

// ---------------------------------------------------------------------------
// State machine
// ---------------------------------------------------------------------------

func TestLikeSelfFails(t *testing.T) {
	f := newFixture()

	err := f.service.Like(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrSelfLike)
	assert.Empty(t, f.repo.pendings)
}

func TestLikeCreatesPendingAndNotifies(t *testing.T) {
	f := newFixture()
	f.profiles.add(1, "Ana", nil, nil, nil)
	f.profiles.add(2, "Ben", nil, nil, nil)

	require.NoError(t, f.service.Like(context.Background(), 1, 2))

	assert.True(t, f.repo.pendings[pair{1, 2}])
	assert.Empty(t, f.repo.connections)

	waiting := f.notifier.ofType(notification.TypeWaitingMatch)
	require.Len(t, waiting, 1)
	assert.Equal(t, int64(2), waiting[0].UserID)
	assert.Contains(t, waiting[0].Content, "Ana")
}

func TestLikeIsIdempotent(t *testing.T) {
	f := newFixture()
	f.profiles.add(1, "Ana", nil, nil, nil)
	f.profiles.add(2, "Ben", nil, nil, nil)

	require.NoError(t, f.service.Like(context.Background(), 1, 2))
	require.NoError(t, f.service.Like(context.Background(), 1, 2))

	// One pending row, one notification: the repeat changed no state
	assert.Len(t, f.repo.pendings, 1)
	assert.Len(t, f.notifier.sent, 1)
}

func TestReciprocalLikeCreatesConnection(t *testing.T) {
	f := newFixture()
	f.profiles.add(1, "Ana", nil, nil, nil)
	f.profiles.add(2, "Ben", nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, f.service.Like(ctx, 1, 2))
	require.NoError(t, f.service.Like(ctx, 2, 1))

	// Both pendings collapse into exactly one connection
	assert.Empty(t, f.repo.pendings)
	assert.Len(t, f.repo.connections, 1)
	assert.True(t, f.repo.connections[pair{1, 2}])

	// A conversation exists for the pair
	assert.Equal(t, 1, f.conversations.creates)
	_, ok := f.conversations.threads[pair{1, 2}]
	assert.True(t, ok)

	// Both parties heard about the match
	matched := f.notifier.ofType(notification.TypeMatchSuccess)
	require.Len(t, matched, 2)
	recipients := []int64{matched[0].UserID, matched[1].UserID}
	assert.ElementsMatch(t, []int64{1, 2}, recipients)
}

func TestLikeAfterMatchIsNoOp(t *testing.T) {
	f := newFixture()
	f.profiles.add(1, "Ana", nil, nil, nil)
	f.profiles.add(2, "Ben", nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, f.service.Like(ctx, 1, 2))
	require.NoError(t, f.service.Like(ctx, 2, 1))
	before := len(f.notifier.sent)

	// A pending like and a connection must never coexist
	require.NoError(t, f.service.Like(ctx, 1, 2))

	assert.Empty(t, f.repo.pendings)
	assert.Len(t, f.repo.connections, 1)
	assert.Len(t, f.notifier.sent, before)
}

func TestLikeSurvivesNotificationFailure(t *testing.T) {
	f := newFixture()
	f.profiles.add(1, "Ana", nil, nil, nil)
	f.profiles.add(2, "Ben", nil, nil, nil)
	f.notifier.failErr = errors.New("push gateway down")

	// Dispatch failure never rolls back the state transition
	require.NoError(t, f.service.Like(context.Background(), 1, 2))
	assert.True(t, f.repo.pendings[pair{1, 2}])
}

func TestLikeSurvivesConversationFailure(t *testing.T) {
	f := newFixture()
	f.profiles.add(1, "Ana", nil, nil, nil)
	f.profiles.add(2, "Ben", nil, nil, nil)
	f.conversations.failErr = errors.New("conversations unavailable")
	ctx := context.Background()

	require.NoError(t, f.service.Like(ctx, 1, 2))
	require.NoError(t, f.service.Like(ctx, 2, 1))

	assert.Len(t, f.repo.connections, 1)
	assert.Len(t, f.notifier.ofType(notification.TypeMatchSuccess), 2)
}

func TestLikeFallsBackToPlaceholderName(t *testing.T) {
	f := newFixture()
	// Sender 9 has no profile; the transition still happens
	f.profiles.add(2, "Ben", nil, nil, nil)

	require.NoError(t, f.service.Like(context.Background(), 9, 2))

	assert.True(t, f.repo.pendings[pair{9, 2}])
	waiting := f.notifier.ofType(notification.TypeWaitingMatch)
	require.Len(t, waiting, 1)
	assert.Contains(t, waiting[0].Content, "Someone")
}

func TestCancelLike(t *testing.T) {
	f := newFixture()
	f.profiles.add(1, "Ana", nil, nil, nil)
	f.profiles.add(2, "Ben", nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, f.service.Like(ctx, 1, 2))
	require.NoError(t, f.service.CancelLike(ctx, 1, 2))

	assert.Empty(t, f.repo.pendings)

	cancelled := f.notifier.ofType(notification.TypeCancelLike)
	require.Len(t, cancelled, 1)
	assert.Equal(t, int64(2), cancelled[0].UserID)
}

func TestCancelLikeAbsentIsSilentNoOp(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.service.CancelLike(context.Background(), 1, 2))
	assert.Empty(t, f.notifier.sent)
}

func TestReject(t *testing.T) {
	f := newFixture()
	f.profiles.add(1, "Ana", nil, nil, nil)
	f.profiles.add(2, "Ben", nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, f.service.Like(ctx, 1, 2))

	// Ben declines Ana's like; Ana is told
	require.NoError(t, f.service.Reject(ctx, 2, 1))

	assert.Empty(t, f.repo.pendings)

	rejected := f.notifier.ofType(notification.TypeRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, int64(1), rejected[0].UserID)
	assert.Contains(t, rejected[0].Content, "Ben")
}

func TestRejectAbsentIsSilentNoOp(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.service.Reject(context.Background(), 2, 1))
	assert.Empty(t, f.notifier.sent)
}

func TestUnmatchIsSymmetric(t *testing.T) {
	for _, reversed := range []bool{false, true} {
		f := newFixture()
		f.profiles.add(1, "Ana", nil, nil, nil)
		f.profiles.add(2, "Ben", nil, nil, nil)
		ctx := context.Background()

		require.NoError(t, f.service.Like(ctx, 1, 2))
		require.NoError(t, f.service.Like(ctx, 2, 1))
		require.Len(t, f.repo.connections, 1)

		if reversed {
			require.NoError(t, f.service.Unmatch(ctx, 2, 1))
		} else {
			require.NoError(t, f.service.Unmatch(ctx, 1, 2))
		}

		assert.Empty(t, f.repo.connections)
		// No pending like reappears on either side
		assert.Empty(t, f.repo.pendings)
		assert.Len(t, f.notifier.ofType(notification.TypeUnmatched), 1)
	}
}

func TestUnmatchNotifiesOtherParty(t *testing.T) {
	f := newFixture()
	f.profiles.add(1, "Ana", nil, nil, nil)
	f.profiles.add(2, "Ben", nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, f.service.Like(ctx, 1, 2))
	require.NoError(t, f.service.Like(ctx, 2, 1))
	require.NoError(t, f.service.Unmatch(ctx, 1, 2))

	unmatched := f.notifier.ofType(notification.TypeUnmatched)
	require.Len(t, unmatched, 1)
	assert.Equal(t, int64(2), unmatched[0].UserID)
	assert.Contains(t, unmatched[0].Content, "Ana")
}

func TestUnmatchWithoutConnectionIsSilentNoOp(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.service.Unmatch(context.Background(), 1, 2))
	assert.Empty(t, f.notifier.sent)
}

// A reverse pending that landed concurrently is resolved into a single
// connection instead of leaving two crossed likes.
func TestSimultaneousLikesConverge(t *testing.T) {
	f := newFixture()
	f.profiles.add(1, "Ana", nil, nil, nil)
	f.profiles.add(2, "Ben", nil, nil, nil)
	ctx := context.Background()

	f.repo.pendings[pair{2, 1}] = true

	require.NoError(t, f.service.Like(ctx, 1, 2))

	assert.Empty(t, f.repo.pendings)
	assert.Len(t, f.repo.connections, 1)
	assert.True(t, f.repo.connections[pair{1, 2}])
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymfluence/api-go/models"
)

func TestFollowPublicTarget(t *testing.T) {
	db, follows, _, _ := newTestServices(t)
	a := createUser(t, db, "alice", false)
	b := createUser(t, db, "bob", false)

	state, err := follows.SetFollowState(ctx(), b.ID, a.ID, ActionFollow)
	require.NoError(t, err)
	assert.Equal(t, int64(1), state.Followers)
	assert.Equal(t, int64(0), state.Following)
	assert.True(t, state.IsFollowing)

	var edge models.Follow
	require.NoError(t, db.Where("follower_id = ? AND following_id = ?", b.ID, a.ID).First(&edge).Error)
	assert.Equal(t, models.FollowStatusAccepted, edge.Status)

	// Target gets FOLLOWED_YOU with the follower as actor; follower gets nothing.
	ns := notificationsFor(t, db, a.ID)
	require.Len(t, ns, 1)
	assert.Equal(t, models.NotificationFollowedYou, ns[0].Type)
	assert.Equal(t, b.ID, ns[0].ActorID)
	require.NotNil(t, ns[0].FollowID)
	assert.Equal(t, edge.ID, *ns[0].FollowID)
	assert.False(t, ns[0].IsRead)

	assert.Empty(t, notificationsFor(t, db, b.ID))
}

func TestFollowPrivateTargetPending(t *testing.T) {
	db, follows, _, _ := newTestServices(t)
	a := createUser(t, db, "alice", true)
	b := createUser(t, db, "bob", false)

	state, err := follows.SetFollowState(ctx(), b.ID, a.ID, ActionFollow)
	require.NoError(t, err)

	var edge models.Follow
	require.NoError(t, db.Where("follower_id = ? AND following_id = ?", b.ID, a.ID).First(&edge).Error)
	assert.Equal(t, models.FollowStatusPending, edge.Status)

	// Pending edges do not count as followers but still read as "following".
	assert.Equal(t, int64(0), state.Followers)
	assert.True(t, state.IsFollowing)

	ns := notificationsFor(t, db, a.ID)
	require.Len(t, ns, 1)
	assert.Equal(t, models.NotificationFollowRequest, ns[0].Type)
	assert.Equal(t, b.ID, ns[0].ActorID)
}

func TestFollowIsIdempotent(t *testing.T) {
	db, follows, _, _ := newTestServices(t)
	a := createUser(t, db, "alice", false)
	b := createUser(t, db, "bob", false)

	_, err := follows.SetFollowState(ctx(), b.ID, a.ID, ActionFollow)
	require.NoError(t, err)
	state, err := follows.SetFollowState(ctx(), b.ID, a.ID, ActionFollow)
	require.NoError(t, err)

	assert.Equal(t, int64(1), state.Followers)
	assert.Equal(t, int64(1), edgeCount(t, db, b.ID, a.ID))
	// No duplicate fan-out for the no-op second call.
	assert.Len(t, notificationsFor(t, db, a.ID), 1)
}

func TestFollowUnfollowRoundTrip(t *testing.T) {
	db, follows, _, _ := newTestServices(t)
	a := createUser(t, db, "alice", false)
	b := createUser(t, db, "bob", false)

	before, err := follows.GetFollowState(ctx(), b.ID, a.ID)
	require.NoError(t, err)

	_, err = follows.SetFollowState(ctx(), b.ID, a.ID, ActionFollow)
	require.NoError(t, err)
	after, err := follows.SetFollowState(ctx(), b.ID, a.ID, ActionUnfollow)
	require.NoError(t, err)

	assert.Equal(t, before.Followers, after.Followers)
	assert.False(t, after.IsFollowing)
	assert.Equal(t, int64(0), edgeCount(t, db, b.ID, a.ID))
}

func TestUnfollowAbsentEdgeIsNoop(t *testing.T) {
	db, follows, _, _ := newTestServices(t)
	a := createUser(t, db, "alice", false)
	b := createUser(t, db, "bob", false)

	state, err := follows.SetFollowState(ctx(), b.ID, a.ID, ActionUnfollow)
	require.NoError(t, err)
	assert.Equal(t, int64(0), state.Followers)
	assert.False(t, state.IsFollowing)

	// Still a no-op when the edge existed once and is already gone.
	_, err = follows.SetFollowState(ctx(), b.ID, a.ID, ActionFollow)
	require.NoError(t, err)
	_, err = follows.SetFollowState(ctx(), b.ID, a.ID, ActionUnfollow)
	require.NoError(t, err)
	state, err = follows.SetFollowState(ctx(), b.ID, a.ID, ActionUnfollow)
	require.NoError(t, err)
	assert.False(t, state.IsFollowing)
	assert.Equal(t, int64(0), edgeCount(t, db, b.ID, a.ID))
}

func TestSelfFollowRejected(t *testing.T) {
	db, follows, _, _ := newTestServices(t)
	a := createUser(t, db, "alice", false)

	for _, action := range []string{ActionFollow, ActionUnfollow, ActionToggle, ""} {
		_, err := follows.SetFollowState(ctx(), a.ID, a.ID, action)
		assert.ErrorIs(t, err, ErrSelfFollow)
	}
	assert.Equal(t, int64(0), edgeCount(t, db, a.ID, a.ID))
}

func TestFollowMissingTarget(t *testing.T) {
	db, follows, _, _ := newTestServices(t)
	b := createUser(t, db, "bob", false)

	_, err := follows.SetFollowState(ctx(), b.ID, 9999, ActionFollow)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUnknownActionRejected(t *testing.T) {
	db, follows, _, _ := newTestServices(t)
	a := createUser(t, db, "alice", false)
	b := createUser(t, db, "bob", false)

	_, err := follows.SetFollowState(ctx(), b.ID, a.ID, "befriend")
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestToggleParity(t *testing.T) {
	db, follows, _, _ := newTestServices(t)
	a := createUser(t, db, "alice", false)
	b := createUser(t, db, "bob", false)

	// Even number of toggles restores absence, odd leaves the edge present.
	for i := 1; i <= 4; i++ {
		state, err := follows.SetFollowState(ctx(), b.ID, a.ID, ActionToggle)
		require.NoError(t, err)
		wantPresent := i%2 == 1
		assert.Equal(t, wantPresent, state.IsFollowing, "after %d toggles", i)
	}
	assert.Equal(t, int64(0), edgeCount(t, db, b.ID, a.ID))
}

func TestEmptyActionMeansToggle(t *testing.T) {
	db, follows, _, _ := newTestServices(t)
	a := createUser(t, db, "alice", false)
	b := createUser(t, db, "bob", false)

	state, err := follows.SetFollowState(ctx(), b.ID, a.ID, "")
	require.NoError(t, err)
	assert.True(t, state.IsFollowing)

	state, err = follows.SetFollowState(ctx(), b.ID, a.ID, "")
	require.NoError(t, err)
	assert.False(t, state.IsFollowing)
}

func TestAcceptFollowRequest(t *testing.T) {
	db, follows, _, _ := newTestServices(t)
	a := createUser(t, db, "alice", true)
	b := createUser(t, db, "bob", false)

	_, err := follows.SetFollowState(ctx(), b.ID, a.ID, ActionFollow)
	require.NoError(t, err)

	request := notificationsFor(t, db, a.ID)[0]
	require.NoError(t, follows.AcceptFollowRequest(ctx(), a.ID, request.ID))

	var edge models.Follow
	require.NoError(t, db.First(&edge, *request.FollowID).Error)
	assert.Equal(t, models.FollowStatusAccepted, edge.Status)

	state, err := follows.GetFollowState(ctx(), b.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, state.IsFollowing)
	assert.Equal(t, int64(1), state.Followers)

	// The original request is read, and the requester was told.
	var reread models.Notification
	require.NoError(t, db.First(&reread, request.ID).Error)
	assert.True(t, reread.IsRead)

	ns := notificationsFor(t, db, b.ID)
	require.Len(t, ns, 1)
	assert.Equal(t, models.NotificationRequestAccepted, ns[0].Type)
	assert.Equal(t, a.ID, ns[0].ActorID)
}

func TestAcceptRejectsForeignNotification(t *testing.T) {
	db, follows, _, _ := newTestServices(t)
	a := createUser(t, db, "alice", true)
	b := createUser(t, db, "bob", false)
	mallory := createUser(t, db, "mallory", false)

	_, err := follows.SetFollowState(ctx(), b.ID, a.ID, ActionFollow)
	require.NoError(t, err)
	request := notificationsFor(t, db, a.ID)[0]

	err = follows.AcceptFollowRequest(ctx(), mallory.ID, request.ID)
	assert.ErrorIs(t, err, ErrInvalidNotification)

	// Nothing moved.
	var edge models.Follow
	require.NoError(t, db.First(&edge, *request.FollowID).Error)
	assert.Equal(t, models.FollowStatusPending, edge.Status)
	var reread models.Notification
	require.NoError(t, db.First(&reread, request.ID).Error)
	assert.False(t, reread.IsRead)
}

func TestAcceptRejectsWrongType(t *testing.T) {
	db, follows, _, _ := newTestServices(t)
	a := createUser(t, db, "alice", false)
	b := createUser(t, db, "bob", false)

	_, err := follows.SetFollowState(ctx(), b.ID, a.ID, ActionFollow)
	require.NoError(t, err)

	// FOLLOWED_YOU is not acceptable/declinable.
	followedYou := notificationsFor(t, db, a.ID)[0]
	assert.ErrorIs(t, follows.AcceptFollowRequest(ctx(), a.ID, followedYou.ID), ErrInvalidNotification)
	assert.ErrorIs(t, follows.DeclineFollowRequest(ctx(), a.ID, followedYou.ID), ErrInvalidNotification)
}

func TestDeclineFollowRequest(t *testing.T) {
	db, follows, _, _ := newTestServices(t)
	a := createUser(t, db, "alice", true)
	b := createUser(t, db, "bob", false)

	_, err := follows.SetFollowState(ctx(), b.ID, a.ID, ActionFollow)
	require.NoError(t, err)
	request := notificationsFor(t, db, a.ID)[0]

	require.NoError(t, follows.DeclineFollowRequest(ctx(), a.ID, request.ID))

	assert.Equal(t, int64(0), edgeCount(t, db, b.ID, a.ID))

	var reread models.Notification
	require.NoError(t, db.First(&reread, request.ID).Error)
	assert.True(t, reread.IsRead)

	// Decline is silent towards the requester.
	assert.Empty(t, notificationsFor(t, db, b.ID))

	state, err := follows.GetFollowState(ctx(), b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, state.IsFollowing)
}

func TestListFollowersAndFollowing(t *testing.T) {
	db, follows, _, _ := newTestServices(t)
	a := createUser(t, db, "alice", false)
	b := createUser(t, db, "bob", false)
	carol := createUser(t, db, "carol", true)

	_, err := follows.SetFollowState(ctx(), b.ID, a.ID, ActionFollow)
	require.NoError(t, err)
	_, err = follows.SetFollowState(ctx(), b.ID, carol.ID, ActionFollow)
	require.NoError(t, err)

	followers, err := follows.ListFollowers(ctx(), a.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "bob", followers[0].Username)

	// Pending edge towards carol must not show up anywhere.
	following, err := follows.ListFollowing(ctx(), b.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "alice", following[0].Username)

	carolFollowers, err := follows.ListFollowers(ctx(), carol.ID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, carolFollowers)
}

func TestGetFollowStateAnonymousViewer(t *testing.T) {
	db, follows, _, _ := newTestServices(t)
	a := createUser(t, db, "alice", false)
	b := createUser(t, db, "bob", false)

	_, err := follows.SetFollowState(ctx(), b.ID, a.ID, ActionFollow)
	require.NoError(t, err)

	state, err := follows.GetFollowState(ctx(), 0, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), state.Followers)
	assert.False(t, state.IsFollowing)
}

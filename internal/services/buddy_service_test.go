package services

import (
	"context"
	"testing"

	"github.com/Priyan2307/ShopBuddy_Server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type buddyFixture struct {
	service     *BuddyService
	profiles    *fakeProfileStore
	connections *fakeConnectionStore
	requests    *fakeRequestStore
}

func newBuddyFixture(t *testing.T, users ...*models.Profile) *buddyFixture {
	t.Helper()

	profiles := newFakeProfileStore()
	connections := newFakeConnectionStore()
	requests := newFakeRequestStore()

	for _, u := range users {
		_, err := profiles.CreateProfile(context.Background(), u)
		require.NoError(t, err)
	}

	return &buddyFixture{
		service:     NewBuddyService(profiles, connections, requests, NewPairLocks()),
		profiles:    profiles,
		connections: connections,
		requests:    requests,
	}
}

func newUser(username string) *models.Profile {
	p := profileA()
	p.Username = username
	p.Email = username + "@test.local"
	return &p
}

func TestSendRequestToSelf(t *testing.T) {
	alice := newUser("alice")
	f := newBuddyFixture(t, alice)

	_, err := f.service.SendRequest(context.Background(), alice.ID, alice.ID, "hi")
	assert.ErrorIs(t, err, ErrSelfRequest)
}

func TestSendRequestToUnknownProfile(t *testing.T) {
	alice := newUser("alice")
	f := newBuddyFixture(t, alice)

	_, err := f.service.SendRequest(context.Background(), alice.ID, primitive.NewObjectID(), "hi")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestSendRequestCreatesPending(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	f := newBuddyFixture(t, alice, bob)

	req, err := f.service.SendRequest(context.Background(), alice.ID, bob.ID, "let's shop")
	require.NoError(t, err)

	assert.Equal(t, models.RequestStatusPending, req.Status)
	assert.Equal(t, alice.ID, req.FromUserID)
	assert.Equal(t, bob.ID, req.ToUserID)
	assert.Equal(t, "let's shop", req.Message)

	// No connection until the request is accepted.
	connected, err := f.connections.AreConnected(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, connected)
}

func TestSendRequestDuplicatePending(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	f := newBuddyFixture(t, alice, bob)

	_, err := f.service.SendRequest(context.Background(), alice.ID, bob.ID, "hi")
	require.NoError(t, err)

	_, err = f.service.SendRequest(context.Background(), alice.ID, bob.ID, "hi again")
	assert.ErrorIs(t, err, ErrDuplicateRequest)
}

func TestSendRequestWhenAlreadyConnected(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	f := newBuddyFixture(t, alice, bob)

	req, err := f.service.SendRequest(context.Background(), alice.ID, bob.ID, "hi")
	require.NoError(t, err)
	require.NoError(t, f.service.AcceptRequest(context.Background(), req.ID, bob.ID))

	_, err = f.service.SendRequest(context.Background(), alice.ID, bob.ID, "hi again")
	assert.ErrorIs(t, err, ErrAlreadyConnected)
}

func TestAcceptRequestCreatesSymmetricEdge(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	f := newBuddyFixture(t, alice, bob)

	req, err := f.service.SendRequest(context.Background(), alice.ID, bob.ID, "hi")
	require.NoError(t, err)

	require.NoError(t, f.service.AcceptRequest(context.Background(), req.ID, bob.ID))

	ab, _ := f.connections.AreConnected(context.Background(), alice.ID, bob.ID)
	ba, _ := f.connections.AreConnected(context.Background(), bob.ID, alice.ID)
	assert.True(t, ab)
	assert.True(t, ba)

	aliceBuddies, _ := f.connections.Neighbors(context.Background(), alice.ID)
	bobBuddies, _ := f.connections.Neighbors(context.Background(), bob.ID)
	assert.Contains(t, aliceBuddies, bob.ID)
	assert.Contains(t, bobBuddies, alice.ID)

	stored, err := f.requests.GetRequestByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, stored.Status)
}

func TestAcceptRequestOnlyByReceiver(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	f := newBuddyFixture(t, alice, bob)

	req, err := f.service.SendRequest(context.Background(), alice.ID, bob.ID, "hi")
	require.NoError(t, err)

	// The sender cannot accept their own request.
	err = f.service.AcceptRequest(context.Background(), req.ID, alice.ID)
	assert.ErrorIs(t, err, ErrNotRequestReceiver)

	err = f.service.DeclineRequest(context.Background(), req.ID, alice.ID)
	assert.ErrorIs(t, err, ErrNotRequestReceiver)
}

func TestAcceptRequestIsTerminal(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	f := newBuddyFixture(t, alice, bob)

	req, err := f.service.SendRequest(context.Background(), alice.ID, bob.ID, "hi")
	require.NoError(t, err)
	require.NoError(t, f.service.AcceptRequest(context.Background(), req.ID, bob.ID))

	assert.ErrorIs(t, f.service.AcceptRequest(context.Background(), req.ID, bob.ID), ErrRequestResolved)
	assert.ErrorIs(t, f.service.DeclineRequest(context.Background(), req.ID, bob.ID), ErrRequestResolved)
}

func TestDeclineRequestLeavesNoEdge(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	f := newBuddyFixture(t, alice, bob)

	req, err := f.service.SendRequest(context.Background(), alice.ID, bob.ID, "hi")
	require.NoError(t, err)

	require.NoError(t, f.service.DeclineRequest(context.Background(), req.ID, bob.ID))

	connected, _ := f.connections.AreConnected(context.Background(), alice.ID, bob.ID)
	assert.False(t, connected)

	stored, _ := f.requests.GetRequestByID(context.Background(), req.ID)
	assert.Equal(t, models.RequestStatusDeclined, stored.Status)

	// Declined is terminal too.
	assert.ErrorIs(t, f.service.AcceptRequest(context.Background(), req.ID, bob.ID), ErrRequestResolved)
}

func TestAcceptRequestRollsBackOnConnectFailure(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	f := newBuddyFixture(t, alice, bob)

	req, err := f.service.SendRequest(context.Background(), alice.ID, bob.ID, "hi")
	require.NoError(t, err)

	f.connections.connectErr = errStoreDown
	err = f.service.AcceptRequest(context.Background(), req.ID, bob.ID)
	require.Error(t, err)

	// The status flip must not stick when the graph write failed.
	stored, _ := f.requests.GetRequestByID(context.Background(), req.ID)
	assert.Equal(t, models.RequestStatusPending, stored.Status)

	// A retry after the store recovers succeeds.
	f.connections.connectErr = nil
	require.NoError(t, f.service.AcceptRequest(context.Background(), req.ID, bob.ID))
	connected, _ := f.connections.AreConnected(context.Background(), alice.ID, bob.ID)
	assert.True(t, connected)
}

func TestAcceptUnknownRequest(t *testing.T) {
	alice := newUser("alice")
	f := newBuddyFixture(t, alice)

	err := f.service.AcceptRequest(context.Background(), primitive.NewObjectID(), alice.ID)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestPendingRequestsOldestFirst(t *testing.T) {
	alice, bob, cara, dave := newUser("alice"), newUser("bob"), newUser("cara"), newUser("dave")
	f := newBuddyFixture(t, alice, bob, cara, dave)

	r1, err := f.service.SendRequest(context.Background(), bob.ID, alice.ID, "first")
	require.NoError(t, err)
	r2, err := f.service.SendRequest(context.Background(), cara.ID, alice.ID, "second")
	require.NoError(t, err)
	r3, err := f.service.SendRequest(context.Background(), dave.ID, alice.ID, "third")
	require.NoError(t, err)

	pending, err := f.service.PendingRequests(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, r1.ID, pending[0].ID)
	assert.Equal(t, r2.ID, pending[1].ID)
	assert.Equal(t, r3.ID, pending[2].ID)

	// Resolved requests drop out of the pending list.
	require.NoError(t, f.service.DeclineRequest(context.Background(), r2.ID, alice.ID))
	pending, err = f.service.PendingRequests(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, r1.ID, pending[0].ID)
	assert.Equal(t, r3.ID, pending[1].ID)
}

func TestRemoveBuddy(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	f := newBuddyFixture(t, alice, bob)

	req, err := f.service.SendRequest(context.Background(), alice.ID, bob.ID, "hi")
	require.NoError(t, err)
	require.NoError(t, f.service.AcceptRequest(context.Background(), req.ID, bob.ID))

	require.NoError(t, f.service.RemoveBuddy(context.Background(), alice.ID, bob.ID))

	ab, _ := f.connections.AreConnected(context.Background(), alice.ID, bob.ID)
	ba, _ := f.connections.AreConnected(context.Background(), bob.ID, alice.ID)
	assert.False(t, ab)
	assert.False(t, ba)

	// Removing again is a no-op, not an error.
	assert.NoError(t, f.service.RemoveBuddy(context.Background(), alice.ID, bob.ID))
}

func TestRemoveBuddySelf(t *testing.T) {
	alice := newUser("alice")
	f := newBuddyFixture(t, alice)

	assert.ErrorIs(t, f.service.RemoveBuddy(context.Background(), alice.ID, alice.ID), ErrSelfConnection)
}

func TestGetBuddiesReturnsProfiles(t *testing.T) {
	alice, bob, cara := newUser("alice"), newUser("bob"), newUser("cara")
	f := newBuddyFixture(t, alice, bob, cara)

	req, err := f.service.SendRequest(context.Background(), alice.ID, bob.ID, "hi")
	require.NoError(t, err)
	require.NoError(t, f.service.AcceptRequest(context.Background(), req.ID, bob.ID))

	buddies, err := f.service.GetBuddies(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, buddies, 1)
	assert.Equal(t, bob.ID, buddies[0].ID)
	assert.Equal(t, "bob", buddies[0].Username)

	// Cara has no connections yet.
	buddies, err = f.service.GetBuddies(context.Background(), cara.ID)
	require.NoError(t, err)
	assert.Empty(t, buddies)
}

func TestListCandidatesRankingAndAnnotation(t *testing.T) {
	me := newUser("me")

	perfect := newUser("perfect") // same everything as me
	nearby := newUser("nearby")
	nearby.Location.Area = "Gandhipuram"
	faraway := newUser("faraway")
	faraway.Location = models.Location{City: "Chennai", Area: "T Nagar"}
	faraway.Preferences = models.Preferences{
		Categories:    []string{"sports"},
		Budget:        models.BudgetRange{Min: 20000, Max: 50000},
		ShoppingStyle: "focused",
	}
	faraway.Stats = models.ShopperStats{TotalTrips: 100, AverageRating: 2.0}

	f := newBuddyFixture(t, me, perfect, nearby, faraway)

	req, err := f.service.SendRequest(context.Background(), me.ID, nearby.ID, "hi")
	require.NoError(t, err)
	require.NoError(t, f.service.AcceptRequest(context.Background(), req.ID, nearby.ID))

	candidates, err := f.service.ListCandidates(context.Background(), me.ID, CandidateFilters{})
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	// The caller never appears in their own candidate list.
	for _, c := range candidates {
		assert.NotEqual(t, me.ID, c.Profile.ID)
	}

	// Sorted by score descending.
	assert.Equal(t, "perfect", candidates[0].Profile.Username)
	assert.Equal(t, "nearby", candidates[1].Profile.Username)
	assert.Equal(t, "faraway", candidates[2].Profile.Username)
	assert.GreaterOrEqual(t, candidates[0].CompatibilityScore, candidates[1].CompatibilityScore)
	assert.GreaterOrEqual(t, candidates[1].CompatibilityScore, candidates[2].CompatibilityScore)

	assert.False(t, candidates[0].IsConnected)
	assert.True(t, candidates[1].IsConnected)
}

func TestListCandidatesTieBreakByID(t *testing.T) {
	me := newUser("me")
	twinA := newUser("twina")
	twinB := newUser("twinb")

	f := newBuddyFixture(t, me, twinA, twinB)

	candidates, err := f.service.ListCandidates(context.Background(), me.ID, CandidateFilters{})
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	require.Equal(t, candidates[0].CompatibilityScore, candidates[1].CompatibilityScore)
	assert.Less(t, candidates[0].Profile.ID.Hex(), candidates[1].Profile.ID.Hex())
}

func TestListCandidatesFilters(t *testing.T) {
	me := newUser("me")
	local := newUser("local")
	remote := newUser("remote")
	remote.Location = models.Location{City: "Chennai", Area: "Velachery"}
	remote.Preferences.Categories = []string{"books"}
	remote.Stats.AverageRating = 3.0

	f := newBuddyFixture(t, me, local, remote)

	byLocation, err := f.service.ListCandidates(context.Background(), me.ID, CandidateFilters{Location: "coimbatore"})
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, "local", byLocation[0].Profile.Username)

	byCategory, err := f.service.ListCandidates(context.Background(), me.ID, CandidateFilters{Category: "Books"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "remote", byCategory[0].Profile.Username)

	byRating, err := f.service.ListCandidates(context.Background(), me.ID, CandidateFilters{MinRating: 4.0})
	require.NoError(t, err)
	require.Len(t, byRating, 1)
	assert.Equal(t, "local", byRating[0].Profile.Username)
}

func TestListCandidatesUnknownCaller(t *testing.T) {
	f := newBuddyFixture(t)

	_, err := f.service.ListCandidates(context.Background(), primitive.NewObjectID(), CandidateFilters{})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestReportBuddy(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	f := newBuddyFixture(t, alice, bob)

	reference, err := f.service.ReportBuddy(context.Background(), alice.ID, bob.ID, "spam")
	require.NoError(t, err)
	assert.NotEmpty(t, reference)

	_, err = f.service.ReportBuddy(context.Background(), alice.ID, alice.ID, "spam")
	assert.ErrorIs(t, err, ErrSelfRequest)
}

package explore_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oggyb/findtheone/internal/auth"
	"github.com/oggyb/findtheone/internal/db"
	"github.com/oggyb/findtheone/internal/events"
	pb "github.com/oggyb/findtheone/internal/proto/explore"
	"github.com/oggyb/findtheone/internal/service/explore"
	"github.com/oggyb/findtheone/internal/testutil"
)

//
// Test helpers
//

type fixture struct {
	svc    *explore.Service
	events *events.Recorder
	users  []db.User
}

func as(u db.User) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: u.ID, Username: u.Username})
}

func id(u db.User) string { return strconv.FormatUint(u.ID, 10) }

// setupService wires an in-memory DB and miniredis into the service and seeds:
//   - user1 → user2 = like
//   - user2 → user1 = like (mutual, match formed)
//   - user3 → user1 = like (excluded later because user1 → user3 = dislike)
//   - user1 → user3 = dislike
func setupService(t *testing.T) *fixture {
	t.Helper()

	appCtx, rec := testutil.NewAppContext(t)
	svc := explore.NewExploreService(appCtx)
	f := &fixture{
		svc:    svc,
		events: rec,
		users: []db.User{
			testutil.CreateUser(t, appCtx.DB, "user1", "male"),
			testutil.CreateUser(t, appCtx.DB, "user2", "female"),
			testutil.CreateUser(t, appCtx.DB, "user3", "female"),
		},
	}
	u1, u2, u3 := f.users[0], f.users[1], f.users[2]

	decide := func(actor, recipient db.User, liked bool) {
		_, err := svc.PutDecision(as(actor), &pb.PutDecisionRequest{RecipientUserId: id(recipient), LikedRecipient: liked})
		require.NoError(t, err)
	}
	decide(u1, u2, true)
	decide(u2, u1, true)
	decide(u3, u1, true)
	decide(u1, u3, false)
	return f
}

func code(err error) codes.Code { return status.Code(err) }

//
// Tests
//

func TestPutDecision_MutualLikeFormsOneMatch(t *testing.T) {
	f := setupService(t)
	u1, u2 := f.users[0], f.users[1]

	// repeating the like reports the existing match without a new one
	resp, err := f.svc.PutDecision(as(u2), &pb.PutDecisionRequest{RecipientUserId: id(u1), LikedRecipient: true})
	require.NoError(t, err)
	assert.True(t, resp.MutualLikes)
	assert.False(t, resp.Created)
	assert.NotEmpty(t, resp.MatchId)

	assert.Len(t, f.events.OfType(events.MatchCreated), 1)

	matches, err := f.svc.ListMatches(as(u1), &pb.ListMatchesRequest{})
	require.NoError(t, err)
	require.Len(t, matches.Matches, 1)
	assert.Equal(t, id(u2), matches.Matches[0].User.UserId)
	assert.Equal(t, resp.MatchId, matches.Matches[0].MatchId)
}

func TestPutDecision_Validation(t *testing.T) {
	f := setupService(t)
	u1 := f.users[0]

	_, err := f.svc.PutDecision(context.Background(), &pb.PutDecisionRequest{RecipientUserId: "2", LikedRecipient: true})
	assert.Equal(t, codes.Unauthenticated, code(err))

	_, err = f.svc.PutDecision(as(u1), &pb.PutDecisionRequest{RecipientUserId: "abc"})
	assert.Equal(t, codes.InvalidArgument, code(err))

	_, err = f.svc.PutDecision(as(u1), &pb.PutDecisionRequest{RecipientUserId: id(u1), LikedRecipient: true})
	assert.Equal(t, codes.InvalidArgument, code(err))

	_, err = f.svc.PutDecision(as(u1), &pb.PutDecisionRequest{RecipientUserId: "999", LikedRecipient: true})
	assert.Equal(t, codes.NotFound, code(err))
}

// TestListLikedYou expects only user2 because user3 liked user1 but was disliked by user1.
func TestListLikedYou(t *testing.T) {
	f := setupService(t)

	resp, err := f.svc.ListLikedYou(as(f.users[0]), &pb.ListLikedYouRequest{})
	require.NoError(t, err)

	require.Len(t, resp.Likers, 1)
	assert.Equal(t, id(f.users[1]), resp.Likers[0].ActorId)
	assert.Empty(t, resp.GetNextPaginationToken())
}

// TestListNewLikedYou: user2 was liked back and user3 was disliked, so nothing is new.
func TestListNewLikedYou(t *testing.T) {
	f := setupService(t)

	resp, err := f.svc.ListNewLikedYou(as(f.users[0]), &pb.ListLikedYouRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Likers, 0)

	// nobody liked user3
	resp, err = f.svc.ListNewLikedYou(as(f.users[2]), &pb.ListLikedYouRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Likers, 0)
}

// TestCountLikedYouCache: first call fills the cache, a new like invalidates it.
func TestCountLikedYouCache(t *testing.T) {
	f := setupService(t)
	u1, u2, u3 := f.users[0], f.users[1], f.users[2]

	resp1, err := f.svc.CountLikedYou(as(u2), &pb.CountLikedYouRequest{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp1.Count)

	resp2, err := f.svc.CountLikedYou(as(u2), &pb.CountLikedYouRequest{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp2.Count)

	_, err = f.svc.PutDecision(as(u3), &pb.PutDecisionRequest{RecipientUserId: id(u2), LikedRecipient: true})
	require.NoError(t, err)

	resp3, err := f.svc.CountLikedYou(as(u2), &pb.CountLikedYouRequest{})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), resp3.Count)

	// user3's like on user1 was disliked back, so it does not count
	resp4, err := f.svc.CountLikedYou(as(u1), &pb.CountLikedYouRequest{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp4.Count)
}

func TestUnmatch(t *testing.T) {
	f := setupService(t)
	u1, u2 := f.users[0], f.users[1]

	_, err := f.svc.Unmatch(as(u2), &pb.UnmatchRequest{UserId: id(u1)})
	require.NoError(t, err)

	matches, err := f.svc.ListMatches(as(u1), &pb.ListMatchesRequest{})
	require.NoError(t, err)
	assert.Empty(t, matches.Matches)

	_, err = f.svc.Unmatch(as(u2), &pb.UnmatchRequest{UserId: id(u1)})
	assert.Equal(t, codes.NotFound, code(err))

	assert.Len(t, f.events.OfType(events.MatchEnded), 1)
}

func TestListSuggestions(t *testing.T) {
	f := setupService(t)

	// user2 has decided on user1 only
	resp, err := f.svc.ListSuggestions(as(f.users[1]), &pb.ListSuggestionsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, id(f.users[2]), resp.Users[0].UserId)

	// user1 has decided on everyone
	resp, err = f.svc.ListSuggestions(as(f.users[0]), &pb.ListSuggestionsRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Users)
}

func TestGetStats(t *testing.T) {
	f := setupService(t)
	u1 := f.users[0]

	resp, err := f.svc.GetStats(as(u1), &pb.GetStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, id(u1), resp.UserId)
	assert.Equal(t, int64(1), resp.MatchesCount)
	assert.Equal(t, int64(1), resp.LikesGivenCount)
	assert.Equal(t, int64(2), resp.LikesReceivedCount)
	assert.InDelta(t, 4.0, resp.PopularityScore, 1e-9)
	assert.InDelta(t, 100.0, resp.MatchSuccessRate, 1e-9)

	other, err := f.svc.GetStats(as(u1), &pb.GetStatsRequest{UserId: id(f.users[2])})
	require.NoError(t, err)
	assert.Equal(t, int64(0), other.MatchesCount)
	assert.Equal(t, int64(1), other.LikesGivenCount)

	_, err = f.svc.GetStats(as(u1), &pb.GetStatsRequest{UserId: "999"})
	assert.Equal(t, codes.NotFound, code(err))
}

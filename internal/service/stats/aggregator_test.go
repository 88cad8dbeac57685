package stats_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcErr "github.com/oggyb/findtheone/internal/errors"
	"github.com/oggyb/findtheone/internal/service/matching"
	"github.com/oggyb/findtheone/internal/service/stats"
	"github.com/oggyb/findtheone/internal/testutil"
)

func TestCompute(t *testing.T) {
	s := stats.Compute(1, 2, 4, 3)
	assert.Equal(t, int64(6), s.TotalInteractions)
	assert.InDelta(t, 7.0, s.PopularityScore, 1e-9)
	assert.InDelta(t, 50.0, s.MatchSuccessRate, 1e-9)

	zero := stats.Compute(1, 0, 0, 0)
	assert.Zero(t, zero.MatchSuccessRate)
	assert.Zero(t, zero.PopularityScore)

	capped := stats.Compute(1, 60, 60, 10)
	assert.InDelta(t, 100.0, capped.PopularityScore, 1e-9)
}

func TestUserStats(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	engine := matching.New(gdb, nil, nil, testutil.Logger())
	agg := stats.New(gdb)

	alice := testutil.CreateUser(t, gdb, "alice", "female")
	bob := testutil.CreateUser(t, gdb, "bob", "male")
	carl := testutil.CreateUser(t, gdb, "carl", "male")
	dan := testutil.CreateUser(t, gdb, "dan", "male")

	// alice likes bob and carl, bob likes back, dan likes alice, alice dislikes dan
	_, _ = engine.Like(ctx, alice.ID, bob.ID)
	_, _ = engine.Like(ctx, alice.ID, carl.ID)
	_, _ = engine.Like(ctx, bob.ID, alice.ID)
	_, _ = engine.Like(ctx, dan.ID, alice.ID)
	_, _ = engine.Dislike(ctx, alice.ID, dan.ID)

	s, err := agg.UserStats(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.MatchesCount)
	assert.Equal(t, int64(2), s.LikesGiven)
	assert.Equal(t, int64(2), s.LikesReceived)
	assert.Equal(t, int64(3), s.TotalInteractions)
	assert.InDelta(t, 4.0, s.PopularityScore, 1e-9)
	assert.InDelta(t, 50.0, s.MatchSuccessRate, 1e-9)

	_, err = agg.UserStats(ctx, 9999)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

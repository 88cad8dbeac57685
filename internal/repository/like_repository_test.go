package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/findtheone/internal/db"
	svcErr "github.com/oggyb/findtheone/internal/errors"
	"github.com/oggyb/findtheone/internal/repository"
	"github.com/oggyb/findtheone/internal/testutil"
)

func TestRecordLike_FirstDecisionWins(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLikeRepository(testutil.NewDB(t))

	created, err := repo.RecordLike(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, created)

	// repeat is a no-op
	created, err = repo.RecordLike(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, created)

	// a dislike after a like does not overwrite it
	created, err = repo.RecordDislike(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, created)

	edge, err := repo.Find(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, edge)
	assert.True(t, edge.IsLike)
}

func TestRecordLike_RejectsSelf(t *testing.T) {
	repo := repository.NewLikeRepository(testutil.NewDB(t))

	_, err := repo.RecordLike(context.Background(), 3, 3)
	assert.ErrorIs(t, err, svcErr.ErrInvalidArgument)
}

func TestIsMutualLike(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLikeRepository(testutil.NewDB(t))

	_, _ = repo.RecordLike(ctx, 1, 2)
	mutual, err := repo.IsMutualLike(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, mutual)

	_, _ = repo.RecordLike(ctx, 2, 1)
	for _, pair := range [][2]uint64{{1, 2}, {2, 1}} {
		mutual, err = repo.IsMutualLike(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, mutual)
	}

	// a like answered by a dislike is not mutual
	_, _ = repo.RecordLike(ctx, 1, 3)
	_, _ = repo.RecordDislike(ctx, 3, 1)
	mutual, err = repo.IsMutualLike(ctx, 1, 3)
	require.NoError(t, err)
	assert.False(t, mutual)
}

func TestCounts(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLikeRepository(testutil.NewDB(t))

	_, _ = repo.RecordLike(ctx, 1, 2)
	_, _ = repo.RecordLike(ctx, 1, 3)
	_, _ = repo.RecordDislike(ctx, 1, 4)
	_, _ = repo.RecordLike(ctx, 5, 1)

	given, err := repo.CountGiven(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), given)

	received, err := repo.CountReceived(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), received)

	liked, err := repo.HasLiked(ctx, 1, 4)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestGetLikersAndPagination(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLikeRepository(testutil.NewDB(t))

	// actors 1,2,3 liked recipient 99
	_, _ = repo.RecordLike(ctx, 1, 99)
	_, _ = repo.RecordLike(ctx, 2, 99)
	_, _ = repo.RecordLike(ctx, 3, 99)
	// recipient disliked actor 2 → exclude
	_, _ = repo.RecordDislike(ctx, 99, 2)

	likes, next, err := repo.GetLikers(ctx, 99, nil, 1)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	require.NotNil(t, next)

	rest, next2, err := repo.GetLikers(ctx, 99, next, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Nil(t, next2)

	got := []uint64{likes[0].LikerID, rest[0].LikerID}
	assert.ElementsMatch(t, []uint64{1, 3}, got)

	count, err := repo.CountLikers(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGetLikers_PagesWithinOneMillisecond(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	repo := repository.NewLikeRepository(gdb)

	base := time.Date(2024, 5, 1, 10, 0, 0, 400_000, time.UTC)
	require.NoError(t, gdb.Create(&[]db.Like{
		{LikerID: 1, LikedID: 99, IsLike: true, CreatedAt: base},
		{LikerID: 2, LikedID: 99, IsLike: true, CreatedAt: base.Add(100 * time.Microsecond)},
		{LikerID: 3, LikedID: 99, IsLike: true, CreatedAt: base.Add(100 * time.Microsecond)},
		{LikerID: 4, LikedID: 99, IsLike: true, CreatedAt: base.Add(200 * time.Microsecond)},
	}).Error)

	var order []uint64
	var token *string
	for i := 0; i < 10; i++ {
		page, next, err := repo.GetLikers(ctx, 99, token, 1)
		require.NoError(t, err)
		for _, l := range page {
			order = append(order, l.LikerID)
		}
		if next == nil {
			break
		}
		token = next
	}
	assert.Equal(t, []uint64{4, 3, 2, 1}, order)
}

func TestGetNewLikers(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLikeRepository(testutil.NewDB(t))

	// actor 1 liked 99, and 99 liked back → mutual
	_, _ = repo.RecordLike(ctx, 1, 99)
	_, _ = repo.RecordLike(ctx, 99, 1)

	// actor 2 liked 99, but not mutual
	_, _ = repo.RecordLike(ctx, 2, 99)

	likes, _, err := repo.GetNewLikers(ctx, 99, nil, 10)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, uint64(2), likes[0].LikerID)
}

func TestGetLikers_BadToken(t *testing.T) {
	repo := repository.NewLikeRepository(testutil.NewDB(t))
	bad := "not-a-token"

	_, _, err := repo.GetLikers(context.Background(), 1, &bad, 10)
	assert.ErrorIs(t, err, svcErr.ErrInvalidArgument)
}

package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/findtheone/internal/db"
	"github.com/oggyb/findtheone/internal/repository"
	"github.com/oggyb/findtheone/internal/seed"
	"github.com/oggyb/findtheone/internal/testutil"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := testutil.NewAppContext(t)

	res, err := seed.Run(ctx, appCtx, 8)
	require.NoError(t, err)
	require.Len(t, res.Users, 8)

	// every balance is backed by the ledger
	diffs, err := repository.NewLedgerRepository(appCtx.DB).Discrepancies(ctx)
	require.NoError(t, err)
	assert.Empty(t, diffs)

	var coins int64
	require.NoError(t, appCtx.DB.Model(&db.User{}).Select("SUM(coins)").Scan(&coins).Error)
	assert.Equal(t, int64(8)*appCtx.Config.Coins.WelcomeBonus, coins)

	// every match row is backed by a mutual like
	var matches []db.Match
	require.NoError(t, appCtx.DB.Find(&matches).Error)
	assert.Len(t, matches, res.Matches)
	likes := repository.NewLikeRepository(appCtx.DB)
	for _, m := range matches {
		mutual, err := likes.IsMutualLike(ctx, m.UserLowID, m.UserHighID)
		require.NoError(t, err)
		assert.True(t, mutual)
	}
}

func TestIfEmpty(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := testutil.NewAppContext(t)

	seeded, err := seed.IfEmpty(ctx, appCtx, 4)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = seed.IfEmpty(ctx, appCtx, 4)
	require.NoError(t, err)
	assert.False(t, seeded)
}

package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/findtheone/internal/db"
	svcErr "github.com/oggyb/findtheone/internal/errors"
	"github.com/oggyb/findtheone/internal/repository"
	"github.com/oggyb/findtheone/internal/testutil"
)

func TestCreateIfAbsent_CanonicalPair(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	repo := repository.NewMatchRepository(gdb)

	m, created, err := repo.CreateIfAbsent(ctx, 9, 4)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint64(4), m.UserLowID)
	assert.Equal(t, uint64(9), m.UserHighID)
	assert.Equal(t, db.MatchActive, m.State)

	// reversed direction hits the same row
	again, created, err := repo.CreateIfAbsent(ctx, 4, 9)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, m.ID, again.ID)

	var count int64
	require.NoError(t, gdb.Model(&db.Match{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateIfAbsent_Concurrent(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	repo := repository.NewMatchRepository(gdb)

	var wg sync.WaitGroup
	ids := make(chan uint64, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := uint64(1), uint64(2)
			if i%2 == 0 {
				a, b = b, a
			}
			m, _, err := repo.CreateIfAbsent(ctx, a, b)
			assert.NoError(t, err)
			if m != nil {
				ids <- m.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	var first uint64
	for id := range ids {
		if first == 0 {
			first = id
		}
		assert.Equal(t, first, id)
	}

	var count int64
	require.NoError(t, gdb.Model(&db.Match{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMatchRepository(testutil.NewDB(t))

	_, _, err := repo.CreateIfAbsent(ctx, 1, 2)
	require.NoError(t, err)

	m, err := repo.Deactivate(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, db.MatchUnmatched, m.State)
	require.NotNil(t, m.UnmatchedBy)
	assert.Equal(t, uint64(2), *m.UnmatchedBy)

	active, err := repo.HasActive(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = repo.Deactivate(ctx, 1, 2)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	// the pair never gets a second row
	again, created, err := repo.CreateIfAbsent(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, db.MatchUnmatched, again.State)
}

func TestListAndCountActive(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMatchRepository(testutil.NewDB(t))

	_, _, _ = repo.CreateIfAbsent(ctx, 1, 2)
	_, _, _ = repo.CreateIfAbsent(ctx, 3, 1)
	_, _, _ = repo.CreateIfAbsent(ctx, 1, 4)
	_, _ = repo.Deactivate(ctx, 1, 4)

	matches, err := repo.ListActive(ctx, 1)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	others := []uint64{matches[0].Other(1), matches[1].Other(1)}
	assert.ElementsMatch(t, []uint64{2, 3}, others)

	count, err := repo.CountActive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

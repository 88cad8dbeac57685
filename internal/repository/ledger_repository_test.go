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

func TestDebit_Conditional(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	u := testutil.CreateUser(t, gdb, "alice", "female")
	repo := repository.NewLedgerRepository(gdb)

	require.NoError(t, repo.Credit(ctx, u.ID, 2))

	ok, err := repo.Debit(ctx, u.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Debit(ctx, u.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	bal, err := repo.Balance(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bal)
}

func TestBalance_UnknownUser(t *testing.T) {
	repo := repository.NewLedgerRepository(testutil.NewDB(t))

	_, err := repo.Balance(context.Background(), 404)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	err = repo.Credit(context.Background(), 404, 1)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

func TestSumAndDiscrepancies(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	alice := testutil.CreateUser(t, gdb, "alice", "female")
	bob := testutil.CreateUser(t, gdb, "bob", "male")
	repo := repository.NewLedgerRepository(gdb)

	require.NoError(t, repo.Credit(ctx, alice.ID, 5))
	require.NoError(t, repo.Append(ctx, &db.Transaction{UserID: alice.ID, Type: db.TxBonus, CoinAmount: 5}))
	// failed entries never count
	require.NoError(t, repo.Append(ctx, &db.Transaction{UserID: alice.ID, Type: db.TxPurchase, CoinAmount: 100, Status: db.TxFailed}))

	sum, err := repo.Sum(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), sum)

	// bob's counter drifts without an entry
	require.NoError(t, repo.Credit(ctx, bob.ID, 3))

	diffs, err := repo.Discrepancies(ctx)
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, repository.Discrepancy{UserID: bob.ID, Balance: 3, LedgerSum: 0}, diffs[0])
}

func TestHistoryPagination(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	u := testutil.CreateUser(t, gdb, "alice", "female")
	repo := repository.NewLedgerRepository(gdb)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, &db.Transaction{UserID: u.ID, Type: db.TxBonus, CoinAmount: int64(i + 1)}))
	}

	page, next, err := repo.History(ctx, u.ID, nil, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	require.NotNil(t, next)

	rest, next2, err := repo.History(ctx, u.ID, next, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Nil(t, next2)

	seen := map[uint64]bool{}
	for _, tx := range append(page, rest...) {
		assert.False(t, seen[tx.ID], "duplicate entry %d", tx.ID)
		seen[tx.ID] = true
	}
	assert.Len(t, seen, 5)
}

func TestHistory_EntriesSharingATimestamp(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	u := testutil.CreateUser(t, gdb, "alice", "female")
	repo := repository.NewLedgerRepository(gdb)

	at := time.Date(2024, 5, 1, 10, 0, 0, 123_456_789, time.UTC)
	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Append(ctx, &db.Transaction{
			UserID:     u.ID,
			Type:       db.TxBonus,
			CoinAmount: int64(i + 1),
			CreatedAt:  at,
		}))
	}

	var amounts []int64
	var token *string
	for i := 0; i < 10; i++ {
		page, next, err := repo.History(ctx, u.ID, token, 1)
		require.NoError(t, err)
		for _, tx := range page {
			amounts = append(amounts, tx.CoinAmount)
		}
		if next == nil {
			break
		}
		token = next
	}
	assert.Equal(t, []int64{4, 3, 2, 1}, amounts)
}

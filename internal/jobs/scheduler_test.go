package jobs_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/findtheone/internal/db"
	"github.com/oggyb/findtheone/internal/jobs"
	"github.com/oggyb/findtheone/internal/repository"
	"github.com/oggyb/findtheone/internal/service/ledger"
	"github.com/oggyb/findtheone/internal/testutil"
)

type countingReconciler struct {
	inner jobs.Reconciler
	runs  atomic.Int32
	drift atomic.Int32
}

func (c *countingReconciler) Reconcile(ctx context.Context) ([]repository.Discrepancy, error) {
	diffs, err := c.inner.Reconcile(ctx)
	c.drift.Store(int32(len(diffs)))
	c.runs.Add(1)
	return diffs, err
}

func TestScheduleReconcile(t *testing.T) {
	gdb := testutil.NewDB(t)
	l := ledger.New(gdb, testutil.Logger())
	u := testutil.CreateUser(t, gdb, "alice", "female")
	_, err := l.Credit(context.Background(), u.ID, 5, db.TxBonus, "seed", decimal.NullDecimal{})
	require.NoError(t, err)

	// break the invariant behind the ledger's back
	require.NoError(t, gdb.Model(&db.User{}).Where("id = ?", u.ID).Update("coins", 7).Error)

	rec := &countingReconciler{inner: l}
	s, err := jobs.NewScheduler(testutil.Logger())
	require.NoError(t, err)
	require.NoError(t, s.ScheduleReconcile(rec, 50*time.Millisecond))
	s.Start()
	t.Cleanup(func() { _ = s.Shutdown() })

	assert.Eventually(t, func() bool { return rec.runs.Load() >= 2 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), rec.drift.Load())
}

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/findtheone/internal/db"
	svcErr "github.com/oggyb/findtheone/internal/errors"
	"github.com/oggyb/findtheone/internal/repository"
	"github.com/oggyb/findtheone/internal/testutil"
)

func TestMessageUnlock_OneWay(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMessageRepository(testutil.NewDB(t))

	m, err := repo.Create(ctx, 1, 2, "hi")
	require.NoError(t, err)
	assert.Equal(t, db.MessageLocked, m.Access)

	flipped, err := repo.Unlock(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = repo.Unlock(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, flipped)

	got, err := repo.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, got.IsUnlocked())
	assert.True(t, got.IsRead)
	assert.NotNil(t, got.UnlockedAt)
}

func TestMessageGet_NotFound(t *testing.T) {
	repo := repository.NewMessageRepository(testutil.NewDB(t))

	_, err := repo.Get(context.Background(), 77)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

func TestMarkConversationRead_OnlyUnlocked(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	repo := repository.NewMessageRepository(gdb)

	locked, _ := repo.Create(ctx, 1, 2, "locked")
	open, _ := repo.Create(ctx, 1, 2, "open")
	reply, _ := repo.Create(ctx, 2, 1, "reply")

	_, err := repo.Unlock(ctx, open.ID)
	require.NoError(t, err)
	// unlocked but still unread
	require.NoError(t, gdb.Model(&db.Message{}).Where("id = ?", open.ID).Update("is_read", false).Error)

	n, err := repo.MarkConversationRead(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.Get(ctx, locked.ID)
	require.NoError(t, err)
	assert.False(t, got.IsRead)
	assert.False(t, got.IsUnlocked())

	// messages sent by the reader are not touched
	got, err = repo.Get(ctx, reply.ID)
	require.NoError(t, err)
	assert.False(t, got.IsRead)
}

func TestConversationAndUnread(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMessageRepository(testutil.NewDB(t))

	first, _ := repo.Create(ctx, 1, 2, "one")
	_, _ = repo.Create(ctx, 2, 1, "two")
	_, _ = repo.Create(ctx, 1, 3, "elsewhere")

	conv, err := repo.Conversation(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, first.ID, conv[0].ID)

	unread, err := repo.Unread(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	require.NoError(t, repo.MarkRead(ctx, first.ID))
	count, err := repo.CountUnread(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

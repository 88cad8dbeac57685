package events_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/findtheone/internal/cache"
	"github.com/oggyb/findtheone/internal/config"
	"github.com/oggyb/findtheone/internal/events"
)

func TestRedisPublisher_PublishesJSON(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	rc := cache.NewRedisCache(cfg)

	sub := rc.Client.Subscribe(context.Background(), "test:events")
	t.Cleanup(func() { _ = sub.Close() })
	_, err = sub.Receive(context.Background())
	require.NoError(t, err)

	pub := events.NewRedisPublisher(rc, "test:events", slog.New(slog.NewTextHandler(io.Discard, nil)))
	pub.Publish(context.Background(), events.Event{
		Type:       events.MatchCreated,
		Recipients: []uint64{1, 2},
		Data:       map[string]any{"match_id": 9},
	})

	select {
	case msg := <-sub.Channel():
		var got events.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, events.MatchCreated, got.Type)
		assert.Equal(t, []uint64{1, 2}, got.Recipients)
		assert.False(t, got.At.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestRedisPublisher_SwallowsErrors(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	rc := cache.NewRedisCache(cfg)
	mr.Close()

	pub := events.NewRedisPublisher(rc, "ch", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NotPanics(t, func() {
		pub.Publish(context.Background(), events.Event{Type: events.MessageSent})
	})
}

func TestRecorder(t *testing.T) {
	r := &events.Recorder{}
	r.Publish(context.Background(), events.Event{Type: events.MessageSent})
	r.Publish(context.Background(), events.Event{Type: events.MessageUnlocked})

	assert.Len(t, r.Events(), 2)
	assert.Len(t, r.OfType(events.MessageUnlocked), 1)
}

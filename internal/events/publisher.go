package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/oggyb/findtheone/internal/cache"
)

type Type string

const (
	MatchCreated    Type = "match.created"
	MatchEnded      Type = "match.ended"
	MessageSent     Type = "message.sent"
	MessageUnlocked Type = "message.unlocked"
	CoinsPurchased  Type = "coins.purchased"
)

// Event is a notification for interested users. Delivery is best effort and
// never part of the operation that produced it.
type Event struct {
	Type       Type           `json:"type"`
	Recipients []uint64       `json:"recipients"`
	Data       map[string]any `json:"data,omitempty"`
	At         time.Time      `json:"at"`
}

// Publisher is the side channel the core emits to after commit.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

// RedisPublisher sends events as JSON on a Redis pub/sub channel.
type RedisPublisher struct {
	cache   *cache.RedisCache
	channel string
	logger  *slog.Logger
}

func NewRedisPublisher(rc *cache.RedisCache, channel string, logger *slog.Logger) *RedisPublisher {
	return &RedisPublisher{cache: rc, channel: channel, logger: logger}
}

// Publish never fails the caller: errors are logged and dropped.
func (p *RedisPublisher) Publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		p.logger.Warn("event marshal failed", "type", e.Type, "err", err)
		return
	}
	// detach from request cancellation; the operation has already committed
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := p.cache.Publish(ctx, p.channel, payload); err != nil {
		p.logger.Warn("event publish failed", "type", e.Type, "err", err)
	}
}

// Recorder keeps published events in memory. Used by tests and local tooling.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns recorded events of type t.
func (r *Recorder) OfType(t Type) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Package matching turns mutual likes into matches. A pair of users has at
// most one match row ever; it is created the first time mutuality is observed
// and may later be ended with Unmatch.
package matching

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/findtheone/internal/cache"
	"github.com/oggyb/findtheone/internal/db"
	svcErr "github.com/oggyb/findtheone/internal/errors"
	"github.com/oggyb/findtheone/internal/events"
	"github.com/oggyb/findtheone/internal/repository"
)

// LikeResult is the outcome of a like.
type LikeResult struct {
	// IsMatch reports whether the pair has an ACTIVE match after the call.
	IsMatch bool
	// Created is false when the like edge already existed.
	Created bool
	// MatchCreated is true only for the call that formed the match.
	MatchCreated bool
	MatchID      uint64
}

// MatchView is a match seen from one side.
type MatchView struct {
	MatchID   uint64
	User      db.User
	MatchedAt time.Time
}

type Engine struct {
	likes   *repository.LikeRepository
	matches *repository.MatchRepository
	users   *repository.UserRepository
	cache   *cache.RedisCache
	events  events.Publisher
	logger  *slog.Logger
}

// New builds the engine. rc may be nil; the liked-you counter cache is then skipped.
func New(database *gorm.DB, rc *cache.RedisCache, publisher events.Publisher, logger *slog.Logger) *Engine {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Engine{
		likes:   repository.NewLikeRepository(database),
		matches: repository.NewMatchRepository(database),
		users:   repository.NewUserRepository(database),
		cache:   rc,
		events:  publisher,
		logger:  logger.With("service", "matching"),
	}
}

func (e *Engine) validatePair(ctx context.Context, actorID, targetID uint64) error {
	if actorID == 0 || targetID == 0 {
		return fmt.Errorf("%w: user ids are required", svcErr.ErrInvalidArgument)
	}
	if actorID == targetID {
		return fmt.Errorf("%w: cannot decide on yourself", svcErr.ErrInvalidArgument)
	}
	ok, err := e.users.Exists(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: user %d or %d", svcErr.ErrNotFound, actorID, targetID)
	}
	return nil
}

// Like records liker → liked and forms a match if the like is reciprocated.
//
// Behavior:
//   - A repeated like (or a like after a dislike) stores nothing new and
//     reports the pair's current match state.
//   - Mutuality is re-derived from the stored edges on every call, so a match
//     whose insert failed after the edge committed is formed by the retry.
//   - Of two concurrent reciprocal likes at least one observes the other.
//   - Match creation is insert-or-detect on the canonical pair; concurrent
//     creators all get IsMatch=true and exactly one row exists.
func (e *Engine) Like(ctx context.Context, likerID, likedID uint64) (LikeResult, error) {
	if err := e.validatePair(ctx, likerID, likedID); err != nil {
		return LikeResult{}, err
	}

	created, err := e.likes.RecordLike(ctx, likerID, likedID)
	if err != nil {
		return LikeResult{}, err
	}
	if created {
		e.invalidateCounts(ctx, likedID)
	}

	m, matchCreated, err := e.formIfMutual(ctx, likerID, likedID)
	if err != nil {
		return LikeResult{}, err
	}
	res := LikeResult{Created: created, MatchCreated: matchCreated}
	if m != nil && m.IsActive() {
		res.IsMatch = true
		res.MatchID = m.ID
	}
	return res, nil
}

// EnsureMatch forms the pair's match if the two users like each other and no
// match row exists yet. Used to replay imported likes.
func (e *Engine) EnsureMatch(ctx context.Context, a, b uint64) (bool, error) {
	if err := e.validatePair(ctx, a, b); err != nil {
		return false, err
	}
	m, _, err := e.formIfMutual(ctx, a, b)
	if err != nil {
		return false, err
	}
	return m != nil && m.IsActive(), nil
}

func (e *Engine) formIfMutual(ctx context.Context, a, b uint64) (*db.Match, bool, error) {
	mutual, err := e.likes.IsMutualLike(ctx, a, b)
	if err != nil || !mutual {
		return nil, false, err
	}

	existing, err := e.matches.FindByPair(ctx, a, b)
	if err != nil || existing != nil {
		return existing, false, err
	}

	m, created, err := e.matches.CreateIfAbsent(ctx, a, b)
	if err != nil {
		return nil, false, err
	}
	if created {
		e.logger.Info("match created", "match_id", m.ID, "user_a", a, "user_b", b)
		e.invalidateCounts(ctx, a, b)
		e.events.Publish(ctx, events.Event{
			Type:       events.MatchCreated,
			Recipients: []uint64{m.UserLowID, m.UserHighID},
			Data:       map[string]any{"match_id": m.ID},
		})
	}
	return m, created, nil
}

// Dislike records liker → liked as a dislike. It never ends an existing match;
// Unmatch does that. created is false when an edge already existed.
func (e *Engine) Dislike(ctx context.Context, likerID, likedID uint64) (bool, error) {
	if err := e.validatePair(ctx, likerID, likedID); err != nil {
		return false, err
	}
	created, err := e.likes.RecordDislike(ctx, likerID, likedID)
	if err != nil {
		return false, err
	}
	// the disliked user drops out of likerID's liked-you count
	e.invalidateCounts(ctx, likerID)
	return created, nil
}

// Unmatch ends the pair's ACTIVE match. Message history is kept. The pair
// cannot match again: likes are immutable and the match row stays UNMATCHED.
func (e *Engine) Unmatch(ctx context.Context, userID, otherUserID uint64) error {
	if userID == otherUserID {
		return fmt.Errorf("%w: cannot unmatch yourself", svcErr.ErrInvalidArgument)
	}
	m, err := e.matches.Deactivate(ctx, userID, otherUserID)
	if err != nil {
		return err
	}
	e.logger.Info("match ended", "match_id", m.ID, "by", userID)
	e.events.Publish(ctx, events.Event{
		Type:       events.MatchEnded,
		Recipients: []uint64{otherUserID},
		Data:       map[string]any{"match_id": m.ID, "by": userID},
	})
	return nil
}

// HasActiveMatch reports whether a and b are currently matched.
func (e *Engine) HasActiveMatch(ctx context.Context, a, b uint64) (bool, error) {
	return e.matches.HasActive(ctx, a, b)
}

// Matches lists the user's ACTIVE matches with the other party's profile.
func (e *Engine) Matches(ctx context.Context, userID uint64) ([]MatchView, error) {
	if _, err := e.users.FindUser(ctx, userID); err != nil {
		return nil, err
	}
	matches, err := e.matches.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.Other(userID))
	}
	users, err := e.users.FindUsers(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		u, ok := users[m.Other(userID)]
		if !ok {
			continue
		}
		views = append(views, MatchView{MatchID: m.ID, User: u, MatchedAt: m.MatchedAt})
	}
	return views, nil
}

// Suggestions lists active users the caller has not decided on yet. The order
// is by id and carries no ranking.
func (e *Engine) Suggestions(ctx context.Context, userID uint64, token *string, limit int) ([]db.User, *string, error) {
	if _, err := e.users.FindUser(ctx, userID); err != nil {
		return nil, nil, err
	}
	return e.users.Suggestions(ctx, userID, token, limit)
}

// LikedYou lists users who liked recipientID, minus those recipientID disliked.
// onlyNew additionally drops likes that recipientID already returned.
func (e *Engine) LikedYou(ctx context.Context, recipientID uint64, onlyNew bool, token *string, limit int) ([]db.Like, *string, error) {
	if onlyNew {
		return e.likes.GetNewLikers(ctx, recipientID, token, limit)
	}
	return e.likes.GetLikers(ctx, recipientID, token, limit)
}

// CountLikedYou returns how many users liked recipientID.
// Cache-first: Redis likes:count:<id>, falling back to the DB and refilling the cache.
func (e *Engine) CountLikedYou(ctx context.Context, recipientID uint64) (int64, error) {
	if e.cache != nil {
		if n, ok, err := e.cache.GetLikeCount(ctx, recipientID); err == nil && ok {
			return n, nil
		}
	}

	count, err := e.likes.CountLikers(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	if e.cache != nil {
		if err := e.cache.UpdateLikeCount(ctx, recipientID, count); err != nil {
			e.logger.Debug("like count cache fill failed", "user", recipientID, "err", err)
		}
	}
	return count, nil
}

func (e *Engine) invalidateCounts(ctx context.Context, userIDs ...uint64) {
	if e.cache == nil {
		return
	}
	if err := e.cache.InvalidateLikeCount(ctx, userIDs...); err != nil {
		e.logger.Debug("like count invalidation failed", "users", userIDs, "err", err)
	}
}

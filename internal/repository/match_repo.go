package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/findtheone/internal/db"
	svcErr "github.com/oggyb/findtheone/internal/errors"
)

// MatchRepository stores matches keyed by the canonical (low, high) pair.
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

func (r *MatchRepository) WithTx(tx *gorm.DB) *MatchRepository {
	return &MatchRepository{db: tx}
}

// CanonicalPair orders two user ids so that the pair is direction independent.
func CanonicalPair(a, b uint64) (low, high uint64) {
	if a < b {
		return a, b
	}
	return b, a
}

// CreateIfAbsent inserts an ACTIVE match for the pair unless a row already
// exists, then returns the stored row. created reports whether this call
// inserted it. Concurrent callers race on idx_match_pair; losers read the winner.
func (r *MatchRepository) CreateIfAbsent(ctx context.Context, a, b uint64) (*db.Match, bool, error) {
	if a == b {
		return nil, false, fmt.Errorf("%w: cannot match a user with themselves", svcErr.ErrInvalidArgument)
	}
	low, high := CanonicalPair(a, b)
	m := db.Match{
		UserLowID:  low,
		UserHighID: high,
		State:      db.MatchActive,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_low_id"}, {Name: "user_high_id"}},
			DoNothing: true,
		}).
		Create(&m)
	if res.Error != nil {
		return nil, false, res.Error
	}
	created := res.RowsAffected > 0

	stored, err := r.FindByPair(ctx, low, high)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, fmt.Errorf("match %d-%d vanished after insert", low, high)
	}
	return stored, created, nil
}

// FindByPair returns the match row for the pair in any state, or nil.
func (r *MatchRepository) FindByPair(ctx context.Context, a, b uint64) (*db.Match, error) {
	low, high := CanonicalPair(a, b)
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		Limit(1).
		Find(&matches).Error
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return &matches[0], nil
}

// FindActive returns the ACTIVE match for the pair, or nil.
func (r *MatchRepository) FindActive(ctx context.Context, a, b uint64) (*db.Match, error) {
	m, err := r.FindByPair(ctx, a, b)
	if err != nil || m == nil || !m.IsActive() {
		return nil, err
	}
	return m, nil
}

// HasActive reports whether an ACTIVE match exists for the pair.
func (r *MatchRepository) HasActive(ctx context.Context, a, b uint64) (bool, error) {
	m, err := r.FindActive(ctx, a, b)
	return m != nil, err
}

// Deactivate flips the pair's ACTIVE match to UNMATCHED.
// Returns svcErr.ErrNotFound when there is no active match.
func (r *MatchRepository) Deactivate(ctx context.Context, byUserID, otherUserID uint64) (*db.Match, error) {
	low, high := CanonicalPair(byUserID, otherUserID)
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("user_low_id = ? AND user_high_id = ? AND state = ?", low, high, db.MatchActive).
		Updates(map[string]any{
			"state":        db.MatchUnmatched,
			"unmatched_at": now,
			"unmatched_by": byUserID,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: no active match between %d and %d", svcErr.ErrNotFound, byUserID, otherUserID)
	}
	return r.FindByPair(ctx, low, high)
}

// ListActive returns the user's ACTIVE matches, newest first.
func (r *MatchRepository) ListActive(ctx context.Context, userID uint64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("(user_low_id = ? OR user_high_id = ?) AND state = ?", userID, userID, db.MatchActive).
		Order("matched_at DESC, id DESC").
		Find(&matches).Error
	return matches, err
}

// CountActive counts the user's ACTIVE matches.
func (r *MatchRepository) CountActive(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("(user_low_id = ? OR user_high_id = ?) AND state = ?", userID, userID, db.MatchActive).
		Count(&count).Error
	return count, err
}

// Get loads a match by id.
func (r *MatchRepository) Get(ctx context.Context, id uint64) (*db.Match, error) {
	var m db.Match
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: match %d", svcErr.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/findtheone/internal/db"
	svcErr "github.com/oggyb/findtheone/internal/errors"
	"github.com/oggyb/findtheone/internal/utils/pagination"
)

// LikeRepository stores directional like/dislike edges.
// Edges are immutable: the first decision on an ordered pair wins and later
// decisions on the same pair are no-ops. It never forms matches itself.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

func (r *LikeRepository) WithTx(tx *gorm.DB) *LikeRepository {
	return &LikeRepository{db: tx}
}

// RecordLike stores liker → liked as a like.
// created is false when any edge for the ordered pair already existed.
//
// Example:
//
//	repo.RecordLike(ctx, 1, 2) // user 1 liked user 2
func (r *LikeRepository) RecordLike(ctx context.Context, likerID, likedID uint64) (bool, error) {
	return r.record(ctx, likerID, likedID, true)
}

// RecordDislike stores liker → liked as a dislike with the same semantics as RecordLike.
func (r *LikeRepository) RecordDislike(ctx context.Context, likerID, likedID uint64) (bool, error) {
	return r.record(ctx, likerID, likedID, false)
}

func (r *LikeRepository) record(ctx context.Context, likerID, likedID uint64, isLike bool) (bool, error) {
	if likerID == likedID {
		return false, fmt.Errorf("%w: cannot decide on yourself", svcErr.ErrInvalidArgument)
	}
	like := db.Like{
		LikerID: likerID,
		LikedID: likedID,
		IsLike:  isLike,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "liker_id"}, {Name: "liked_id"}},
			DoNothing: true,
		}).
		Create(&like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Find returns the edge liker → liked, or nil when there is none.
func (r *LikeRepository) Find(ctx context.Context, likerID, likedID uint64) (*db.Like, error) {
	var likes []db.Like
	err := r.db.WithContext(ctx).
		Where("liker_id = ? AND liked_id = ?", likerID, likedID).
		Limit(1).
		Find(&likes).Error
	if err != nil || len(likes) == 0 {
		return nil, err
	}
	return &likes[0], nil
}

// HasLiked checks whether liker has a positive edge towards liked.
//
// Example:
//
//	repo.HasLiked(ctx, 1, 2) // -> true if user 1 liked user 2
func (r *LikeRepository) HasLiked(ctx context.Context, likerID, likedID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liker_id = ? AND liked_id = ? AND is_like = ?", likerID, likedID, true).
		Count(&count).Error
	return count > 0, err
}

// IsMutualLike reports whether both a → b and b → a are positive edges.
func (r *LikeRepository) IsMutualLike(ctx context.Context, a, b uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("likes l1").
		Joins("JOIN likes l2 ON l2.liker_id = l1.liked_id AND l2.liked_id = l1.liker_id AND l2.is_like = ?", true).
		Where("l1.liker_id = ? AND l1.liked_id = ? AND l1.is_like = ?", a, b, true).
		Count(&count).Error
	return count > 0, err
}

// CountGiven counts positive edges created by userID.
func (r *LikeRepository) CountGiven(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liker_id = ? AND is_like = ?", userID, true).
		Count(&count).Error
	return count, err
}

// CountReceived counts positive edges pointing at userID.
func (r *LikeRepository) CountReceived(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liked_id = ? AND is_like = ?", userID, true).
		Count(&count).Error
	return count, err
}

// notDislikedByRecipient excludes likers the recipient has disliked.
const notDislikedByRecipient = `
	NOT EXISTS (
		SELECT 1 FROM likes l2
		WHERE l2.liker_id = ?
		  AND l2.liked_id = l.liker_id
		  AND l2.is_like = false
	)`

// GetLikers returns users who liked the given recipient.
//
// Behavior:
//   - Only edges where liked_id = X and is_like = true are returned.
//   - Excludes users that the recipient disliked.
//   - Ordered by created_at DESC, liker_id DESC.
//   - Supports cursor-based pagination via paginationToken.
func (r *LikeRepository) GetLikers(
	ctx context.Context,
	recipientID uint64,
	paginationToken *string,
	limit int,
) ([]db.Like, *string, error) {
	query := r.db.WithContext(ctx).
		Table("likes l").
		Where("l.liked_id = ? AND l.is_like = ?", recipientID, true).
		Where(notDislikedByRecipient, recipientID)
	return r.page(query, paginationToken, limit)
}

// GetNewLikers returns users who liked the recipient and have not been liked back.
//
// Behavior:
//   - Same filters as GetLikers.
//   - Excludes mutual likes (recipient already liked them back).
func (r *LikeRepository) GetNewLikers(
	ctx context.Context,
	recipientID uint64,
	paginationToken *string,
	limit int,
) ([]db.Like, *string, error) {
	// subquery to exclude mutual likes
	subQuery := r.db.
		Table("likes").
		Select("1").
		Where("liker_id = l.liked_id AND liked_id = l.liker_id AND is_like = ?", true)

	query := r.db.WithContext(ctx).
		Table("likes l").
		Where("l.liked_id = ? AND l.is_like = ? AND NOT EXISTS (?)", recipientID, true, subQuery).
		Where(notDislikedByRecipient, recipientID)
	return r.page(query, paginationToken, limit)
}

func (r *LikeRepository) page(query *gorm.DB, paginationToken *string, limit int) ([]db.Like, *string, error) {
	cursor, err := pagination.Decode(pagination.Token(paginationToken))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", svcErr.ErrInvalidArgument, err)
	}
	limit = pagination.Limit(limit)

	query = query.Order("l.created_at DESC, l.liker_id DESC").Limit(limit + 1)
	if cursor.ID > 0 && cursor.AtNano > 0 {
		ts := cursor.Time()
		query = query.Where(
			"(l.created_at < ? OR (l.created_at = ? AND l.liker_id < ?))",
			ts, ts, cursor.ID,
		)
	}

	var likes []db.Like
	if err := query.Find(&likes).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(likes) > limit {
		last := likes[limit-1]
		token, _ := pagination.Encode(pagination.At(last.LikerID, last.CreatedAt))
		nextToken = &token
		likes = likes[:limit]
	}
	return likes, nextToken, nil
}

// CountLikers returns how many users liked the given recipient, excluding
// users the recipient disliked. Redis caches this; the DB is the fallback.
func (r *LikeRepository) CountLikers(ctx context.Context, recipientID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("likes l").
		Where("l.liked_id = ? AND l.is_like = ?", recipientID, true).
		Where(notDislikedByRecipient, recipientID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

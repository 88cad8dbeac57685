package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oggyb/findtheone/internal/db"
	svcErr "github.com/oggyb/findtheone/internal/errors"
	"github.com/oggyb/findtheone/internal/utils/pagination"
)

// UserRepository is the read side of the user directory.
// Accounts are created elsewhere (registration, seeding).
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// FindUser returns the user or svcErr.ErrNotFound.
func (r *UserRepository) FindUser(ctx context.Context, userID uint64) (*db.User, error) {
	var u db.User
	err := r.db.WithContext(ctx).First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", svcErr.ErrNotFound, userID)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUsers loads users by id. Missing ids are skipped.
func (r *UserRepository) FindUsers(ctx context.Context, ids []uint64) (map[uint64]db.User, error) {
	out := make(map[uint64]db.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []db.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// Exists reports whether every given user id exists.
func (r *UserRepository) Exists(ctx context.Context, ids ...uint64) (bool, error) {
	unique := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id IN ?", ids).
		Count(&count).Error
	return count == int64(len(unique)), err
}

// FindByUsername is used by tooling that issues tokens for known accounts.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*db.User, error) {
	var u db.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %q", svcErr.ErrNotFound, username)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Suggestions returns active users other than userID on whom userID has not
// decided yet (neither liked nor disliked). Ordered by id only; no ranking.
func (r *UserRepository) Suggestions(
	ctx context.Context,
	userID uint64,
	paginationToken *string,
	limit int,
) ([]db.User, *string, error) {
	cursor, err := pagination.Decode(pagination.Token(paginationToken))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", svcErr.ErrInvalidArgument, err)
	}
	limit = pagination.Limit(limit)

	query := r.db.WithContext(ctx).
		Table("users u").
		Where("u.active = ? AND u.id <> ?", true, userID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM likes l
				WHERE l.liker_id = ?
				  AND l.liked_id = u.id
			)`, userID).
		Order("u.id ASC").
		Limit(limit + 1)
	if cursor.ID > 0 {
		query = query.Where("u.id > ?", cursor.ID)
	}

	var users []db.User
	if err := query.Find(&users).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(users) > limit {
		token, _ := pagination.Encode(pagination.Cursor{ID: users[limit-1].ID})
		nextToken = &token
		users = users[:limit]
	}
	return users, nextToken, nil
}

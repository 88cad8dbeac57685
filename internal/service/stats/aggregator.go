// Package stats computes per-user activity rollups at query time.
package stats

import (
	"context"
	"math"

	"gorm.io/gorm"

	"github.com/oggyb/findtheone/internal/repository"
)

const maxPopularity = 100.0

// UserStats is a snapshot of a user's dating activity.
type UserStats struct {
	UserID            uint64  `json:"userId"`
	MatchesCount      int64   `json:"matchesCount"`
	LikesGiven        int64   `json:"likesGivenCount"`
	LikesReceived     int64   `json:"likesReceivedCount"`
	TotalInteractions int64   `json:"totalInteractions"`
	PopularityScore   float64 `json:"popularityScore"`
	MatchSuccessRate  float64 `json:"matchSuccessRate"`
}

type Aggregator struct {
	likes   *repository.LikeRepository
	matches *repository.MatchRepository
	users   *repository.UserRepository
}

func New(database *gorm.DB) *Aggregator {
	return &Aggregator{
		likes:   repository.NewLikeRepository(database),
		matches: repository.NewMatchRepository(database),
		users:   repository.NewUserRepository(database),
	}
}

// UserStats computes the rollup for userID.
// Popularity weighs a match twice as much as a received like and is capped at 100.
// The success rate is matches per given like, in percent, 0 when nothing was given.
func (a *Aggregator) UserStats(ctx context.Context, userID uint64) (UserStats, error) {
	if _, err := a.users.FindUser(ctx, userID); err != nil {
		return UserStats{}, err
	}

	matches, err := a.matches.CountActive(ctx, userID)
	if err != nil {
		return UserStats{}, err
	}
	given, err := a.likes.CountGiven(ctx, userID)
	if err != nil {
		return UserStats{}, err
	}
	received, err := a.likes.CountReceived(ctx, userID)
	if err != nil {
		return UserStats{}, err
	}

	return Compute(userID, matches, given, received), nil
}

// Compute derives the rollup from raw counts.
func Compute(userID uint64, matches, given, received int64) UserStats {
	s := UserStats{
		UserID:            userID,
		MatchesCount:      matches,
		LikesGiven:        given,
		LikesReceived:     received,
		TotalInteractions: given + matches,
		PopularityScore:   math.Min(maxPopularity, float64(received)*1.0+float64(matches)*2.0),
	}
	if given > 0 {
		s.MatchSuccessRate = float64(matches) / float64(given) * 100.0
	}
	return s
}

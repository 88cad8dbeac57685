// Package seed fills a database with demo users, likes, matches and coins.
// Every coin and every match goes through the core so the data satisfies the
// same invariants as production traffic.
package seed

import (
	"context"
	"fmt"

	"github.com/oggyb/findtheone/internal/app"
	"github.com/oggyb/findtheone/internal/db"
	"github.com/oggyb/findtheone/internal/service/ledger"
	"github.com/oggyb/findtheone/internal/service/matching"
)

type Result struct {
	Users   []db.User
	Matches int
}

// Run wipes all tables and seeds n demo users.
func Run(ctx context.Context, appCtx *app.AppContext, n int) (*Result, error) {
	log := appCtx.Logger.With("component", "seed")

	if err := db.Truncate(appCtx.DB); err != nil {
		return nil, err
	}
	users, err := db.CreateUsers(appCtx.DB, db.DemoUsers(n))
	if err != nil {
		return nil, err
	}

	l := ledger.New(appCtx.DB, appCtx.Logger, ledger.WithWelcomeBonus(appCtx.Config.Coins.WelcomeBonus))
	for _, u := range users {
		if _, err := l.GrantWelcomeBonus(ctx, u.ID); err != nil {
			return nil, fmt.Errorf("welcome bonus for %s: %w", u.Username, err)
		}
	}

	pairs, err := db.SeedLikes(appCtx.DB, users, log)
	if err != nil {
		return nil, err
	}

	// events are not published for seeded matches
	engine := matching.New(appCtx.DB, appCtx.RedisCache, nil, appCtx.Logger)
	res := &Result{Users: users}
	for _, p := range pairs {
		ok, err := engine.EnsureMatch(ctx, p[0], p[1])
		if err != nil {
			return nil, fmt.Errorf("match %d-%d: %w", p[0], p[1], err)
		}
		if ok {
			res.Matches++
		}
	}

	log.Info("seed complete", "users", len(users), "matches", res.Matches)
	return res, nil
}

// IfEmpty seeds only when there are no users yet.
func IfEmpty(ctx context.Context, appCtx *app.AppContext, n int) (bool, error) {
	var count int64
	if err := appCtx.DB.WithContext(ctx).Model(&db.User{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	_, err := Run(ctx, appCtx, n)
	return err == nil, err
}

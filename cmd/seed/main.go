package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/oggyb/findtheone/internal/app"
	"github.com/oggyb/findtheone/internal/auth"
	"github.com/oggyb/findtheone/internal/cache"
	"github.com/oggyb/findtheone/internal/config"
	"github.com/oggyb/findtheone/internal/db"
	"github.com/oggyb/findtheone/internal/logger"
	"github.com/oggyb/findtheone/internal/seed"
)

func main() {
	users := flag.Int("users", 20, "number of demo users")
	tokens := flag.Bool("tokens", true, "print a bearer token per user")
	flag.Parse()

	cfg := config.Load()
	logger.InitFromConfig(cfg)
	log := logger.L()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	// redis is optional here; only the liked-you counters live there
	var rc *cache.RedisCache
	if c := cache.NewRedisCache(cfg); c.Ping(context.Background()) == nil {
		rc = c
		defer c.Close()
	} else {
		_ = c.Close()
		log.Warn("redis unavailable, skipping cache")
	}

	appCtx := app.New(database, rc, log).WithConfig(cfg)
	res, err := seed.Run(context.Background(), appCtx, *users)
	if err != nil {
		log.Error("failed to seed", "err", err)
		os.Exit(1)
	}

	if !*tokens {
		return
	}
	issuer := auth.NewIssuer(cfg)
	for _, u := range res.Users {
		tok, err := issuer.Issue(u.ID, u.Username)
		if err != nil {
			log.Error("failed to issue token", "user", u.Username, "err", err)
			os.Exit(1)
		}
		fmt.Printf("%d\t%s\t%s\n", u.ID, u.Username, tok)
	}
}

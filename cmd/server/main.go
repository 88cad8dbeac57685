package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oggyb/findtheone/internal/app"
	"github.com/oggyb/findtheone/internal/auth"
	"github.com/oggyb/findtheone/internal/cache"
	"github.com/oggyb/findtheone/internal/config"
	"github.com/oggyb/findtheone/internal/db"
	"github.com/oggyb/findtheone/internal/events"
	"github.com/oggyb/findtheone/internal/httpapi"
	"github.com/oggyb/findtheone/internal/jobs"
	"github.com/oggyb/findtheone/internal/logger"
	"github.com/oggyb/findtheone/internal/seed"
	"github.com/oggyb/findtheone/internal/server"
	"github.com/oggyb/findtheone/internal/service/explore"
	"github.com/oggyb/findtheone/internal/service/inbox"
	"github.com/oggyb/findtheone/internal/service/ledger"
	"github.com/oggyb/findtheone/internal/service/wallet"
)

func main() {
	cfg := config.Load()

	logger.InitFromConfig(cfg)
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	publisher := events.NewRedisPublisher(redisCache, cfg.Events.Channel, log)
	appCtx := app.New(database, redisCache, log).WithConfig(cfg).WithEvents(publisher)
	issuer := auth.NewIssuer(cfg)

	if cfg.IsDevelopment() {
		seeded, err := seed.IfEmpty(ctx, appCtx, 20)
		if err != nil {
			log.Error("failed to seed", "err", err)
		} else if seeded {
			log.Info("seeded empty development database")
		}
	}

	scheduler, err := jobs.NewScheduler(log)
	if err != nil {
		log.Error("failed to init scheduler", "err", err)
		os.Exit(1)
	}
	l := ledger.New(database, log, ledger.WithWelcomeBonus(cfg.Coins.WelcomeBonus))
	if err := scheduler.ScheduleReconcile(l, cfg.Jobs.ReconcileInterval); err != nil {
		log.Error("failed to schedule reconcile", "err", err)
		os.Exit(1)
	}
	scheduler.Start()

	grpcServer := server.NewGRPCServer(appCtx, issuer,
		explore.NewRegistrar(appCtx),
		inbox.NewRegistrar(appCtx),
		wallet.NewRegistrar(appCtx),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.StartGRPCServer(gctx, appCtx, grpcServer)
	})

	if cfg.HTTP.Enabled {
		httpServer := &http.Server{
			Addr:              cfg.HTTP.Host + ":" + cfg.HTTP.Port,
			Handler:           httpapi.NewRouter(appCtx, httpapi.NewHandler(appCtx, issuer)),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info("starting HTTP server", "addr", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "err", err)
	}
	if err := scheduler.Shutdown(); err != nil {
		log.Error("failed to stop scheduler", "err", err)
	}
	log.Info("shutdown complete")
}

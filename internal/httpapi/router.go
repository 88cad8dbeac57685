// Package httpapi serves the core over JSON/HTTP with gin. It resolves the
// caller from the bearer token and passes user ids explicitly into the core.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/findtheone/internal/app"
	"github.com/oggyb/findtheone/internal/auth"
	"github.com/oggyb/findtheone/internal/repository"
	"github.com/oggyb/findtheone/internal/service/ledger"
	"github.com/oggyb/findtheone/internal/service/matching"
	"github.com/oggyb/findtheone/internal/service/messaging"
	"github.com/oggyb/findtheone/internal/service/stats"
)

type Handler struct {
	engine  *matching.Engine
	gate    *messaging.Gate
	ledger  *ledger.Ledger
	stats   *stats.Aggregator
	users   *repository.UserRepository
	issuer  *auth.Issuer
	logger  *slog.Logger
	devAuth bool
}

// NewHandler wires one instance of each core component from appCtx.
func NewHandler(appCtx *app.AppContext, issuer *auth.Issuer) *Handler {
	l := ledger.New(appCtx.DB, appCtx.Logger,
		ledger.WithEvents(appCtx.Events),
		ledger.WithWelcomeBonus(appCtx.Config.Coins.WelcomeBonus),
	)
	engine := matching.New(appCtx.DB, appCtx.RedisCache, appCtx.Events, appCtx.Logger)
	return &Handler{
		engine:  engine,
		gate:    messaging.New(appCtx.DB, l, engine, appCtx.Events, appCtx.Logger),
		ledger:  l,
		stats:   stats.New(appCtx.DB),
		users:   repository.NewUserRepository(appCtx.DB),
		issuer:  issuer,
		logger:  appCtx.Logger.With("component", "http"),
		devAuth: appCtx.Config.IsDevelopment(),
	}
}

// NewRouter builds the gin engine with every route mounted under /api/v1.
func NewRouter(appCtx *app.AppContext, h *Handler) *gin.Engine {
	if !appCtx.Config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	cfg := appCtx.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(h.logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limit := RateLimit(appCtx.RedisCache, cfg.RateLimit.Requests, cfg.RateLimit.Window, h.logger)
	authMw := AuthRequired(h.issuer)

	api := r.Group("/api/v1")
	{
		api.GET("/wallet/packages", limit, h.ListPackages)
		if h.devAuth {
			api.POST("/auth/dev-token", limit, h.DevToken)
		}

		authed := api.Group("", authMw, limit)
		{
			authed.POST("/like", h.Like)
			authed.POST("/dislike", h.Dislike)
			authed.POST("/unmatch", h.Unmatch)
			authed.GET("/matches", h.Matches)
			authed.GET("/suggestions", h.Suggestions)
			authed.GET("/liked-you", h.LikedYou)
			authed.GET("/liked-you/new", h.NewLikedYou)
			authed.GET("/liked-you/count", h.CountLikedYou)
			authed.GET("/stats", h.Stats)

			messages := authed.Group("/messages")
			{
				messages.POST("", h.SendMessage)
				messages.GET("/unread", h.Unread)
				messages.GET("/unread/count", h.UnreadCount)
				messages.GET("/conversation/:userId", h.Conversation)
				messages.POST("/unlock", h.Unlock)
				messages.GET("/:id", h.ReadMessage)
				messages.GET("/:id/can-read", h.CanRead)
				messages.PUT("/:id/read", h.MarkRead)
				messages.PUT("/read/conversation/:userId", h.MarkConversationRead)
			}

			wallet := authed.Group("/wallet")
			{
				wallet.GET("", h.Balance)
				wallet.POST("/purchase", h.Purchase)
				wallet.GET("/transactions", h.Transactions)
			}
		}
	}
	return r
}

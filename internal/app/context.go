package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/findtheone/internal/cache"
	"github.com/oggyb/findtheone/internal/config"
	"github.com/oggyb/findtheone/internal/events"
)

// AppContext holds shared dependencies (DB, Redis, Logger, etc.)
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Config     *config.Config
	Events     events.Publisher
}

// New creates a new AppContext. Events default to a no-op publisher and
// Config to the environment.
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Config:     config.New(),
		Events:     events.NopPublisher{},
	}
}

// WithConfig replaces the configuration.
func (a *AppContext) WithConfig(cfg *config.Config) *AppContext {
	a.Config = cfg
	return a
}

// WithEvents replaces the event publisher.
func (a *AppContext) WithEvents(p events.Publisher) *AppContext {
	a.Events = p
	return a
}

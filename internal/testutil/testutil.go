// Package testutil wires in-memory infrastructure for package tests:
// a per-test SQLite database and a miniredis instance.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/findtheone/internal/app"
	"github.com/oggyb/findtheone/internal/cache"
	"github.com/oggyb/findtheone/internal/config"
	"github.com/oggyb/findtheone/internal/db"
	"github.com/oggyb/findtheone/internal/events"
)

// NewDB opens an isolated in-memory SQLite database with the schema migrated.
// The pool is pinned to one connection so concurrent tests serialize on it
// instead of failing with shared-cache lock errors. The clock is not truncated,
// matching what production drivers store.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	return open(t, dsn, 1)
}

// NewConcurrentDB opens a file-backed SQLite database in WAL mode with a pool
// of several connections, so goroutines run on separate connections and read
// concurrently. Writers queue on the busy timeout; transactions take the write
// lock on BEGIN.
func NewConcurrentDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=10000&_txlock=immediate", path)
	return open(t, dsn, 8)
}

func open(t *testing.T, dsn string, conns int) *gorm.DB {
	t.Helper()

	dbase, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC() },
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))
	return dbase
}

// NewCache starts a miniredis and returns a cache bound to it.
func NewCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.Password = ""
	cfg.Redis.DB = 0
	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Config returns a config suitable for tests.
func Config() *config.Config {
	cfg := config.New()
	cfg.App.ENV = "test"
	cfg.Auth.Secret = "test-secret"
	cfg.Auth.Issuer = "findtheone-test"
	cfg.Auth.TokenTTL = time.Hour
	cfg.RateLimit.Requests = 0
	cfg.RateLimit.Window = time.Hour
	cfg.Coins.WelcomeBonus = 10
	return cfg
}

// NewAppContext wires a DB, Redis and an event recorder.
func NewAppContext(t *testing.T) (*app.AppContext, *events.Recorder) {
	t.Helper()
	dbase := NewDB(t)
	rc, _ := NewCache(t)
	rec := &events.Recorder{}
	appCtx := app.New(dbase, rc, Logger()).WithConfig(Config()).WithEvents(rec)
	return appCtx, rec
}

// CreateUser inserts an active user with zero coins.
func CreateUser(t *testing.T, gdb *gorm.DB, username, gender string) db.User {
	t.Helper()
	u := db.User{
		Username:     username,
		Email:        username + "@test.com",
		PasswordHash: "x",
		Gender:       gender,
		Active:       true,
		LastLoginAt:  time.Now().UTC(),
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

// Deactivate marks a user inactive. gorm skips zero values on create when a
// column has a default, so this has to be a separate update.
func Deactivate(t *testing.T, gdb *gorm.DB, userID uint64) {
	t.Helper()
	require.NoError(t, gdb.Model(&db.User{}).Where("id = ?", userID).Update("active", false).Error)
}

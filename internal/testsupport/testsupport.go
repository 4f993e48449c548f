package testsupport

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sitewatch/internal/tracking"
)

// testDBCache caches test databases by test name to allow multiple calls
// within the same test to share the same database
var testDBCache = make(map[string]*gorm.DB)
var testDBCacheMu sync.Mutex

func allModels() []any {
	return []any{
		&tracking.VisitorSession{},
		&tracking.PageView{},
		&tracking.UserEvent{},
		&tracking.DailyRollup{},
	}
}

// SetupTestDB creates a test database with all tracking models migrated.
// Uses a named in-memory database with cache=shared to allow multiple
// connections to share the same database within a test. Caches the database
// by root test name so subtests share the same database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testName := t.Name()

	// Use the root test name for caching to handle closure issues where
	// setup functions capture the outer t while t.Run has subtest t
	rootName := testName
	if idx := strings.Index(testName, "/"); idx > 0 {
		rootName = testName[:idx]
	}

	testDBCacheMu.Lock()
	if db, exists := testDBCache[rootName]; exists {
		testDBCacheMu.Unlock()
		return db
	}
	testDBCacheMu.Unlock()

	sanitizedName := strings.ReplaceAll(rootName, "/", "_")
	dsn := fmt.Sprintf("file:test_%s_%d?mode=memory&cache=shared", sanitizedName, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("testsupport: failed to open test database: %v", err)
	}

	// One pooled connection keeps concurrent queries serialized; shared
	// in-memory databases misbehave with parallel connections.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	db.Exec("PRAGMA foreign_keys = ON")
	db.Exec("PRAGMA journal_mode = WAL")

	if err := db.AutoMigrate(allModels()...); err != nil {
		t.Fatalf("testsupport: failed to migrate models: %v", err)
	}

	testDBCacheMu.Lock()
	testDBCache[rootName] = db
	testDBCacheMu.Unlock()

	t.Cleanup(func() {
		testDBCacheMu.Lock()
		delete(testDBCache, rootName)
		testDBCacheMu.Unlock()
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// GetLogger returns a test logger
func GetLogger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})
	return slog.New(handler)
}

// CreateSession inserts a visitor session row directly for test setup.
func CreateSession(t *testing.T, db *gorm.DB, session tracking.VisitorSession) tracking.VisitorSession {
	t.Helper()

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = session.CreatedAt
	}
	require.NoError(t, db.Create(&session).Error)
	return session
}

// CreatePageView inserts a page view row directly for test setup.
func CreatePageView(t *testing.T, db *gorm.DB, view tracking.PageView) tracking.PageView {
	t.Helper()

	if view.CreatedAt.IsZero() {
		view.CreatedAt = time.Now().UTC()
	}
	require.NoError(t, db.Create(&view).Error)
	return view
}

// CreateUserEvent inserts a user event row directly for test setup.
func CreateUserEvent(t *testing.T, db *gorm.DB, event tracking.UserEvent) tracking.UserEvent {
	t.Helper()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

// CreateRollup inserts a daily rollup row directly for test setup.
func CreateRollup(t *testing.T, db *gorm.DB, rollup tracking.DailyRollup) tracking.DailyRollup {
	t.Helper()

	now := time.Now().UTC()
	if rollup.CreatedAt.IsZero() {
		rollup.CreatedAt = now
	}
	if rollup.UpdatedAt.IsZero() {
		rollup.UpdatedAt = now
	}
	require.NoError(t, db.Create(&rollup).Error)
	return rollup
}

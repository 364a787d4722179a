package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-stylist-backend/internal/domain"
)

// newRepoDB opens a private in-memory database. Pass migrate=false to get an
// empty schema for error-path tests.
func newRepoDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection so the foreign_keys PRAGMA applies to every query.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if migrate {
		if err := AutoMigrate(db); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedChat(t *testing.T, db *gorm.DB, id, userID string, updated time.Time) {
	t.Helper()
	c := &domain.Chat{ID: id, UserID: userID, Title: "T-" + id, CreatedAt: updated, UpdatedAt: updated}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed chat %s: %v", id, err)
	}
}

func seedMessage(t *testing.T, db *gorm.DB, id, chatID, role string, at time.Time) {
	t.Helper()
	m := &domain.Message{ID: id, ChatID: chatID, Role: role, Content: "content " + id, CreatedAt: at}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed message %s: %v", id, err)
	}
}

var bg = context.Background()

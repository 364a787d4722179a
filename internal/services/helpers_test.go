package services

import (
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-stylist-backend/internal/domain"
)

// newTestDB opens a private in-memory database and migrates the given models,
// or every model when none are given.
func newTestDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db.Exec("PRAGMA foreign_keys=ON;")
	if len(models) == 0 {
		models = domain.Models()
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedChat(t *testing.T, db *gorm.DB, id, userID string) *domain.Chat {
	t.Helper()
	c := &domain.Chat{ID: id, UserID: userID, Title: domain.DefaultChatTitle}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed chat: %v", err)
	}
	return c
}

func seedMessage(t *testing.T, db *gorm.DB, id, chatID, role, content string) *domain.Message {
	t.Helper()
	m := &domain.Message{ID: id, ChatID: chatID, Role: role, Content: content}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed message: %v", err)
	}
	return m
}

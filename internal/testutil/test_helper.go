package testutil

import (
	"testing"

	"github.com/relaychat-io/relaychat-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenTestDB returns an in-memory sqlite store migrated with the full
// schema. The pool is capped at one connection: that keeps the memory
// database alive across borrows and funnels concurrent callers through the
// same bounded-pool discipline production relies on.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.User{},
		&models.Chat{},
		&models.Message{},
		&models.ReadReceipt{},
		&models.Group{},
		&models.GroupMember{},
		&models.GroupMessage{},
		&models.GroupReadReceipt{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return db
}

// CreateUser inserts a user row and returns it.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %q: %v", username, err)
	}
	return user
}

// CreateGroup inserts a group with its creator as first member and returns it.
func CreateGroup(t *testing.T, db *gorm.DB, name string, creatorID uint) *models.Group {
	t.Helper()
	group := &models.Group{Name: name, CreatorID: creatorID}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create group %q: %v", name, err)
	}
	if err := db.Create(&models.GroupMember{GroupID: group.ID, UserID: creatorID}).Error; err != nil {
		t.Fatalf("failed to add creator to group %q: %v", name, err)
	}
	return group
}

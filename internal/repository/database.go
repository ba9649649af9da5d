package repository

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/relaychat-io/relaychat-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the shared store. The pool is bounded so concurrent connection
// handlers never interleave statements on one session; every handler borrows
// a connection (or transaction) per logical operation and returns it.
func InitDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
	)

	// TranslateError turns driver uniqueness violations into
	// gorm.ErrDuplicatedKey, which the services map to conflict replies.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(envInt("DB_MAX_OPEN_CONNS", 25))
	sqlDB.SetMaxIdleConns(envInt("DB_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxLifetime(envDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute))

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
		return nil, err
	}

	return db, nil
}

// CloseDB drains the pool at shutdown.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func envInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := time.ParseDuration(s)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

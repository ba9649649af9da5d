package models

import (
	"time"
)

// User is created once at registration and never updated or deleted.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Username string `gorm:"uniqueIndex;not null" json:"username"`

	Messages []Message `gorm:"foreignKey:SenderID" json:"-"`
}

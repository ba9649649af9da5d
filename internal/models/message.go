package models

import (
	"time"
)

// Message is a direct message inside a chat. Deleting a message removes its
// read receipts in the same transaction; there is no soft delete.
type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ChatID   uint   `gorm:"not null;index" json:"chat_id"`
	SenderID uint   `gorm:"not null;index" json:"sender_id"`
	Content  string `gorm:"type:text;not null" json:"content"`

	Chat   Chat `gorm:"foreignKey:ChatID" json:"-"`
	Sender User `gorm:"foreignKey:SenderID" json:"-"`
}

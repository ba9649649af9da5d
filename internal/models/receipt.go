package models

import (
	"time"
)

// ReadReceipt marks that a reader has seen a direct message. One row per
// (message, reader); a repeat read refreshes read_at in place instead of
// inserting a duplicate.
type ReadReceipt struct {
	ID uint `gorm:"primarykey" json:"id"`

	MessageID uint      `gorm:"not null;uniqueIndex:idx_read_pair" json:"message_id"`
	ReaderID  uint      `gorm:"not null;uniqueIndex:idx_read_pair" json:"reader_id"`
	ReadAt    time.Time `gorm:"autoCreateTime" json:"read_at"`

	Message Message `gorm:"foreignKey:MessageID" json:"-"`
	Reader  User    `gorm:"foreignKey:ReaderID" json:"-"`
}

// GroupReadReceipt carries the same upsert contract as ReadReceipt, keyed
// against group messages.
type GroupReadReceipt struct {
	ID uint `gorm:"primarykey" json:"id"`

	MessageID uint      `gorm:"not null;uniqueIndex:idx_group_read_pair" json:"message_id"`
	ReaderID  uint      `gorm:"not null;uniqueIndex:idx_group_read_pair" json:"reader_id"`
	ReadAt    time.Time `gorm:"autoCreateTime" json:"read_at"`

	Message GroupMessage `gorm:"foreignKey:MessageID" json:"-"`
	Reader  User         `gorm:"foreignKey:ReaderID" json:"-"`
}

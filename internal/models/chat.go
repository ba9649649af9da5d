package models

import (
	"time"
)

// Chat is the directed container for one user's messages to another.
// The (sender, receiver) pair is looked up in exact order only: a reply in
// the opposite direction gets its own chat row. The unique index on the
// ordered pair keeps concurrent get-or-create race-safe.
type Chat struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SenderID   uint `gorm:"not null;uniqueIndex:idx_chat_pair" json:"sender_id"`
	ReceiverID uint `gorm:"not null;uniqueIndex:idx_chat_pair" json:"receiver_id"`

	Sender   User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`

	Messages []Message `gorm:"foreignKey:ChatID" json:"-"`
}

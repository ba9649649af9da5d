package models

import (
	"time"
)

// Group is a named container owned by its creator. The creator is the
// permanent admin; there is no ownership transfer and no group deletion.
type Group struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name      string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatorID uint   `gorm:"not null" json:"creator_id"`

	Creator User          `gorm:"foreignKey:CreatorID" json:"-"`
	Members []GroupMember `gorm:"foreignKey:GroupID" json:"-"`
}

// GroupMember rows are inserted by any current member (the creator's row is
// inserted at group creation) and removed only by the member leaving.
type GroupMember struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	GroupID  uint      `gorm:"not null;uniqueIndex:idx_group_member" json:"group_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_group_member" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`

	User  User  `gorm:"foreignKey:UserID" json:"user"`
	Group Group `gorm:"foreignKey:GroupID" json:"-"`
}

type GroupMessage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	GroupID  uint   `gorm:"not null;index" json:"group_id"`
	SenderID uint   `gorm:"not null;index" json:"sender_id"`
	Content  string `gorm:"type:text;not null" json:"content"`

	Group  Group `gorm:"foreignKey:GroupID" json:"-"`
	Sender User  `gorm:"foreignKey:SenderID" json:"-"`
}

package repository

import (
	"github.com/relaychat-io/relaychat-backend/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByUsername(username string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
}

// MessageRepositoryInterface defines the contract for direct-message repository operations
type MessageRepositoryInterface interface {
	CreateInChat(senderID, receiverID uint, content string) (*models.Message, error)
	FindByID(id uint) (*models.Message, error)
	ListInbox(userID uint) ([]InboxRow, error)
	IsAddressedTo(messageID, userID uint) (bool, error)
	DeleteWithReceipts(messageID uint) (int64, error)
}

// ReadReceiptRepositoryInterface defines the contract for direct-message read receipts
type ReadReceiptRepositoryInterface interface {
	Upsert(messageID, readerID uint) error
	ListByAuthor(authorID uint) ([]ReadStatusRow, error)
}

// GroupRepositoryInterface defines the contract for group repository operations
type GroupRepositoryInterface interface {
	CreateWithCreator(group *models.Group) error
	FindByName(name string) (*models.Group, error)
	AddMember(groupID, userID uint) error
	RemoveMember(groupID, userID uint) (int64, error)
	IsMember(groupID, userID uint) (bool, error)
	ListForUser(userID uint) ([]GroupRow, error)
	ListMembers(groupID uint) ([]MemberRow, error)
}

// GroupMessageRepositoryInterface defines the contract for group messages and
// their read receipts
type GroupMessageRepositoryInterface interface {
	Create(message *models.GroupMessage) error
	FindByID(id uint) (*models.GroupMessage, error)
	ListAndMarkRead(groupID, readerID uint) ([]GroupMessageRow, error)
	MarkAllRead(groupID, readerID uint) error
	DeleteWithReceipts(messageID uint) (int64, error)
	ReadBy(messageID uint) ([]ReadByRow, error)
	NotReadBy(messageID uint) ([]string, error)
}

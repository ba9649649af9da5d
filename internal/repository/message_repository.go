package repository

import (
	"errors"
	"time"

	"github.com/relaychat-io/relaychat-backend/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// InboxRow is a denormalized row of the viewer's conversation feed: the
// message joined with its sender's username.
type InboxRow struct {
	ID        uint      `gorm:"column:id"`
	Sender    string    `gorm:"column:sender"`
	Content   string    `gorm:"column:content"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// CreateInChat appends a message to the directed (sender, receiver) chat,
// creating the chat row first if this ordered pair has never talked. Both
// statements run in one transaction so no message can exist without its chat.
func (r *MessageRepository) CreateInChat(senderID, receiverID uint, content string) (*models.Message, error) {
	msg, err := r.createInChatOnce(senderID, receiverID, content)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the chat-pair race to a concurrent first send; the second
		// pass reuses the winner's row.
		return r.createInChatOnce(senderID, receiverID, content)
	}
	return msg, err
}

func (r *MessageRepository) createInChatOnce(senderID, receiverID uint, content string) (*models.Message, error) {
	msg := &models.Message{SenderID: senderID, Content: content}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var chat models.Chat
		err := tx.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).First(&chat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			chat = models.Chat{SenderID: senderID, ReceiverID: receiverID}
			if err := tx.Create(&chat).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		msg.ChatID = chat.ID
		return tx.Create(msg).Error
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *MessageRepository) FindByID(id uint) (*models.Message, error) {
	var msg models.Message
	if err := r.db.Preload("Chat").First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListInbox returns every message addressed to the viewer, plus the
// counterpart's messages on chats the viewer opened, ascending by time.
func (r *MessageRepository) ListInbox(userID uint) ([]InboxRow, error) {
	var rows []InboxRow
	err := r.db.Raw(`
		SELECT m.id AS id, u.username AS sender, m.content AS content, m.created_at AS created_at
		FROM messages m
		JOIN chats c ON m.chat_id = c.id
		JOIN users u ON m.sender_id = u.id
		WHERE c.receiver_id = ? OR (c.sender_id = ? AND m.sender_id <> ?)
		ORDER BY m.created_at ASC, m.id ASC
	`, userID, userID, userID).Scan(&rows).Error
	return rows, err
}

// IsAddressedTo reports whether the message sits in a chat whose receiver is
// userID and was authored by someone else, i.e. whether userID may mark it
// read.
func (r *MessageRepository) IsAddressedTo(messageID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Joins("JOIN chats ON chats.id = messages.chat_id").
		Where("messages.id = ? AND chats.receiver_id = ? AND messages.sender_id <> ?",
			messageID, userID, userID).
		Count(&count).Error
	return count > 0, err
}

// DeleteWithReceipts removes the message's receipts and then the message as
// one atomic unit. The returned count is the number of message rows removed.
func (r *MessageRepository) DeleteWithReceipts(messageID uint) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", messageID).Delete(&models.ReadReceipt{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Message{}, messageID)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

package repository

import (
	"time"

	"github.com/relaychat-io/relaychat-backend/internal/models"
	"gorm.io/gorm"
)

type GroupMessageRepository struct {
	db *gorm.DB
}

func NewGroupMessageRepository(db *gorm.DB) *GroupMessageRepository {
	return &GroupMessageRepository{db: db}
}

// GroupMessageRow is one group history entry joined with its sender's
// username.
type GroupMessageRow struct {
	ID        uint      `gorm:"column:id"`
	Sender    string    `gorm:"column:sender"`
	Content   string    `gorm:"column:content"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// ReadByRow is one member who has read a group message.
type ReadByRow struct {
	Username string    `gorm:"column:username"`
	ReadAt   time.Time `gorm:"column:read_at"`
}

func (r *GroupMessageRepository) Create(message *models.GroupMessage) error {
	return r.db.Create(message).Error
}

func (r *GroupMessageRepository) FindByID(id uint) (*models.GroupMessage, error) {
	var msg models.GroupMessage
	if err := r.db.Preload("Group").First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListAndMarkRead returns the full group history ascending by time and, in
// the same transaction, upserts a read receipt for every listed message the
// reader did not author.
func (r *GroupMessageRepository) ListAndMarkRead(groupID, readerID uint) ([]GroupMessageRow, error) {
	var rows []GroupMessageRow
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(listGroupMessagesSQL, groupID).Scan(&rows).Error; err != nil {
			return err
		}
		return tx.Exec(markAllReadSQL, readerID, groupID, readerID).Error
	})
	return rows, err
}

// MarkAllRead upserts receipts for the reader against every group message
// not authored by them. Used when the history itself was served from cache.
func (r *GroupMessageRepository) MarkAllRead(groupID, readerID uint) error {
	return r.db.Exec(markAllReadSQL, readerID, groupID, readerID).Error
}

const listGroupMessagesSQL = `
	SELECT gm.id AS id, u.username AS sender, gm.content AS content, gm.created_at AS created_at
	FROM group_messages gm
	JOIN users u ON gm.sender_id = u.id
	WHERE gm.group_id = ?
	ORDER BY gm.created_at ASC, gm.id ASC
`

const markAllReadSQL = `
	INSERT INTO group_read_receipts (message_id, reader_id, read_at)
	SELECT gm.id, ?, CURRENT_TIMESTAMP
	FROM group_messages gm
	WHERE gm.group_id = ? AND gm.sender_id <> ?
	ON CONFLICT (message_id, reader_id) DO UPDATE SET read_at = CURRENT_TIMESTAMP
`

// DeleteWithReceipts removes the group message's receipts and then the
// message atomically; the count is the number of message rows removed.
func (r *GroupMessageRepository) DeleteWithReceipts(messageID uint) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", messageID).Delete(&models.GroupReadReceipt{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.GroupMessage{}, messageID)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

// ReadBy lists the members who have read the message, ascending by read time.
func (r *GroupMessageRepository) ReadBy(messageID uint) ([]ReadByRow, error) {
	var rows []ReadByRow
	err := r.db.Raw(`
		SELECT u.username AS username, gr.read_at AS read_at
		FROM group_read_receipts gr
		JOIN users u ON gr.reader_id = u.id
		WHERE gr.message_id = ?
		ORDER BY gr.read_at ASC, gr.id ASC
	`, messageID).Scan(&rows).Error
	return rows, err
}

// NotReadBy lists current members without a receipt, excluding the sender.
// Membership is evaluated at query time: a member who left no longer appears,
// a member added after the message was sent does.
func (r *GroupMessageRepository) NotReadBy(messageID uint) ([]string, error) {
	var names []string
	err := r.db.Raw(`
		SELECT u.username
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = (SELECT group_id FROM group_messages WHERE id = ?)
		AND gm.user_id <> (SELECT sender_id FROM group_messages WHERE id = ?)
		AND NOT EXISTS (
			SELECT 1 FROM group_read_receipts gr
			WHERE gr.message_id = ? AND gr.reader_id = gm.user_id
		)
		ORDER BY gm.joined_at ASC, gm.id ASC
	`, messageID, messageID, messageID).Scan(&names).Error
	return names, err
}

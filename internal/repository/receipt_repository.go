package repository

import (
	"time"

	"gorm.io/gorm"
)

type ReadReceiptRepository struct {
	db *gorm.DB
}

func NewReadReceiptRepository(db *gorm.DB) *ReadReceiptRepository {
	return &ReadReceiptRepository{db: db}
}

// ReadStatusRow is one receipt against a message the author sent.
type ReadStatusRow struct {
	MessageID uint      `gorm:"column:message_id"`
	Reader    string    `gorm:"column:reader"`
	ReadAt    time.Time `gorm:"column:read_at"`
}

// Upsert inserts the (message, reader) receipt or refreshes read_at if one
// already exists. Idempotent under repeated calls.
func (r *ReadReceiptRepository) Upsert(messageID, readerID uint) error {
	return r.db.Exec(`
		INSERT INTO read_receipts (message_id, reader_id, read_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (message_id, reader_id) DO UPDATE SET read_at = CURRENT_TIMESTAMP
	`, messageID, readerID).Error
}

// ListByAuthor returns every receipt against messages the author sent,
// newest read first.
func (r *ReadReceiptRepository) ListByAuthor(authorID uint) ([]ReadStatusRow, error) {
	var rows []ReadStatusRow
	err := r.db.Raw(`
		SELECT rr.message_id AS message_id, u.username AS reader, rr.read_at AS read_at
		FROM read_receipts rr
		JOIN users u ON rr.reader_id = u.id
		JOIN messages m ON rr.message_id = m.id
		WHERE m.sender_id = ?
		ORDER BY rr.read_at DESC, rr.id DESC
	`, authorID).Scan(&rows).Error
	return rows, err
}

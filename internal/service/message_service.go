package service

import (
	"errors"

	"github.com/relaychat-io/relaychat-backend/internal/apperr"
	"github.com/relaychat-io/relaychat-backend/internal/cache"
	"github.com/relaychat-io/relaychat-backend/internal/repository"
	"github.com/relaychat-io/relaychat-backend/internal/validation"
	"gorm.io/gorm"
)

type MessageService struct {
	messageRepo  repository.MessageRepositoryInterface
	receiptRepo  repository.ReadReceiptRepositoryInterface
	userRepo     repository.UserRepositoryInterface
	historyCache *cache.HistoryCache
}

func NewMessageService(
	messageRepo repository.MessageRepositoryInterface,
	receiptRepo repository.ReadReceiptRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	historyCache *cache.HistoryCache,
) *MessageService {
	return &MessageService{
		messageRepo:  messageRepo,
		receiptRepo:  receiptRepo,
		userRepo:     userRepo,
		historyCache: historyCache,
	}
}

// Send appends a message to the directed (sender, receiver) chat, creating
// the chat lazily on first contact.
func (s *MessageService) Send(sender, receiver, content string) error {
	su, err := findUser(s.userRepo, "Sender", sender)
	if err != nil {
		return err
	}
	ru, err := findUser(s.userRepo, "Receiver", receiver)
	if err != nil {
		return err
	}

	content = validation.TrimAndLimit(content, validation.MaxMessageLength())
	if content == "" {
		return apperr.Validationf("Missing sender, receiver, or message text.")
	}

	if _, err := s.messageRepo.CreateInChat(su.ID, ru.ID, content); err != nil {
		return err
	}

	_ = s.historyCache.InvalidateInbox(su.ID)
	_ = s.historyCache.InvalidateInbox(ru.ID)
	return nil
}

// Inbox returns the viewer's conversation feed, ascending by timestamp. It
// does not mark anything read; personal read-marking is an explicit step.
func (s *MessageService) Inbox(username string) ([]repository.InboxRow, error) {
	user, err := findUser(s.userRepo, "User", username)
	if err != nil {
		return nil, err
	}

	if rows, ok := s.historyCache.GetInbox(user.ID); ok {
		return rows, nil
	}

	rows, err := s.messageRepo.ListInbox(user.ID)
	if err != nil {
		return nil, err
	}
	_ = s.historyCache.SetInbox(user.ID, rows)
	return rows, nil
}

// MarkRead upserts a read receipt for a message sent to the reader. Only the
// chat's receiver may mark, and never for their own messages.
func (s *MessageService) MarkRead(username string, messageID uint) error {
	user, err := findUser(s.userRepo, "User", username)
	if err != nil {
		return err
	}

	if _, err := s.messageRepo.FindByID(messageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("Message not found.")
		}
		return err
	}

	ok, err := s.messageRepo.IsAddressedTo(messageID, user.ID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbiddenf("Cannot mark this message as read.")
	}

	return s.receiptRepo.Upsert(messageID, user.ID)
}

// ReadStatus returns every receipt against messages the user authored,
// newest read first.
func (s *MessageService) ReadStatus(username string) ([]repository.ReadStatusRow, error) {
	user, err := findUser(s.userRepo, "User", username)
	if err != nil {
		return nil, err
	}
	return s.receiptRepo.ListByAuthor(user.ID)
}

// Delete removes a message and its receipts. Only the author may delete.
func (s *MessageService) Delete(username string, messageID uint) error {
	user, err := findUser(s.userRepo, "User", username)
	if err != nil {
		return err
	}

	msg, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("Message not found.")
		}
		return err
	}
	if msg.SenderID != user.ID {
		return apperr.Forbiddenf("You can only delete your own messages.")
	}

	deleted, err := s.messageRepo.DeleteWithReceipts(messageID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperr.Internalf("Failed to delete message.")
	}

	_ = s.historyCache.InvalidateInbox(msg.Chat.SenderID)
	_ = s.historyCache.InvalidateInbox(msg.Chat.ReceiverID)
	return nil
}

package service

import (
	"errors"

	"github.com/relaychat-io/relaychat-backend/internal/apperr"
	"github.com/relaychat-io/relaychat-backend/internal/cache"
	"github.com/relaychat-io/relaychat-backend/internal/models"
	"github.com/relaychat-io/relaychat-backend/internal/repository"
	"github.com/relaychat-io/relaychat-backend/internal/validation"
	"gorm.io/gorm"
)

type GroupService struct {
	groupRepo        repository.GroupRepositoryInterface
	groupMessageRepo repository.GroupMessageRepositoryInterface
	userRepo         repository.UserRepositoryInterface
	historyCache     *cache.HistoryCache
}

func NewGroupService(
	groupRepo repository.GroupRepositoryInterface,
	groupMessageRepo repository.GroupMessageRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	historyCache *cache.HistoryCache,
) *GroupService {
	return &GroupService{
		groupRepo:        groupRepo,
		groupMessageRepo: groupMessageRepo,
		userRepo:         userRepo,
		historyCache:     historyCache,
	}
}

func (s *GroupService) findGroup(name string) (*models.Group, error) {
	group, err := s.groupRepo.FindByName(validation.NormalizeGroupName(name))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("Group '%s' not found.", name)
		}
		return nil, err
	}
	return group, nil
}

func (s *GroupService) requireMember(group *models.Group, user *models.User, username string) error {
	isMember, err := s.groupRepo.IsMember(group.ID, user.ID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperr.Forbiddenf("User '%s' is not a member of this group.", username)
	}
	return nil
}

// Create makes a new group with the creator as its first member. Group names
// are globally unique.
func (s *GroupService) Create(name, creator string) (*models.Group, error) {
	name = validation.NormalizeGroupName(name)
	if name == "" {
		return nil, apperr.Validationf("Missing group name or creator.")
	}

	cu, err := findUser(s.userRepo, "User", creator)
	if err != nil {
		return nil, err
	}

	group := &models.Group{Name: name, CreatorID: cu.ID}
	if err := s.groupRepo.CreateWithCreator(group); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflictf("Group '%s' already exists.", name)
		}
		return nil, err
	}
	return group, nil
}

// AddMember adds target to the group. Any current member may add, not only
// the creator.
func (s *GroupService) AddMember(groupName, username, adder string) error {
	group, err := s.findGroup(groupName)
	if err != nil {
		return err
	}

	au, err := findUser(s.userRepo, "User", adder)
	if err != nil {
		return err
	}
	if err := s.requireMember(group, au, adder); err != nil {
		return err
	}

	tu, err := findUser(s.userRepo, "User", username)
	if err != nil {
		return err
	}

	if err := s.groupRepo.AddMember(group.ID, tu.ID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflictf("User '%s' is already a member of this group.", username)
		}
		return err
	}
	return nil
}

// ListGroups returns the groups the viewer belongs to, newest-created first.
func (s *GroupService) ListGroups(username string) ([]repository.GroupRow, error) {
	user, err := findUser(s.userRepo, "User", username)
	if err != nil {
		return nil, err
	}
	return s.groupRepo.ListForUser(user.ID)
}

// ListMembers returns the group roster by join time, flagging the creator.
func (s *GroupService) ListMembers(groupName string) ([]repository.MemberRow, error) {
	group, err := s.findGroup(groupName)
	if err != nil {
		return nil, err
	}
	return s.groupRepo.ListMembers(group.ID)
}

// SendMessage appends a group message; only current members may send.
func (s *GroupService) SendMessage(sender, groupName, content string) error {
	su, err := findUser(s.userRepo, "Sender", sender)
	if err != nil {
		return err
	}
	group, err := s.findGroup(groupName)
	if err != nil {
		return err
	}
	if err := s.requireMember(group, su, sender); err != nil {
		return err
	}

	content = validation.TrimAndLimit(content, validation.MaxMessageLength())
	if content == "" {
		return apperr.Validationf("Missing sender, group name, or message text.")
	}

	msg := &models.GroupMessage{GroupID: group.ID, SenderID: su.ID, Content: content}
	if err := s.groupMessageRepo.Create(msg); err != nil {
		return err
	}

	_ = s.historyCache.InvalidateGroupHistory(group.ID)
	return nil
}

// History returns the group's messages ascending by time and marks every
// message not authored by the viewer as read. The receipt upsert always
// runs, even when the listing is served from cache.
func (s *GroupService) History(username, groupName string) ([]repository.GroupMessageRow, error) {
	user, err := findUser(s.userRepo, "User", username)
	if err != nil {
		return nil, err
	}
	group, err := s.findGroup(groupName)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(group, user, username); err != nil {
		return nil, err
	}

	if rows, ok := s.historyCache.GetGroupHistory(group.ID); ok {
		if err := s.groupMessageRepo.MarkAllRead(group.ID, user.ID); err != nil {
			return nil, err
		}
		return rows, nil
	}

	rows, err := s.groupMessageRepo.ListAndMarkRead(group.ID, user.ID)
	if err != nil {
		return nil, err
	}
	_ = s.historyCache.SetGroupHistory(group.ID, rows)
	return rows, nil
}

// Leave removes the caller's own membership. The creator cannot leave.
func (s *GroupService) Leave(username, groupName string) error {
	user, err := findUser(s.userRepo, "User", username)
	if err != nil {
		return err
	}
	group, err := s.findGroup(groupName)
	if err != nil {
		return err
	}

	if group.CreatorID == user.ID {
		return apperr.Forbiddenf("Group creator cannot leave. You must delete the group instead.")
	}

	removed, err := s.groupRepo.RemoveMember(group.ID, user.ID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return apperr.NotFoundf("User '%s' is not a member of this group.", username)
	}
	return nil
}

// DeleteMessage removes a group message and its receipts. The author or the
// group's creator may delete.
func (s *GroupService) DeleteMessage(username string, messageID uint) error {
	user, err := findUser(s.userRepo, "User", username)
	if err != nil {
		return err
	}

	msg, err := s.groupMessageRepo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("Group message not found.")
		}
		return err
	}
	if msg.SenderID != user.ID && msg.Group.CreatorID != user.ID {
		return apperr.Forbiddenf("You can only delete your own messages or messages in groups you created.")
	}

	deleted, err := s.groupMessageRepo.DeleteWithReceipts(messageID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperr.Internalf("Failed to delete group message.")
	}

	_ = s.historyCache.InvalidateGroupHistory(msg.GroupID)
	return nil
}

// ReadStatus reports who has read the message and which current members have
// not, against the roster as it stands now.
func (s *GroupService) ReadStatus(messageID uint) ([]repository.ReadByRow, []string, error) {
	readBy, err := s.groupMessageRepo.ReadBy(messageID)
	if err != nil {
		return nil, nil, err
	}
	notReadBy, err := s.groupMessageRepo.NotReadBy(messageID)
	if err != nil {
		return nil, nil, err
	}
	return readBy, notReadBy, nil
}

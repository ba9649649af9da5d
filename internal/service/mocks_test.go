package service_test

import (
	"sort"
	"time"

	"github.com/relaychat-io/relaychat-backend/internal/models"
	"github.com/relaychat-io/relaychat-backend/internal/repository"
	"gorm.io/gorm"
)

// In-memory repository doubles. They mirror the store contracts, including
// the gorm sentinel errors the services branch on.

type mockUserRepo struct {
	users  map[string]*models.User
	nextID uint
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User), nextID: 1}
}

func (m *mockUserRepo) Create(user *models.User) error {
	if _, exists := m.users[user.Username]; exists {
		return gorm.ErrDuplicatedKey
	}
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepo) FindByUsername(username string) (*models.User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *mockUserRepo) FindByID(id uint) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) mustAdd(username string) *models.User {
	user := &models.User{Username: username}
	if err := m.Create(user); err != nil {
		panic(err)
	}
	return user
}

type pairKey struct {
	a, b uint
}

type mockMessageRepo struct {
	users      *mockUserRepo
	chats      map[pairKey]*models.Chat
	messages   map[uint]*models.Message
	nextChatID uint
	nextMsgID  uint
}

func newMockMessageRepo(users *mockUserRepo) *mockMessageRepo {
	return &mockMessageRepo{
		users:      users,
		chats:      make(map[pairKey]*models.Chat),
		messages:   make(map[uint]*models.Message),
		nextChatID: 1,
		nextMsgID:  1,
	}
}

func (m *mockMessageRepo) CreateInChat(senderID, receiverID uint, content string) (*models.Message, error) {
	key := pairKey{senderID, receiverID}
	chat, ok := m.chats[key]
	if !ok {
		chat = &models.Chat{ID: m.nextChatID, SenderID: senderID, ReceiverID: receiverID}
		m.nextChatID++
		m.chats[key] = chat
	}
	msg := &models.Message{
		ID:        m.nextMsgID,
		ChatID:    chat.ID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
		Chat:      *chat,
	}
	m.nextMsgID++
	m.messages[msg.ID] = msg
	return msg, nil
}

func (m *mockMessageRepo) FindByID(id uint) (*models.Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return msg, nil
}

func (m *mockMessageRepo) ListInbox(userID uint) ([]repository.InboxRow, error) {
	ids := make([]uint, 0, len(m.messages))
	for id := range m.messages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var rows []repository.InboxRow
	for _, id := range ids {
		msg := m.messages[id]
		if msg.Chat.ReceiverID != userID && !(msg.Chat.SenderID == userID && msg.SenderID != userID) {
			continue
		}
		sender, err := m.users.FindByID(msg.SenderID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, repository.InboxRow{
			ID:        msg.ID,
			Sender:    sender.Username,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		})
	}
	return rows, nil
}

func (m *mockMessageRepo) IsAddressedTo(messageID, userID uint) (bool, error) {
	msg, ok := m.messages[messageID]
	if !ok {
		return false, nil
	}
	return msg.Chat.ReceiverID == userID && msg.SenderID != userID, nil
}

func (m *mockMessageRepo) DeleteWithReceipts(messageID uint) (int64, error) {
	if _, ok := m.messages[messageID]; !ok {
		return 0, nil
	}
	delete(m.messages, messageID)
	return 1, nil
}

type receiptKey struct {
	messageID, readerID uint
}

type mockReceiptRepo struct {
	users    *mockUserRepo
	messages *mockMessageRepo
	receipts map[receiptKey]time.Time
}

func newMockReceiptRepo(users *mockUserRepo, messages *mockMessageRepo) *mockReceiptRepo {
	return &mockReceiptRepo{
		users:    users,
		messages: messages,
		receipts: make(map[receiptKey]time.Time),
	}
}

func (m *mockReceiptRepo) Upsert(messageID, readerID uint) error {
	m.receipts[receiptKey{messageID, readerID}] = time.Now()
	return nil
}

func (m *mockReceiptRepo) ListByAuthor(authorID uint) ([]repository.ReadStatusRow, error) {
	var rows []repository.ReadStatusRow
	for key, readAt := range m.receipts {
		msg, ok := m.messages.messages[key.messageID]
		if !ok || msg.SenderID != authorID {
			continue
		}
		reader, err := m.users.FindByID(key.readerID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, repository.ReadStatusRow{
			MessageID: key.messageID,
			Reader:    reader.Username,
			ReadAt:    readAt,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ReadAt.After(rows[j].ReadAt) })
	return rows, nil
}

type memberKey struct {
	groupID, userID uint
}

type mockGroupRepo struct {
	users   *mockUserRepo
	groups  map[string]*models.Group
	members map[memberKey]time.Time
	nextID  uint
}

func newMockGroupRepo(users *mockUserRepo) *mockGroupRepo {
	return &mockGroupRepo{
		users:   users,
		groups:  make(map[string]*models.Group),
		members: make(map[memberKey]time.Time),
		nextID:  1,
	}
}

func (m *mockGroupRepo) CreateWithCreator(group *models.Group) error {
	if _, exists := m.groups[group.Name]; exists {
		return gorm.ErrDuplicatedKey
	}
	group.ID = m.nextID
	m.nextID++
	group.CreatedAt = time.Now()
	m.groups[group.Name] = group
	m.members[memberKey{group.ID, group.CreatorID}] = time.Now()
	return nil
}

func (m *mockGroupRepo) FindByName(name string) (*models.Group, error) {
	group, ok := m.groups[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return group, nil
}

func (m *mockGroupRepo) findByID(id uint) *models.Group {
	for _, group := range m.groups {
		if group.ID == id {
			return group
		}
	}
	return nil
}

func (m *mockGroupRepo) AddMember(groupID, userID uint) error {
	key := memberKey{groupID, userID}
	if _, exists := m.members[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	m.members[key] = time.Now()
	return nil
}

func (m *mockGroupRepo) RemoveMember(groupID, userID uint) (int64, error) {
	key := memberKey{groupID, userID}
	if _, exists := m.members[key]; !exists {
		return 0, nil
	}
	delete(m.members, key)
	return 1, nil
}

func (m *mockGroupRepo) IsMember(groupID, userID uint) (bool, error) {
	_, exists := m.members[memberKey{groupID, userID}]
	return exists, nil
}

func (m *mockGroupRepo) ListForUser(userID uint) ([]repository.GroupRow, error) {
	var rows []repository.GroupRow
	for _, group := range m.groups {
		if _, exists := m.members[memberKey{group.ID, userID}]; !exists {
			continue
		}
		var count int64
		for key := range m.members {
			if key.groupID == group.ID {
				count++
			}
		}
		rows = append(rows, repository.GroupRow{
			ID:          group.ID,
			Name:        group.Name,
			CreatedAt:   group.CreatedAt,
			MemberCount: count,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	return rows, nil
}

func (m *mockGroupRepo) ListMembers(groupID uint) ([]repository.MemberRow, error) {
	group := m.findByID(groupID)
	var rows []repository.MemberRow
	for key, joinedAt := range m.members {
		if key.groupID != groupID {
			continue
		}
		user, err := m.users.FindByID(key.userID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, repository.MemberRow{
			Username: user.Username,
			JoinedAt: joinedAt,
			IsAdmin:  group != nil && key.userID == group.CreatorID,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].JoinedAt.Before(rows[j].JoinedAt) })
	return rows, nil
}

type mockGroupMessageRepo struct {
	users    *mockUserRepo
	groups   *mockGroupRepo
	messages map[uint]*models.GroupMessage
	receipts map[receiptKey]time.Time
	nextID   uint
}

func newMockGroupMessageRepo(users *mockUserRepo, groups *mockGroupRepo) *mockGroupMessageRepo {
	return &mockGroupMessageRepo{
		users:    users,
		groups:   groups,
		messages: make(map[uint]*models.GroupMessage),
		receipts: make(map[receiptKey]time.Time),
		nextID:   1,
	}
}

func (m *mockGroupMessageRepo) Create(message *models.GroupMessage) error {
	message.ID = m.nextID
	m.nextID++
	message.CreatedAt = time.Now()
	m.messages[message.ID] = message
	return nil
}

func (m *mockGroupMessageRepo) FindByID(id uint) (*models.GroupMessage, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if group := m.groups.findByID(msg.GroupID); group != nil {
		msg.Group = *group
	}
	return msg, nil
}

func (m *mockGroupMessageRepo) list(groupID uint) []repository.GroupMessageRow {
	ids := make([]uint, 0, len(m.messages))
	for id, msg := range m.messages {
		if msg.GroupID == groupID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var rows []repository.GroupMessageRow
	for _, id := range ids {
		msg := m.messages[id]
		sender, err := m.users.FindByID(msg.SenderID)
		if err != nil {
			continue
		}
		rows = append(rows, repository.GroupMessageRow{
			ID:        msg.ID,
			Sender:    sender.Username,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		})
	}
	return rows
}

func (m *mockGroupMessageRepo) ListAndMarkRead(groupID, readerID uint) ([]repository.GroupMessageRow, error) {
	rows := m.list(groupID)
	if err := m.MarkAllRead(groupID, readerID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (m *mockGroupMessageRepo) MarkAllRead(groupID, readerID uint) error {
	for id, msg := range m.messages {
		if msg.GroupID == groupID && msg.SenderID != readerID {
			m.receipts[receiptKey{id, readerID}] = time.Now()
		}
	}
	return nil
}

func (m *mockGroupMessageRepo) DeleteWithReceipts(messageID uint) (int64, error) {
	if _, ok := m.messages[messageID]; !ok {
		return 0, nil
	}
	delete(m.messages, messageID)
	for key := range m.receipts {
		if key.messageID == messageID {
			delete(m.receipts, key)
		}
	}
	return 1, nil
}

func (m *mockGroupMessageRepo) ReadBy(messageID uint) ([]repository.ReadByRow, error) {
	var rows []repository.ReadByRow
	for key, readAt := range m.receipts {
		if key.messageID != messageID {
			continue
		}
		reader, err := m.users.FindByID(key.readerID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, repository.ReadByRow{Username: reader.Username, ReadAt: readAt})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ReadAt.Before(rows[j].ReadAt) })
	return rows, nil
}

func (m *mockGroupMessageRepo) NotReadBy(messageID uint) ([]string, error) {
	msg, ok := m.messages[messageID]
	if !ok {
		return nil, nil
	}
	var names []string
	for key := range m.groups.members {
		if key.groupID != msg.GroupID || key.userID == msg.SenderID {
			continue
		}
		if _, read := m.receipts[receiptKey{messageID, key.userID}]; read {
			continue
		}
		user, err := m.users.FindByID(key.userID)
		if err != nil {
			return nil, err
		}
		names = append(names, user.Username)
	}
	sort.Strings(names)
	return names, nil
}

package repository_test

import (
	"testing"

	"github.com/relaychat-io/relaychat-backend/internal/models"
	"github.com/relaychat-io/relaychat-backend/internal/repository"
	"github.com/relaychat-io/relaychat-backend/internal/testutil"
)

func seedGroupMessage(t *testing.T, repo *repository.GroupMessageRepository, groupID, senderID uint, content string) *models.GroupMessage {
	t.Helper()
	msg := &models.GroupMessage{GroupID: groupID, SenderID: senderID, Content: content}
	if err := repo.Create(msg); err != nil {
		t.Fatalf("failed to create group message: %v", err)
	}
	return msg
}

func TestListAndMarkReadReceiptsExcludeSender(t *testing.T) {
	db := testutil.OpenTestDB(t)
	groupRepo := repository.NewGroupRepository(db)
	msgRepo := repository.NewGroupMessageRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	group := testutil.CreateGroup(t, db, "devs", alice.ID)
	if err := groupRepo.AddMember(group.ID, bob.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	seedGroupMessage(t, msgRepo, group.ID, alice.ID, "from alice")
	seedGroupMessage(t, msgRepo, group.ID, bob.ID, "from bob")

	rows, err := msgRepo.ListAndMarkRead(group.ID, bob.ID)
	if err != nil {
		t.Fatalf("ListAndMarkRead failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("history = %d rows, want 2", len(rows))
	}
	if rows[0].Content != "from alice" || rows[1].Content != "from bob" {
		t.Errorf("history out of order: %+v", rows)
	}

	// Bob gets a receipt only for alice's message, never for his own.
	var receipts []models.GroupReadReceipt
	if err := db.Where("reader_id = ?", bob.ID).Find(&receipts).Error; err != nil {
		t.Fatalf("failed to load receipts: %v", err)
	}
	if len(receipts) != 1 {
		t.Fatalf("bob receipts = %d, want 1", len(receipts))
	}

	// Reading again refreshes in place instead of duplicating.
	if _, err := msgRepo.ListAndMarkRead(group.ID, bob.ID); err != nil {
		t.Fatalf("second ListAndMarkRead failed: %v", err)
	}
	var count int64
	if err := db.Model(&models.GroupReadReceipt{}).Where("reader_id = ?", bob.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count receipts: %v", err)
	}
	if count != 1 {
		t.Errorf("bob receipts after reread = %d, want 1", count)
	}
}

func TestMarkAllReadMatchesListAndMarkRead(t *testing.T) {
	db := testutil.OpenTestDB(t)
	groupRepo := repository.NewGroupRepository(db)
	msgRepo := repository.NewGroupMessageRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	group := testutil.CreateGroup(t, db, "devs", alice.ID)
	if err := groupRepo.AddMember(group.ID, bob.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	seedGroupMessage(t, msgRepo, group.ID, alice.ID, "one")
	seedGroupMessage(t, msgRepo, group.ID, alice.ID, "two")

	if err := msgRepo.MarkAllRead(group.ID, bob.ID); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.GroupReadReceipt{}).Where("reader_id = ?", bob.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count receipts: %v", err)
	}
	if count != 2 {
		t.Errorf("bob receipts = %d, want 2", count)
	}
}

func TestReadByAndNotReadBy(t *testing.T) {
	db := testutil.OpenTestDB(t)
	groupRepo := repository.NewGroupRepository(db)
	msgRepo := repository.NewGroupMessageRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	group := testutil.CreateGroup(t, db, "devs", alice.ID)
	for _, id := range []uint{bob.ID, carol.ID} {
		if err := groupRepo.AddMember(group.ID, id); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
	}

	msg := seedGroupMessage(t, msgRepo, group.ID, alice.ID, "hello all")

	if _, err := msgRepo.ListAndMarkRead(group.ID, bob.ID); err != nil {
		t.Fatalf("ListAndMarkRead failed: %v", err)
	}

	readBy, err := msgRepo.ReadBy(msg.ID)
	if err != nil {
		t.Fatalf("ReadBy failed: %v", err)
	}
	if len(readBy) != 1 || readBy[0].Username != "bob" {
		t.Errorf("readBy = %+v, want only bob", readBy)
	}

	notReadBy, err := msgRepo.NotReadBy(msg.ID)
	if err != nil {
		t.Fatalf("NotReadBy failed: %v", err)
	}
	// The sender never counts as a pending reader.
	if len(notReadBy) != 1 || notReadBy[0] != "carol" {
		t.Errorf("notReadBy = %v, want only carol", notReadBy)
	}
}

func TestNotReadByTracksCurrentRoster(t *testing.T) {
	db := testutil.OpenTestDB(t)
	groupRepo := repository.NewGroupRepository(db)
	msgRepo := repository.NewGroupMessageRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	dave := testutil.CreateUser(t, db, "dave")
	group := testutil.CreateGroup(t, db, "devs", alice.ID)
	if err := groupRepo.AddMember(group.ID, bob.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	msg := seedGroupMessage(t, msgRepo, group.ID, alice.ID, "hello")

	// A member who leaves drops out of the pending list; one who joins
	// after the send shows up in it.
	if _, err := groupRepo.RemoveMember(group.ID, bob.ID); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if err := groupRepo.AddMember(group.ID, dave.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	notReadBy, err := msgRepo.NotReadBy(msg.ID)
	if err != nil {
		t.Fatalf("NotReadBy failed: %v", err)
	}
	if len(notReadBy) != 1 || notReadBy[0] != "dave" {
		t.Errorf("notReadBy = %v, want only dave", notReadBy)
	}
}

func TestGroupDeleteWithReceiptsLeavesNoOrphans(t *testing.T) {
	db := testutil.OpenTestDB(t)
	groupRepo := repository.NewGroupRepository(db)
	msgRepo := repository.NewGroupMessageRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	group := testutil.CreateGroup(t, db, "devs", alice.ID)
	if err := groupRepo.AddMember(group.ID, bob.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	msg := seedGroupMessage(t, msgRepo, group.ID, alice.ID, "doomed")
	if _, err := msgRepo.ListAndMarkRead(group.ID, bob.ID); err != nil {
		t.Fatalf("ListAndMarkRead failed: %v", err)
	}

	deleted, err := msgRepo.DeleteWithReceipts(msg.ID)
	if err != nil {
		t.Fatalf("DeleteWithReceipts failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	var count int64
	if err := db.Model(&models.GroupReadReceipt{}).Where("message_id = ?", msg.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count receipts: %v", err)
	}
	if count != 0 {
		t.Errorf("orphan receipts = %d, want 0", count)
	}
}

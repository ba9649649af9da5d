package repository

import (
	"time"

	"github.com/relaychat-io/relaychat-backend/internal/models"
	"gorm.io/gorm"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// GroupRow is one group the viewer belongs to, with its member count.
type GroupRow struct {
	ID          uint      `gorm:"column:id"`
	Name        string    `gorm:"column:name"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	MemberCount int64     `gorm:"column:member_count"`
}

// MemberRow is one roster entry; IsAdmin flags the group creator.
type MemberRow struct {
	Username string    `gorm:"column:username"`
	JoinedAt time.Time `gorm:"column:joined_at"`
	IsAdmin  bool      `gorm:"column:is_admin"`
}

// CreateWithCreator creates the group and inserts the creator as its first
// member in one transaction.
func (r *GroupRepository) CreateWithCreator(group *models.Group) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		member := models.GroupMember{GroupID: group.ID, UserID: group.CreatorID}
		return tx.Create(&member).Error
	})
}

func (r *GroupRepository) FindByName(name string) (*models.Group, error) {
	var group models.Group
	if err := r.db.Where("name = ?", name).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) AddMember(groupID, userID uint) error {
	member := models.GroupMember{GroupID: groupID, UserID: userID}
	return r.db.Create(&member).Error
}

func (r *GroupRepository) RemoveMember(groupID, userID uint) (int64, error) {
	res := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).Delete(&models.GroupMember{})
	return res.RowsAffected, res.Error
}

func (r *GroupRepository) IsMember(groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *GroupRepository) ListForUser(userID uint) ([]GroupRow, error) {
	var rows []GroupRow
	err := r.db.Raw(`
		SELECT g.id AS id, g.name AS name, g.created_at AS created_at, COUNT(gm.user_id) AS member_count
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE g.id IN (SELECT group_id FROM group_members WHERE user_id = ?)
		GROUP BY g.id, g.name, g.created_at
		ORDER BY g.created_at DESC, g.id DESC
	`, userID).Scan(&rows).Error
	return rows, err
}

func (r *GroupRepository) ListMembers(groupID uint) ([]MemberRow, error) {
	var rows []MemberRow
	err := r.db.Raw(`
		SELECT u.username AS username, gm.joined_at AS joined_at, (gm.user_id = g.creator_id) AS is_admin
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		JOIN groups g ON gm.group_id = g.id
		WHERE gm.group_id = ?
		ORDER BY gm.joined_at ASC, gm.id ASC
	`, groupID).Scan(&rows).Error
	return rows, err
}

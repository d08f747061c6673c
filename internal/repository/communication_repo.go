package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gatepass-nexus/backend/internal/model"
	pkgerrors "gatepass-nexus/backend/pkg/errors"
)

// Addressee 收件人身份：用户 ID 与所属部门
type Addressee struct {
	UserID     string
	Department string
}

// CommunicationRepository 内部消息数据访问接口
type CommunicationRepository interface {
	Create(ctx context.Context, c *model.Communication) error
	GetByID(ctx context.Context, id string) (*model.Communication, error)
	ListInbox(ctx context.Context, to Addressee, search string, page Page) ([]model.Communication, int64, error)
	ListSent(ctx context.Context, senderID string, page Page) ([]model.Communication, int64, error)
	CountUnread(ctx context.Context, to Addressee) (int64, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
}

type communicationRepo struct {
	db *gorm.DB
}

// NewCommunicationRepo 创建 CommunicationRepository 实例
func NewCommunicationRepo(db *gorm.DB) CommunicationRepository {
	return &communicationRepo{db: db}
}

func (r *communicationRepo) Create(ctx context.Context, c *model.Communication) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *communicationRepo) GetByID(ctx context.Context, id string) (*model.Communication, error) {
	var c model.Communication
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// addressedTo 广播消息在读取时解析：个人、全员或所在部门
func addressedTo(q *gorm.DB, to Addressee) *gorm.DB {
	return q.Where(
		"(recipient_id = ? OR recipient_type = ? OR (recipient_type = ? AND recipient_department = ?))",
		to.UserID, model.RecipientAllStaff, model.RecipientDepartment, to.Department,
	)
}

func (r *communicationRepo) ListInbox(ctx context.Context, to Addressee, search string, page Page) ([]model.Communication, int64, error) {
	q := addressedTo(r.db.WithContext(ctx).Model(&model.Communication{}), to)
	q = searchAny(q, search, "subject", "message")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Communication
	err := page.apply(q).
		Order("created_at DESC").
		Find(&list).Error
	return list, total, err
}

func (r *communicationRepo) ListSent(ctx context.Context, senderID string, page Page) ([]model.Communication, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Communication{}).Where("sender_id = ?", senderID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Communication
	err := page.apply(q).
		Order("created_at DESC").
		Find(&list).Error
	return list, total, err
}

func (r *communicationRepo) CountUnread(ctx context.Context, to Addressee) (int64, error) {
	var n int64
	err := addressedTo(r.db.WithContext(ctx).Model(&model.Communication{}), to).
		Where("is_read = ?", false).
		Count(&n).Error
	return n, err
}

// MarkRead 仅当消息未读时写入已读标记，未命中返回 ErrStaleState
func (r *communicationRepo) MarkRead(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Communication{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"read_at":    at,
			"updated_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStaleState
	}
	return nil
}

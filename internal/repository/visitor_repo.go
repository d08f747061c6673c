package repository

import (
	"context"

	"gorm.io/gorm"

	"gatepass-nexus/backend/internal/model"
)

// VisitorFilter 访客列表筛选
type VisitorFilter struct {
	Status string
	Search string // 匹配姓名、编号、公司、来访事由
	Page
}

// VisitorRepository 访客数据访问接口
type VisitorRepository interface {
	Create(ctx context.Context, v *model.Visitor) error
	GetByID(ctx context.Context, id string) (*model.Visitor, error)
	List(ctx context.Context, filter VisitorFilter) ([]model.Visitor, int64, error)
	Transition(ctx context.Context, id string, from []string, patch map[string]interface{}) error
}

type visitorRepo struct {
	db *gorm.DB
}

// NewVisitorRepo 创建 VisitorRepository 实例
func NewVisitorRepo(db *gorm.DB) VisitorRepository {
	return &visitorRepo{db: db}
}

func (r *visitorRepo) Create(ctx context.Context, v *model.Visitor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *visitorRepo) GetByID(ctx context.Context, id string) (*model.Visitor, error) {
	var v model.Visitor
	err := r.db.WithContext(ctx).
		Preload("HostEmployee").
		Where("id = ?", id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *visitorRepo) List(ctx context.Context, filter VisitorFilter) ([]model.Visitor, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Visitor{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	q = searchAny(q, filter.Search, "full_name", "visitor_code", "company", "purpose_of_visit")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Visitor
	err := filter.Page.apply(q).
		Preload("HostEmployee").
		Order("created_at DESC").
		Find(&list).Error
	return list, total, err
}

func (r *visitorRepo) Transition(ctx context.Context, id string, from []string, patch map[string]interface{}) error {
	return transition(ctx, r.db, &model.Visitor{}, id, from, patch)
}

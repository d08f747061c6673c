package repository

import (
	"context"

	"gorm.io/gorm"

	"gatepass-nexus/backend/internal/model"
)

// GatepassFilter 出门条列表筛选
type GatepassFilter struct {
	Status      string
	Search      string // 匹配编号、申请人姓名、部门
	RequesterID string // 非空时只返回该申请人的记录
	Page
}

// GatepassRepository 出门条数据访问接口
type GatepassRepository interface {
	Create(ctx context.Context, gp *model.Gatepass) error
	GetByID(ctx context.Context, id string) (*model.Gatepass, error)
	GetByCodeAndStatus(ctx context.Context, code, status string) (*model.Gatepass, error)
	List(ctx context.Context, filter GatepassFilter) ([]model.Gatepass, int64, error)
	Transition(ctx context.Context, id string, from []string, patch map[string]interface{}) error
}

// gatepassRepo GatepassRepository 的 GORM 实现
type gatepassRepo struct {
	db *gorm.DB
}

// NewGatepassRepo 创建 GatepassRepository 实例
func NewGatepassRepo(db *gorm.DB) GatepassRepository {
	return &gatepassRepo{db: db}
}

func (r *gatepassRepo) Create(ctx context.Context, gp *model.Gatepass) error {
	return r.db.WithContext(ctx).Create(gp).Error
}

func (r *gatepassRepo) GetByID(ctx context.Context, id string) (*model.Gatepass, error) {
	var gp model.Gatepass
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&gp).Error
	if err != nil {
		return nil, err
	}
	return &gp, nil
}

func (r *gatepassRepo) GetByCodeAndStatus(ctx context.Context, code, status string) (*model.Gatepass, error) {
	var gp model.Gatepass
	err := r.db.WithContext(ctx).
		Where("gatepass_code = ? AND status = ?", code, status).
		First(&gp).Error
	if err != nil {
		return nil, err
	}
	return &gp, nil
}

func (r *gatepassRepo) List(ctx context.Context, filter GatepassFilter) ([]model.Gatepass, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Gatepass{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.RequesterID != "" {
		q = q.Where("requester_id = ?", filter.RequesterID)
	}
	q = searchAny(q, filter.Search, "gatepass_code", "requester_name", "department")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Gatepass
	err := filter.Page.apply(q).
		Order("created_at DESC").
		Find(&list).Error
	return list, total, err
}

func (r *gatepassRepo) Transition(ctx context.Context, id string, from []string, patch map[string]interface{}) error {
	return transition(ctx, r.db, &model.Gatepass{}, id, from, patch)
}

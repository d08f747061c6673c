package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gatepass-nexus/backend/internal/model"
	pkgerrors "gatepass-nexus/backend/pkg/errors"
)

// AssignmentRepository 资产分配记录数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, ea *model.EmployeeAsset) error
	GetByID(ctx context.Context, id string) (*model.EmployeeAsset, error)
	GetActiveByAsset(ctx context.Context, assetID string) (*model.EmployeeAsset, error)
	ListByAsset(ctx context.Context, assetID string) ([]model.EmployeeAsset, error)
	ListActiveByEmployee(ctx context.Context, employeeID string) ([]model.EmployeeAsset, error)
	Close(ctx context.Context, id string, returnedAt time.Time) error
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, ea *model.EmployeeAsset) error {
	return r.db.WithContext(ctx).Create(ea).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.EmployeeAsset, error) {
	var ea model.EmployeeAsset
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ea).Error
	if err != nil {
		return nil, err
	}
	return &ea, nil
}

func (r *assignmentRepo) GetActiveByAsset(ctx context.Context, assetID string) (*model.EmployeeAsset, error) {
	var ea model.EmployeeAsset
	err := r.db.WithContext(ctx).
		Where("asset_id = ? AND is_active = ?", assetID, true).
		First(&ea).Error
	if err != nil {
		return nil, err
	}
	return &ea, nil
}

func (r *assignmentRepo) ListByAsset(ctx context.Context, assetID string) ([]model.EmployeeAsset, error) {
	var list []model.EmployeeAsset
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("asset_id = ?", assetID).
		Order("assigned_date DESC").
		Find(&list).Error
	return list, err
}

func (r *assignmentRepo) ListActiveByEmployee(ctx context.Context, employeeID string) ([]model.EmployeeAsset, error) {
	var list []model.EmployeeAsset
	err := r.db.WithContext(ctx).
		Preload("Asset").
		Where("employee_id = ? AND is_active = ?", employeeID, true).
		Order("assigned_date DESC").
		Find(&list).Error
	return list, err
}

// Close 关闭一条仍处于激活状态的分配记录
func (r *assignmentRepo) Close(ctx context.Context, id string, returnedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.EmployeeAsset{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"is_active":     false,
			"returned_date": returnedAt,
			"updated_at":    returnedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStaleState
	}
	return nil
}

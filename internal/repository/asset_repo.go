package repository

import (
	"context"

	"gorm.io/gorm"

	"gatepass-nexus/backend/internal/model"
)

// AssetFilter 资产列表筛选
type AssetFilter struct {
	Status    string
	AssetType string
	Search    string // 匹配编号、序列号、品牌、型号
	Page
}

// AssetRepository 资产数据访问接口
type AssetRepository interface {
	Create(ctx context.Context, a *model.Asset) error
	GetByID(ctx context.Context, id string) (*model.Asset, error)
	List(ctx context.Context, filter AssetFilter) ([]model.Asset, int64, error)
	Transition(ctx context.Context, id string, from []string, patch map[string]interface{}) error
	SetStatus(ctx context.Context, id, status string) error
}

type assetRepo struct {
	db *gorm.DB
}

// NewAssetRepo 创建 AssetRepository 实例
func NewAssetRepo(db *gorm.DB) AssetRepository {
	return &assetRepo{db: db}
}

func (r *assetRepo) Create(ctx context.Context, a *model.Asset) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *assetRepo) GetByID(ctx context.Context, id string) (*model.Asset, error) {
	var a model.Asset
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assetRepo) List(ctx context.Context, filter AssetFilter) ([]model.Asset, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Asset{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.AssetType != "" {
		q = q.Where("asset_type = ?", filter.AssetType)
	}
	q = searchAny(q, filter.Search, "asset_code", "serial_number", "brand", "model")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Asset
	err := filter.Page.apply(q).
		Order("created_at DESC").
		Find(&list).Error
	return list, total, err
}

func (r *assetRepo) Transition(ctx context.Context, id string, from []string, patch map[string]interface{}) error {
	return transition(ctx, r.db, &model.Asset{}, id, from, patch)
}

// SetStatus 无条件改写状态，记录不存在时返回 gorm.ErrRecordNotFound
func (r *assetRepo) SetStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Asset{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

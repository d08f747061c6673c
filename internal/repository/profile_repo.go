package repository

import (
	"context"

	"gorm.io/gorm"

	"gatepass-nexus/backend/internal/model"
)

// ProfileRepository 身份档案数据访问接口（只读）
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	List(ctx context.Context) ([]model.Profile, error)
	ListDepartments(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

type profileRepo struct {
	db *gorm.DB
}

// NewProfileRepo 创建 ProfileRepository 实例
func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) List(ctx context.Context) ([]model.Profile, error) {
	var list []model.Profile
	err := r.db.WithContext(ctx).
		Order("full_name ASC").
		Find(&list).Error
	return list, err
}

func (r *profileRepo) ListDepartments(ctx context.Context) ([]string, error) {
	var depts []string
	err := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("department IS NOT NULL AND department <> ''").
		Distinct("department").
		Order("department ASC").
		Pluck("department", &depts).Error
	return depts, err
}

func (r *profileRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Profile{}).Count(&n).Error
	return n, err
}

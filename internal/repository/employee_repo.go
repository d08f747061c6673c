package repository

import (
	"context"

	"gorm.io/gorm"

	"gatepass-nexus/backend/internal/model"
)

// EmployeeFilter 员工列表筛选
type EmployeeFilter struct {
	Search     string // 匹配工号、部门、职位
	ActiveOnly bool
	Page
}

// EmployeeRepository 员工数据访问接口
type EmployeeRepository interface {
	Create(ctx context.Context, e *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]model.Employee, int64, error)
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, e *model.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepo) List(ctx context.Context, filter EmployeeFilter) ([]model.Employee, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Employee{})
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	q = searchAny(q, filter.Search, "employee_code", "department", "position")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Employee
	err := filter.Page.apply(q).
		Order("created_at DESC").
		Find(&list).Error
	return list, total, err
}

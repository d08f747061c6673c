package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/model"
	"gatepass-nexus/backend/internal/realtime"
	"gatepass-nexus/backend/internal/repository"
	pkgerrors "gatepass-nexus/backend/pkg/errors"
)

// EmployeeService 员工档案业务接口
type EmployeeService interface {
	Add(ctx context.Context, actor dto.Actor, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	Get(ctx context.Context, actor dto.Actor, id string) (*dto.EmployeeResponse, error)
	List(ctx context.Context, actor dto.Actor, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, int64, error)
	ListActiveAssets(ctx context.Context, actor dto.Actor, employeeID string) ([]dto.AssignmentResponse, error)
}

type employeeService struct {
	repo   *repository.Repository
	codes  CodeGenerator
	emit   emitter
	logger *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, codes CodeGenerator, events realtime.Publisher, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, codes: codes, emit: emitter{events: events}, logger: logger}
}

// ────────────────────── Add ──────────────────────

func (s *employeeService) Add(ctx context.Context, actor dto.Actor, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}

	dept := strings.TrimSpace(req.Department)
	if dept == "" {
		return nil, ErrDepartmentRequired
	}
	hireDate, err := parseDatePtr(req.HireDate)
	if err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(req.EmployeeCode))

	e := &model.Employee{
		EmployeeCode: code,
		UserID:       trimPtr(req.UserID),
		Department:   dept,
		Position:     strings.TrimSpace(req.Position),
		HireDate:     hireDate,
		IsActive:     true,
	}

	insert := func() error { return s.repo.Employee.Create(ctx, e) }
	if code == "" {
		// 未指定工号时自动生成，生成的工号冲突按编号冲突处理
		err = createWithCode(ctx, s.codes, CodePrefixEmployee, "employee_code",
			func(generated string) { e.EmployeeCode = generated }, insert)
	} else if err = insert(); pkgerrors.IsUniqueViolationOn(err, "employee_code") {
		return nil, ErrEmployeeCodeExists
	}
	if err != nil {
		s.logger.Error("新增员工失败", zap.String("code", e.EmployeeCode), zap.Error(err))
		return nil, err
	}

	s.emit.changed(ctx, realtime.TableEmployees, realtime.OpInsert, e.ID)
	return toEmployeeResponse(e), nil
}

// ────────────────────── Get / List ──────────────────────

func (s *employeeService) Get(ctx context.Context, actor dto.Actor, id string) (*dto.EmployeeResponse, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	e, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toEmployeeResponse(e), nil
}

func (s *employeeService) List(ctx context.Context, actor dto.Actor, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, int64, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, 0, err
	}

	list, total, err := s.repo.Employee.List(ctx, repository.EmployeeFilter{
		Search:     req.Search,
		ActiveOnly: req.ActiveOnly,
		Page:       repository.Page{Page: req.Page, PageSize: req.PageSize},
	})
	if err != nil {
		s.logger.Error("列出员工失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.EmployeeResponse, 0, len(list))
	for i := range list {
		result = append(result, *toEmployeeResponse(&list[i]))
	}
	return result, total, nil
}

// ────────────────────── ListActiveAssets ──────────────────────

func (s *employeeService) ListActiveAssets(ctx context.Context, actor dto.Actor, employeeID string) ([]dto.AssignmentResponse, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.repo.Employee.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("id", employeeID), zap.Error(err))
		return nil, err
	}

	list, err := s.repo.Assignment.ListActiveByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("查询员工资产失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toAssignmentResponse(&list[i]))
	}
	return result, nil
}

func toEmployeeResponse(e *model.Employee) *dto.EmployeeResponse {
	return &dto.EmployeeResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		UserID:       e.UserID,
		Department:   e.Department,
		Position:     e.Position,
		HireDate:     formatDatePtr(e.HireDate),
		IsActive:     e.IsActive,
		CreatedAt:    formatTime(e.CreatedAt),
	}
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/lifecycle"
	"gatepass-nexus/backend/internal/model"
	"gatepass-nexus/backend/internal/realtime"
	"gatepass-nexus/backend/internal/repository"
	pkgerrors "gatepass-nexus/backend/pkg/errors"
)

// VisitorService 访客业务接口
// 过期状态由外部定时任务写入，这里不做任何到期处理
type VisitorService interface {
	Register(ctx context.Context, actor dto.Actor, req *dto.RegisterVisitorRequest) (*dto.VisitorResponse, error)
	Get(ctx context.Context, actor dto.Actor, id string) (*dto.VisitorResponse, error)
	List(ctx context.Context, actor dto.Actor, req *dto.VisitorListRequest) ([]dto.VisitorResponse, int64, error)
	CheckIn(ctx context.Context, actor dto.Actor, id string) (*dto.VisitorResponse, error)
	CheckOut(ctx context.Context, actor dto.Actor, id string) (*dto.VisitorResponse, error)
}

type visitorService struct {
	repo   *repository.Repository
	codes  CodeGenerator
	emit   emitter
	logger *zap.Logger
}

// NewVisitorService 创建 VisitorService 实例
func NewVisitorService(repo *repository.Repository, codes CodeGenerator, events realtime.Publisher, logger *zap.Logger) VisitorService {
	return &visitorService{
		repo:   repo,
		codes:  codes,
		emit:   emitter{events: events},
		logger: logger,
	}
}

// ────────────────────── Register ──────────────────────

func (s *visitorService) Register(ctx context.Context, actor dto.Actor, req *dto.RegisterVisitorRequest) (*dto.VisitorResponse, error) {
	if err := requireRole(actor, officerRoles...); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, ErrVisitorNameRequired
	}
	purpose := strings.TrimSpace(req.PurposeOfVisit)
	if purpose == "" {
		return nil, ErrPurposeRequired
	}

	var expected *time.Time
	if v := trimPtr(req.ExpectedCheckout); v != nil {
		t, err := time.Parse(time.RFC3339, *v)
		if err != nil {
			return nil, ErrExpectedCheckoutInvalid
		}
		t = t.UTC()
		expected = &t
	}

	hostID := trimPtr(req.HostEmployeeID)
	if hostID != nil {
		if _, err := s.repo.Employee.GetByID(ctx, *hostID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEmployeeNotFound
			}
			s.logger.Error("查询接待员工失败", zap.String("employee_id", *hostID), zap.Error(err))
			return nil, err
		}
	}

	v := &model.Visitor{
		FullName:         name,
		Company:          trimPtr(req.Company),
		Phone:            trimPtr(req.Phone),
		Email:            trimPtr(req.Email),
		PurposeOfVisit:   purpose,
		HostEmployeeID:   hostID,
		Status:           model.VisitorPending,
		ExpectedCheckout: expected,
	}

	err := createWithCode(ctx, s.codes, CodePrefixVisitor, "visitor_code",
		func(code string) { v.VisitorCode = code },
		func() error { return s.repo.Visitor.Create(ctx, v) },
	)
	if err != nil {
		s.logger.Error("登记访客失败", zap.Error(err))
		return nil, err
	}

	s.emit.changed(ctx, realtime.TableVisitors, realtime.OpInsert, v.ID)
	return toVisitorResponse(v), nil
}

// ────────────────────── Get / List ──────────────────────

func (s *visitorService) Get(ctx context.Context, actor dto.Actor, id string) (*dto.VisitorResponse, error) {
	if err := requireRole(actor, officerRoles...); err != nil {
		return nil, err
	}
	v, err := s.repo.Visitor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		s.logger.Error("查询访客失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toVisitorResponse(v), nil
}

func (s *visitorService) List(ctx context.Context, actor dto.Actor, req *dto.VisitorListRequest) ([]dto.VisitorResponse, int64, error) {
	if err := requireRole(actor, officerRoles...); err != nil {
		return nil, 0, err
	}

	list, total, err := s.repo.Visitor.List(ctx, repository.VisitorFilter{
		Status: req.Status,
		Search: req.Search,
		Page:   repository.Page{Page: req.Page, PageSize: req.PageSize},
	})
	if err != nil {
		s.logger.Error("列出访客失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.VisitorResponse, 0, len(list))
	for i := range list {
		result = append(result, *toVisitorResponse(&list[i]))
	}
	return result, total, nil
}

// ────────────────────── CheckIn / CheckOut ──────────────────────

func (s *visitorService) CheckIn(ctx context.Context, actor dto.Actor, id string) (*dto.VisitorResponse, error) {
	return s.move(ctx, actor, id, lifecycle.ActionCheckIn, "check_in_time", "checked_in_by")
}

func (s *visitorService) CheckOut(ctx context.Context, actor dto.Actor, id string) (*dto.VisitorResponse, error) {
	return s.move(ctx, actor, id, lifecycle.ActionCheckOut, "check_out_time", "checked_out_by")
}

// move 执行一次访客状态流转并记录时间与操作人
func (s *visitorService) move(ctx context.Context, actor dto.Actor, id, action, timeColumn, actorColumn string) (*dto.VisitorResponse, error) {
	if !lifecycle.Visitor.Permits(action, actor.Role) {
		return nil, ErrForbidden
	}
	rule, _ := lifecycle.Visitor.Rule(action)

	err := s.repo.Visitor.Transition(ctx, id, rule.From, map[string]interface{}{
		"status":    rule.To,
		timeColumn:  now(),
		actorColumn: actor.UserID,
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrStaleState) {
			return nil, s.staleError(ctx, id)
		}
		s.logger.Error("更新访客状态失败", zap.String("id", id), zap.String("action", action), zap.Error(err))
		return nil, err
	}

	v, err := s.repo.Visitor.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("查询访客失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.emit.changed(ctx, realtime.TableVisitors, realtime.OpUpdate, v.ID)
	return toVisitorResponse(v), nil
}

func (s *visitorService) staleError(ctx context.Context, id string) error {
	_, err := s.repo.Visitor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVisitorNotFound
		}
		return err
	}
	return ErrInvalidTransition
}

// ────────────────────── 转换 ──────────────────────

func toVisitorResponse(v *model.Visitor) *dto.VisitorResponse {
	resp := &dto.VisitorResponse{
		ID:               v.ID,
		VisitorCode:      v.VisitorCode,
		FullName:         v.FullName,
		Company:          v.Company,
		Phone:            v.Phone,
		Email:            v.Email,
		PurposeOfVisit:   v.PurposeOfVisit,
		HostEmployeeID:   v.HostEmployeeID,
		Status:           v.Status,
		CheckInTime:      formatTimePtr(v.CheckInTime),
		CheckOutTime:     formatTimePtr(v.CheckOutTime),
		ExpectedCheckout: formatTimePtr(v.ExpectedCheckout),
		CheckedInBy:      v.CheckedInBy,
		CheckedOutBy:     v.CheckedOutBy,
		CreatedAt:        formatTime(v.CreatedAt),
	}
	if v.HostEmployee != nil {
		resp.HostEmployeeCode = v.HostEmployee.EmployeeCode
	}
	return resp
}

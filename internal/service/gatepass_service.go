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
	"gatepass-nexus/backend/internal/notify"
	"gatepass-nexus/backend/internal/realtime"
	"gatepass-nexus/backend/internal/repository"
	pkgerrors "gatepass-nexus/backend/pkg/errors"
)

// GatepassService 出门条业务接口
type GatepassService interface {
	Create(ctx context.Context, actor dto.Actor, req *dto.CreateGatepassRequest) (*dto.GatepassResponse, error)
	Get(ctx context.Context, actor dto.Actor, id string) (*dto.GatepassResponse, error)
	// List 普通员工只能看到自己的申请
	List(ctx context.Context, actor dto.Actor, req *dto.GatepassListRequest) ([]dto.GatepassResponse, int64, error)
	Approve(ctx context.Context, actor dto.Actor, id string) (*dto.GatepassResponse, error)
	Reject(ctx context.Context, actor dto.Actor, id string) (*dto.GatepassResponse, error)
	// ConfirmExit 门岗按编号确认出门，编号不区分大小写
	ConfirmExit(ctx context.Context, actor dto.Actor, code string) (*dto.GatepassResponse, error)
}

type gatepassService struct {
	repo   *repository.Repository
	codes  CodeGenerator
	emit   emitter
	logger *zap.Logger
}

// NewGatepassService 创建 GatepassService 实例
func NewGatepassService(repo *repository.Repository, codes CodeGenerator, events realtime.Publisher, notifier notify.Sink, logger *zap.Logger) GatepassService {
	return &gatepassService{
		repo:   repo,
		codes:  codes,
		emit:   emitter{events: events, notifier: notifier},
		logger: logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *gatepassService) Create(ctx context.Context, actor dto.Actor, req *dto.CreateGatepassRequest) (*dto.GatepassResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	exitTime, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ExitTime))
	if err != nil {
		return nil, ErrExitTimeInvalid
	}

	gp := &model.Gatepass{
		RequesterID:   actor.UserID,
		RequesterName: actor.Name,
		Department:    actor.Department,
		Reason:        reason,
		ItemsCarried:  trimPtr(req.ItemsCarried),
		ExitTime:      exitTime.UTC(),
		Status:        model.GatepassPending,
	}

	err = createWithCode(ctx, s.codes, CodePrefixGatepass, "gatepass_code",
		func(code string) { gp.GatepassCode = code },
		func() error { return s.repo.Gatepass.Create(ctx, gp) },
	)
	if err != nil {
		s.logger.Error("创建出门条失败", zap.String("requester_id", actor.UserID), zap.Error(err))
		return nil, err
	}

	s.emit.changed(ctx, realtime.TableGatepasses, realtime.OpInsert, gp.ID)
	s.emit.notify(ctx, actor.UserID, "出门条已提交", "编号 "+gp.GatepassCode+" 等待审批", notify.SeveritySuccess)
	return toGatepassResponse(gp), nil
}

// ────────────────────── Get / List ──────────────────────

func (s *gatepassService) Get(ctx context.Context, actor dto.Actor, id string) (*dto.GatepassResponse, error) {
	gp, err := s.repo.Gatepass.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGatepassNotFound
		}
		s.logger.Error("查询出门条失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !isOfficer(actor) && gp.RequesterID != actor.UserID {
		return nil, ErrForbidden
	}
	return toGatepassResponse(gp), nil
}

func (s *gatepassService) List(ctx context.Context, actor dto.Actor, req *dto.GatepassListRequest) ([]dto.GatepassResponse, int64, error) {
	filter := repository.GatepassFilter{
		Status: req.Status,
		Search: req.Search,
		Page:   repository.Page{Page: req.Page, PageSize: req.PageSize},
	}
	if !isOfficer(actor) {
		filter.RequesterID = actor.UserID
	}

	list, total, err := s.repo.Gatepass.List(ctx, filter)
	if err != nil {
		s.logger.Error("列出出门条失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.GatepassResponse, 0, len(list))
	for i := range list {
		result = append(result, *toGatepassResponse(&list[i]))
	}
	return result, total, nil
}

// ────────────────────── Approve / Reject ──────────────────────

func (s *gatepassService) Approve(ctx context.Context, actor dto.Actor, id string) (*dto.GatepassResponse, error) {
	return s.review(ctx, actor, id, lifecycle.ActionApprove)
}

func (s *gatepassService) Reject(ctx context.Context, actor dto.Actor, id string) (*dto.GatepassResponse, error) {
	return s.review(ctx, actor, id, lifecycle.ActionReject)
}

// review 审批与驳回都记录审核人与审核时间
func (s *gatepassService) review(ctx context.Context, actor dto.Actor, id, action string) (*dto.GatepassResponse, error) {
	if !lifecycle.Gatepass.Permits(action, actor.Role) {
		return nil, ErrForbidden
	}
	rule, _ := lifecycle.Gatepass.Rule(action)

	at := now()
	err := s.repo.Gatepass.Transition(ctx, id, rule.From, map[string]interface{}{
		"status":      rule.To,
		"approved_by": actor.UserID,
		"approved_at": at,
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrStaleState) {
			return nil, s.staleError(ctx, id)
		}
		s.logger.Error("更新出门条状态失败", zap.String("id", id), zap.String("action", action), zap.Error(err))
		return nil, err
	}

	gp, err := s.repo.Gatepass.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("查询出门条失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.emit.changed(ctx, realtime.TableGatepasses, realtime.OpUpdate, gp.ID)
	title := "出门条已批准"
	severity := notify.SeveritySuccess
	if rule.To == model.GatepassRejected {
		title = "出门条已驳回"
		severity = notify.SeverityWarning
	}
	s.emit.notify(ctx, gp.RequesterID, title, gp.GatepassCode, severity)
	return toGatepassResponse(gp), nil
}

// staleError 条件更新未命中时区分记录不存在与状态不符
func (s *gatepassService) staleError(ctx context.Context, id string) error {
	_, err := s.repo.Gatepass.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGatepassNotFound
		}
		s.logger.Error("查询出门条失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return ErrInvalidTransition
}

// ────────────────────── ConfirmExit ──────────────────────

func (s *gatepassService) ConfirmExit(ctx context.Context, actor dto.Actor, code string) (*dto.GatepassResponse, error) {
	if !lifecycle.Gatepass.Permits(lifecycle.ActionExit, actor.Role) {
		return nil, ErrForbidden
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrGatepassCodeRequired
	}

	rule, _ := lifecycle.Gatepass.Rule(lifecycle.ActionExit)
	gp, err := s.repo.Gatepass.GetByCodeAndStatus(ctx, code, model.GatepassApproved)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGatepassNotFound
		}
		s.logger.Error("按编号查询出门条失败", zap.String("code", code), zap.Error(err))
		return nil, err
	}

	at := now()
	err = s.repo.Gatepass.Transition(ctx, gp.ID, rule.From, map[string]interface{}{
		"status":    rule.To,
		"exited_by": actor.UserID,
		"exited_at": at,
	})
	if err != nil {
		// 查询与更新之间被其他门岗抢先确认
		if errors.Is(err, pkgerrors.ErrStaleState) {
			return nil, ErrGatepassNotFound
		}
		s.logger.Error("确认出门失败", zap.String("code", code), zap.Error(err))
		return nil, err
	}

	gp.Status = rule.To
	gp.ExitedBy = strPtr(actor.UserID)
	gp.ExitedAt = &at

	s.emit.changed(ctx, realtime.TableGatepasses, realtime.OpUpdate, gp.ID)
	s.emit.notify(ctx, gp.RequesterID, "已确认出门", gp.GatepassCode, notify.SeverityInfo)
	return toGatepassResponse(gp), nil
}

// ────────────────────── 转换 ──────────────────────

func toGatepassResponse(gp *model.Gatepass) *dto.GatepassResponse {
	return &dto.GatepassResponse{
		ID:            gp.ID,
		GatepassCode:  gp.GatepassCode,
		RequesterID:   gp.RequesterID,
		RequesterName: gp.RequesterName,
		Department:    gp.Department,
		Reason:        gp.Reason,
		ItemsCarried:  gp.ItemsCarried,
		ExitTime:      formatTime(gp.ExitTime),
		Status:        gp.Status,
		ApprovedBy:    gp.ApprovedBy,
		ApprovedAt:    formatTimePtr(gp.ApprovedAt),
		ExitedBy:      gp.ExitedBy,
		ExitedAt:      formatTimePtr(gp.ExitedAt),
		CreatedAt:     formatTime(gp.CreatedAt),
	}
}

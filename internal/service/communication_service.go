package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/model"
	"gatepass-nexus/backend/internal/notify"
	"gatepass-nexus/backend/internal/realtime"
	"gatepass-nexus/backend/internal/repository"
	pkgerrors "gatepass-nexus/backend/pkg/errors"
)

var recipientTypes = []string{
	model.RecipientIndividual,
	model.RecipientDepartment,
	model.RecipientAllStaff,
	model.RecipientAllVisitors,
}

// CommunicationService 内部消息业务接口
type CommunicationService interface {
	Send(ctx context.Context, actor dto.Actor, req *dto.SendCommunicationRequest) (*dto.CommunicationResponse, error)
	// MarkRead 幂等：已读消息再次标记直接返回成功
	MarkRead(ctx context.Context, actor dto.Actor, id string) (*dto.CommunicationResponse, error)
	Inbox(ctx context.Context, actor dto.Actor, req *dto.CommunicationListRequest) ([]dto.CommunicationResponse, int64, error)
	Sent(ctx context.Context, actor dto.Actor, req *dto.CommunicationListRequest) ([]dto.CommunicationResponse, int64, error)
	UnreadCount(ctx context.Context, actor dto.Actor) (int64, error)
}

type communicationService struct {
	repo   *repository.Repository
	emit   emitter
	logger *zap.Logger
}

// NewCommunicationService 创建 CommunicationService 实例
func NewCommunicationService(repo *repository.Repository, events realtime.Publisher, notifier notify.Sink, logger *zap.Logger) CommunicationService {
	return &communicationService{repo: repo, emit: emitter{events: events, notifier: notifier}, logger: logger}
}

// ────────────────────── Send ──────────────────────

func (s *communicationService) Send(ctx context.Context, actor dto.Actor, req *dto.SendCommunicationRequest) (*dto.CommunicationResponse, error) {
	c, err := buildCommunication(actor, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Communication.Create(ctx, c); err != nil {
		s.logger.Error("发送消息失败", zap.String("sender_id", actor.UserID), zap.Error(err))
		return nil, err
	}

	s.emit.changed(ctx, realtime.TableCommunications, realtime.OpInsert, c.ID)
	if c.RecipientID != nil {
		s.emit.notify(ctx, *c.RecipientID, "新消息", c.Subject, notify.SeverityInfo)
	}
	return toCommunicationResponse(c), nil
}

// buildCommunication 校验收件方式并清理与之无关的收件字段
func buildCommunication(actor dto.Actor, req *dto.SendCommunicationRequest) (*model.Communication, error) {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return nil, ErrSubjectRequired
	}
	body := strings.TrimSpace(req.Message)
	if body == "" {
		return nil, ErrBodyRequired
	}

	recipientType := strings.TrimSpace(req.RecipientType)
	if !oneOf(recipientType, recipientTypes) {
		return nil, ErrRecipientTypeInvalid
	}

	priority := strings.TrimSpace(req.Priority)
	if priority == "" {
		priority = model.PriorityNormal
	}
	if !oneOf(priority, model.Priorities) {
		return nil, ErrPriorityInvalid
	}
	kind := strings.TrimSpace(req.CommunicationType)
	if kind == "" {
		kind = model.CommunicationTypeMessage
	}
	if !oneOf(kind, model.CommunicationTypes) {
		return nil, ErrCommunicationTypeInvalid
	}

	c := &model.Communication{
		SenderID:          actor.UserID,
		RecipientType:     recipientType,
		Subject:           subject,
		Message:           body,
		Priority:          priority,
		CommunicationType: kind,
		IsRead:            false,
	}

	switch recipientType {
	case model.RecipientIndividual:
		id := strings.TrimSpace(req.RecipientID)
		if id == "" {
			return nil, ErrIndividualMissing
		}
		c.RecipientID = &id
	case model.RecipientDepartment:
		dept := strings.TrimSpace(req.RecipientDepartment)
		if dept == "" {
			return nil, ErrDepartmentMissing
		}
		c.RecipientDepartment = &dept
	}
	return c, nil
}

// ────────────────────── MarkRead ──────────────────────

func (s *communicationService) MarkRead(ctx context.Context, actor dto.Actor, id string) (*dto.CommunicationResponse, error) {
	c, err := s.repo.Communication.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunicationNotFound
		}
		s.logger.Error("查询消息失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !addressedTo(c, actor) {
		return nil, ErrForbidden
	}
	if c.IsRead {
		return toCommunicationResponse(c), nil
	}

	at := now()
	if err := s.repo.Communication.MarkRead(ctx, id, at); err != nil {
		if errors.Is(err, pkgerrors.ErrStaleState) {
			// 并发标记，以存储中的状态为准
			return s.reload(ctx, id)
		}
		s.logger.Error("标记消息已读失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	c.IsRead = true
	c.ReadAt = &at
	s.emit.changed(ctx, realtime.TableCommunications, realtime.OpUpdate, c.ID)
	return toCommunicationResponse(c), nil
}

func (s *communicationService) reload(ctx context.Context, id string) (*dto.CommunicationResponse, error) {
	c, err := s.repo.Communication.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunicationNotFound
		}
		return nil, err
	}
	return toCommunicationResponse(c), nil
}

// addressedTo 与收件箱查询条件一致
func addressedTo(c *model.Communication, actor dto.Actor) bool {
	switch c.RecipientType {
	case model.RecipientAllStaff:
		return true
	case model.RecipientDepartment:
		return c.RecipientDepartment != nil && actor.Department != "" && *c.RecipientDepartment == actor.Department
	}
	return c.RecipientID != nil && *c.RecipientID == actor.UserID
}

// ────────────────────── Inbox / Sent ──────────────────────

func (s *communicationService) Inbox(ctx context.Context, actor dto.Actor, req *dto.CommunicationListRequest) ([]dto.CommunicationResponse, int64, error) {
	list, total, err := s.repo.Communication.ListInbox(ctx, addressee(actor), req.Search, repository.Page{Page: req.Page, PageSize: req.PageSize})
	if err != nil {
		s.logger.Error("查询收件箱失败", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, 0, err
	}
	return toCommunicationResponses(list), total, nil
}

func (s *communicationService) Sent(ctx context.Context, actor dto.Actor, req *dto.CommunicationListRequest) ([]dto.CommunicationResponse, int64, error) {
	list, total, err := s.repo.Communication.ListSent(ctx, actor.UserID, repository.Page{Page: req.Page, PageSize: req.PageSize})
	if err != nil {
		s.logger.Error("查询已发送消息失败", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, 0, err
	}
	return toCommunicationResponses(list), total, nil
}

func (s *communicationService) UnreadCount(ctx context.Context, actor dto.Actor) (int64, error) {
	n, err := s.repo.Communication.CountUnread(ctx, addressee(actor))
	if err != nil {
		s.logger.Error("统计未读消息失败", zap.String("user_id", actor.UserID), zap.Error(err))
		return 0, err
	}
	return n, nil
}

func addressee(actor dto.Actor) repository.Addressee {
	return repository.Addressee{UserID: actor.UserID, Department: actor.Department}
}

// ────────────────────── 转换 ──────────────────────

func toCommunicationResponse(c *model.Communication) *dto.CommunicationResponse {
	return &dto.CommunicationResponse{
		ID:                  c.ID,
		SenderID:            c.SenderID,
		RecipientType:       c.RecipientType,
		RecipientID:         c.RecipientID,
		RecipientDepartment: c.RecipientDepartment,
		Subject:             c.Subject,
		Message:             c.Message,
		Priority:            c.Priority,
		CommunicationType:   c.CommunicationType,
		IsRead:              c.IsRead,
		ReadAt:              formatTimePtr(c.ReadAt),
		CreatedAt:           formatTime(c.CreatedAt),
	}
}

func toCommunicationResponses(list []model.Communication) []dto.CommunicationResponse {
	result := make([]dto.CommunicationResponse, 0, len(list))
	for i := range list {
		result = append(result, *toCommunicationResponse(&list[i]))
	}
	return result
}

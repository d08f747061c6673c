package service

import (
	"context"
	"errors"
	"strings"

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

// AssetService 资产与分配业务接口
type AssetService interface {
	Add(ctx context.Context, actor dto.Actor, req *dto.CreateAssetRequest) (*dto.AssetResponse, error)
	Get(ctx context.Context, actor dto.Actor, id string) (*dto.AssetResponse, error)
	List(ctx context.Context, actor dto.Actor, req *dto.AssetListRequest) ([]dto.AssetResponse, int64, error)
	ListAvailable(ctx context.Context, actor dto.Actor) ([]dto.AssetResponse, error)
	// Assign 在同一事务内锁定资产并写入分配记录
	Assign(ctx context.Context, actor dto.Actor, assetID string, req *dto.AssignAssetRequest) (*dto.AssignmentResponse, error)
	// SetStatus 直接改写资产状态，不维护分配记录
	SetStatus(ctx context.Context, actor dto.Actor, assetID, status string) (*dto.AssetResponse, error)
	// Return 在同一事务内关闭分配记录并释放资产
	Return(ctx context.Context, actor dto.Actor, assignmentID string) (*dto.AssignmentResponse, error)
	ListAssignments(ctx context.Context, actor dto.Actor, assetID string) ([]dto.AssignmentResponse, error)
}

type assetService struct {
	repo   *repository.Repository
	codes  CodeGenerator
	emit   emitter
	logger *zap.Logger
}

// NewAssetService 创建 AssetService 实例
func NewAssetService(repo *repository.Repository, codes CodeGenerator, events realtime.Publisher, notifier notify.Sink, logger *zap.Logger) AssetService {
	return &assetService{
		repo:   repo,
		codes:  codes,
		emit:   emitter{events: events, notifier: notifier},
		logger: logger,
	}
}

// ────────────────────── Add ──────────────────────

func (s *assetService) Add(ctx context.Context, actor dto.Actor, req *dto.CreateAssetRequest) (*dto.AssetResponse, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}

	assetType := strings.ToLower(strings.TrimSpace(req.AssetType))
	if !oneOf(assetType, model.AssetTypes) {
		return nil, ErrAssetTypeInvalid
	}
	serial := strings.TrimSpace(req.SerialNumber)
	if serial == "" {
		return nil, ErrSerialRequired
	}
	purchase, err := parseDatePtr(req.PurchaseDate)
	if err != nil {
		return nil, err
	}
	warranty, err := parseDatePtr(req.WarrantyExpiry)
	if err != nil {
		return nil, err
	}

	a := &model.Asset{
		AssetType:       assetType,
		Brand:           trimPtr(req.Brand),
		Model:           trimPtr(req.Model),
		SerialNumber:    serial,
		Status:          model.AssetAvailable,
		CurrentLocation: trimPtr(req.CurrentLocation),
		PurchaseDate:    purchase,
		WarrantyExpiry:  warranty,
	}

	err = createWithCode(ctx, s.codes, CodePrefixAsset, "asset_code",
		func(code string) { a.AssetCode = code },
		func() error { return s.repo.Asset.Create(ctx, a) },
	)
	if err != nil {
		if pkgerrors.IsUniqueViolationOn(err, "serial_number") {
			return nil, ErrSerialExists
		}
		s.logger.Error("新增资产失败", zap.String("serial", serial), zap.Error(err))
		return nil, err
	}

	s.emit.changed(ctx, realtime.TableAssets, realtime.OpInsert, a.ID)
	return toAssetResponse(a), nil
}

// ────────────────────── Get / List ──────────────────────

func (s *assetService) Get(ctx context.Context, actor dto.Actor, id string) (*dto.AssetResponse, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	a, err := s.getAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAssetResponse(a), nil
}

func (s *assetService) getAsset(ctx context.Context, id string) (*model.Asset, error) {
	a, err := s.repo.Asset.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		s.logger.Error("查询资产失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return a, nil
}

func (s *assetService) List(ctx context.Context, actor dto.Actor, req *dto.AssetListRequest) ([]dto.AssetResponse, int64, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, 0, err
	}

	list, total, err := s.repo.Asset.List(ctx, repository.AssetFilter{
		Status:    req.Status,
		AssetType: req.AssetType,
		Search:    req.Search,
		Page:      repository.Page{Page: req.Page, PageSize: req.PageSize},
	})
	if err != nil {
		s.logger.Error("列出资产失败", zap.Error(err))
		return nil, 0, err
	}
	return toAssetResponses(list), total, nil
}

func (s *assetService) ListAvailable(ctx context.Context, actor dto.Actor) ([]dto.AssetResponse, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}

	list, _, err := s.repo.Asset.List(ctx, repository.AssetFilter{Status: model.AssetAvailable})
	if err != nil {
		s.logger.Error("列出可分配资产失败", zap.Error(err))
		return nil, err
	}
	return toAssetResponses(list), nil
}

// ────────────────────── Assign ──────────────────────

func (s *assetService) Assign(ctx context.Context, actor dto.Actor, assetID string, req *dto.AssignAssetRequest) (*dto.AssignmentResponse, error) {
	if !lifecycle.Asset.Permits(lifecycle.ActionAssign, actor.Role) {
		return nil, ErrForbidden
	}
	rule, _ := lifecycle.Asset.Rule(lifecycle.ActionAssign)

	emp, err := s.repo.Employee.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}
	if !emp.IsActive {
		return nil, ErrEmployeeInactive
	}

	// 资产状态与分配记录必须同时成功或同时回滚
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()
	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Asset.Transition(ctx, assetID, rule.From, map[string]interface{}{"status": rule.To}); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if errors.Is(err, pkgerrors.ErrStaleState) {
			if _, getErr := s.getAsset(ctx, assetID); getErr != nil {
				return nil, getErr
			}
			return nil, ErrAssetUnavailable
		}
		s.logger.Error("锁定资产失败", zap.String("asset_id", assetID), zap.Error(err))
		return nil, err
	}

	ea := &model.EmployeeAsset{
		EmployeeID:   emp.ID,
		AssetID:      assetID,
		AssignedBy:   actor.UserID,
		AssignedDate: now(),
		IsActive:     true,
		Notes:        trimPtr(req.Notes),
	}
	if err := txRepo.Assignment.Create(ctx, ea); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrAssetUnavailable
		}
		s.logger.Error("写入分配记录失败", zap.String("asset_id", assetID), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.emit.changed(ctx, realtime.TableAssets, realtime.OpUpdate, assetID)
	if emp.UserID != nil {
		s.emit.notify(ctx, *emp.UserID, "资产已分配", "请查看我的资产", notify.SeverityInfo)
	}
	resp := toAssignmentResponse(ea)
	resp.EmployeeCode = emp.EmployeeCode
	return resp, nil
}

// ────────────────────── SetStatus ──────────────────────

func (s *assetService) SetStatus(ctx context.Context, actor dto.Actor, assetID, status string) (*dto.AssetResponse, error) {
	if !lifecycle.Asset.Permits(lifecycle.ActionSetStatus, actor.Role) {
		return nil, ErrForbidden
	}
	status = strings.TrimSpace(status)
	if !lifecycle.IsAssetStatus(status) {
		return nil, ErrAssetStatusInvalid
	}

	if err := s.repo.Asset.SetStatus(ctx, assetID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		s.logger.Error("更新资产状态失败", zap.String("asset_id", assetID), zap.Error(err))
		return nil, err
	}

	s.warnIfDesynced(ctx, assetID, status)

	a, err := s.getAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	s.emit.changed(ctx, realtime.TableAssets, realtime.OpUpdate, assetID)
	return toAssetResponse(a), nil
}

// warnIfDesynced 直接改写状态后，assigned 与激活分配记录可能不一致，仅记录告警
func (s *assetService) warnIfDesynced(ctx context.Context, assetID, status string) {
	_, err := s.repo.Assignment.GetActiveByAsset(ctx, assetID)
	hasActive := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("查询激活分配记录失败", zap.String("asset_id", assetID), zap.Error(err))
		return
	}
	if hasActive != (status == model.AssetAssigned) {
		s.logger.Warn("资产状态与分配记录不一致",
			zap.String("asset_id", assetID),
			zap.String("status", status),
			zap.Bool("has_active_assignment", hasActive),
		)
	}
}

// ────────────────────── Return ──────────────────────

func (s *assetService) Return(ctx context.Context, actor dto.Actor, assignmentID string) (*dto.AssignmentResponse, error) {
	if !lifecycle.Asset.Permits(lifecycle.ActionReturn, actor.Role) {
		return nil, ErrForbidden
	}
	rule, _ := lifecycle.Asset.Rule(lifecycle.ActionReturn)

	ea, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询分配记录失败", zap.String("id", assignmentID), zap.Error(err))
		return nil, err
	}
	if !ea.IsActive {
		return nil, ErrInvalidTransition
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()
	txRepo := s.repo.WithTx(tx)

	at := now()
	if err := txRepo.Assignment.Close(ctx, assignmentID, at); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if errors.Is(err, pkgerrors.ErrStaleState) {
			return nil, ErrInvalidTransition
		}
		s.logger.Error("关闭分配记录失败", zap.String("id", assignmentID), zap.Error(err))
		return nil, err
	}

	err = txRepo.Asset.Transition(ctx, ea.AssetID, rule.From, map[string]interface{}{"status": rule.To})
	if err != nil && !errors.Is(err, pkgerrors.ErrStaleState) {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("释放资产失败", zap.String("asset_id", ea.AssetID), zap.Error(err))
		return nil, err
	}
	if err != nil {
		// 资产已被直接改为维修或报废，保留其当前状态
		s.logger.Warn("归还时资产不处于 assigned 状态", zap.String("asset_id", ea.AssetID))
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	ea.IsActive = false
	ea.ReturnedDate = &at
	s.emit.changed(ctx, realtime.TableAssets, realtime.OpUpdate, ea.AssetID)
	return toAssignmentResponse(ea), nil
}

// ────────────────────── ListAssignments ──────────────────────

func (s *assetService) ListAssignments(ctx context.Context, actor dto.Actor, assetID string) ([]dto.AssignmentResponse, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.getAsset(ctx, assetID); err != nil {
		return nil, err
	}

	list, err := s.repo.Assignment.ListByAsset(ctx, assetID)
	if err != nil {
		s.logger.Error("查询分配历史失败", zap.String("asset_id", assetID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		resp := toAssignmentResponse(&list[i])
		if list[i].Employee != nil {
			resp.EmployeeCode = list[i].Employee.EmployeeCode
		}
		result = append(result, *resp)
	}
	return result, nil
}

// ────────────────────── 转换 ──────────────────────

func toAssetResponse(a *model.Asset) *dto.AssetResponse {
	return &dto.AssetResponse{
		ID:              a.ID,
		AssetCode:       a.AssetCode,
		AssetType:       a.AssetType,
		Brand:           a.Brand,
		Model:           a.Model,
		SerialNumber:    a.SerialNumber,
		Status:          a.Status,
		CurrentLocation: a.CurrentLocation,
		PurchaseDate:    formatDatePtr(a.PurchaseDate),
		WarrantyExpiry:  formatDatePtr(a.WarrantyExpiry),
		CreatedAt:       formatTime(a.CreatedAt),
	}
}

func toAssetResponses(list []model.Asset) []dto.AssetResponse {
	result := make([]dto.AssetResponse, 0, len(list))
	for i := range list {
		result = append(result, *toAssetResponse(&list[i]))
	}
	return result
}

func toAssignmentResponse(ea *model.EmployeeAsset) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:           ea.ID,
		EmployeeID:   ea.EmployeeID,
		AssetID:      ea.AssetID,
		AssignedBy:   ea.AssignedBy,
		AssignedDate: formatTime(ea.AssignedDate),
		ReturnedDate: formatTimePtr(ea.ReturnedDate),
		IsActive:     ea.IsActive,
		Notes:        ea.Notes,
	}
	if ea.Asset != nil {
		resp.Asset = toAssetResponse(ea.Asset)
	}
	return resp
}

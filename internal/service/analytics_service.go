package service

import (
	"context"

	"go.uber.org/zap"

	"gatepass-nexus/backend/internal/analytics"
	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/repository"
)

// 仪表盘统计范围
const (
	ScopeAll = "all"
	ScopeOwn = "own"
)

const recentLimit = 5

// AnalyticsService 仪表盘统计接口
type AnalyticsService interface {
	// Dashboard 管理员与门岗统计全部出门条，普通员工只统计自己的
	Dashboard(ctx context.Context, actor dto.Actor) (*dto.DashboardResponse, error)
}

type analyticsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAnalyticsService 创建 AnalyticsService 实例
func NewAnalyticsService(repo *repository.Repository, logger *zap.Logger) AnalyticsService {
	return &analyticsService{repo: repo, logger: logger}
}

func (s *analyticsService) Dashboard(ctx context.Context, actor dto.Actor) (*dto.DashboardResponse, error) {
	filter := repository.GatepassFilter{}
	scope := ScopeAll
	if !isOfficer(actor) {
		filter.RequesterID = actor.UserID
		scope = ScopeOwn
	}

	list, _, err := s.repo.Gatepass.List(ctx, filter)
	if err != nil {
		s.logger.Error("统计出门条失败", zap.String("scope", scope), zap.Error(err))
		return nil, err
	}

	totalUsers, err := s.repo.Profile.Count(ctx)
	if err != nil {
		s.logger.Error("统计用户数失败", zap.Error(err))
		return nil, err
	}

	// List 按创建时间倒序返回
	recent := list
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	recentResp := make([]dto.GatepassResponse, 0, len(recent))
	for i := range recent {
		recentResp = append(recentResp, *toGatepassResponse(&recent[i]))
	}

	return &dto.DashboardResponse{
		Scope:   scope,
		Summary: analytics.Summarize(list, totalUsers),
		Recent:  recentResp,
	}, nil
}

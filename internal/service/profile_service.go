package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/model"
	"gatepass-nexus/backend/internal/repository"
)

// ProfileService 身份档案只读接口
type ProfileService interface {
	// Me 返回令牌中的身份，档案存在时一并返回
	Me(ctx context.Context, actor dto.Actor) (*dto.MeResponse, error)
	List(ctx context.Context) ([]dto.ProfileResponse, error)
	ListDepartments(ctx context.Context) ([]string, error)
}

type profileService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProfileService 创建 ProfileService 实例
func NewProfileService(repo *repository.Repository, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, logger: logger}
}

func (s *profileService) Me(ctx context.Context, actor dto.Actor) (*dto.MeResponse, error) {
	resp := &dto.MeResponse{
		UserID:     actor.UserID,
		Name:       actor.Name,
		Department: actor.Department,
		Role:       actor.Role,
	}

	p, err := s.repo.Profile.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}
		s.logger.Error("查询身份档案失败", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, err
	}
	resp.Profile = toProfileResponse(p)
	return resp, nil
}

func (s *profileService) List(ctx context.Context) ([]dto.ProfileResponse, error) {
	list, err := s.repo.Profile.List(ctx)
	if err != nil {
		s.logger.Error("列出身份档案失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ProfileResponse, 0, len(list))
	for i := range list {
		result = append(result, *toProfileResponse(&list[i]))
	}
	return result, nil
}

func (s *profileService) ListDepartments(ctx context.Context) ([]string, error) {
	depts, err := s.repo.Profile.ListDepartments(ctx)
	if err != nil {
		s.logger.Error("列出部门失败", zap.Error(err))
		return nil, err
	}
	if depts == nil {
		depts = []string{}
	}
	return depts, nil
}

func toProfileResponse(p *model.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		FullName:   p.FullName,
		Email:      p.Email,
		Department: p.Department,
		Role:       p.Role,
	}
}

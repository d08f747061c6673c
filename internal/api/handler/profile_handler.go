package handler

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"gatepass-nexus/backend/internal/service"
	"gatepass-nexus/backend/pkg/response"
)

const (
	profileCodeBase = 26000
	noticeLimit     = 20
)

// NoticeReader 读取用户最近的通知（由 pkg/redis.Client 实现）
type NoticeReader interface {
	ListNotices(ctx context.Context, userID string, limit int64) ([]string, error)
}

// ProfileHandler 身份档案 HTTP 处理器
type ProfileHandler struct {
	profileSvc service.ProfileService
	notices    NoticeReader
}

// NewProfileHandler 创建 ProfileHandler
func NewProfileHandler(profileSvc service.ProfileService, notices NoticeReader) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc, notices: notices}
}

// GetMe 当前操作者
// GET /api/v1/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	me, err := h.profileSvc.Me(c.Request.Context(), actor)
	if err != nil {
		writeServiceError(c, err, profileCodeBase)
		return
	}

	response.OK(c, me)
}

// ListNotices 当前操作者最近的通知
// GET /api/v1/me/notices
func (h *ProfileHandler) ListNotices(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list := make([]json.RawMessage, 0)
	if h.notices != nil {
		raw, err := h.notices.ListNotices(c.Request.Context(), actor.UserID, noticeLimit)
		if err != nil {
			writeServiceError(c, err, profileCodeBase)
			return
		}
		for _, r := range raw {
			if json.Valid([]byte(r)) {
				list = append(list, json.RawMessage(r))
			}
		}
	}

	response.OK(c, gin.H{"list": list})
}

// ListProfiles 身份档案列表
// GET /api/v1/profiles
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	list, err := h.profileSvc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, profileCodeBase)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListDepartments 部门列表
// GET /api/v1/departments
func (h *ProfileHandler) ListDepartments(c *gin.Context) {
	list, err := h.profileSvc.ListDepartments(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, profileCodeBase)
		return
	}

	response.OK(c, gin.H{"list": list})
}

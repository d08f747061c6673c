package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/service"
	"gatepass-nexus/backend/pkg/response"
)

const communicationCodeBase = 25000

// CommunicationHandler 内部消息 HTTP 处理器
type CommunicationHandler struct {
	commSvc service.CommunicationService
}

// NewCommunicationHandler 创建 CommunicationHandler
func NewCommunicationHandler(commSvc service.CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{commSvc: commSvc}
}

// SendCommunication 发送消息
// POST /api/v1/communications
func (h *CommunicationHandler) SendCommunication(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.SendCommunicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	msg, err := h.commSvc.Send(c.Request.Context(), actor, &req)
	if err != nil {
		writeServiceError(c, err, communicationCodeBase)
		return
	}

	response.Created(c, msg)
}

// Inbox 收件箱
// GET /api/v1/communications/inbox
func (h *CommunicationHandler) Inbox(c *gin.Context) {
	h.list(c, h.commSvc.Inbox)
}

// Sent 已发送
// GET /api/v1/communications/sent
func (h *CommunicationHandler) Sent(c *gin.Context) {
	h.list(c, h.commSvc.Sent)
}

type communicationLister func(ctx context.Context, actor dto.Actor, req *dto.CommunicationListRequest) ([]dto.CommunicationResponse, int64, error)

func (h *CommunicationHandler) list(c *gin.Context, fetch communicationLister) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CommunicationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	req.Normalize()

	list, total, err := fetch(c.Request.Context(), actor, &req)
	if err != nil {
		writeServiceError(c, err, communicationCodeBase)
		return
	}

	response.OKPage(c, list, total, req.Page, req.PageSize)
}

// UnreadCount 未读消息数
// GET /api/v1/communications/unread-count
func (h *CommunicationHandler) UnreadCount(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	n, err := h.commSvc.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		writeServiceError(c, err, communicationCodeBase)
		return
	}

	response.OK(c, dto.UnreadCountResponse{Unread: n})
}

// MarkRead 标记已读
// POST /api/v1/communications/:id/read
func (h *CommunicationHandler) MarkRead(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := mustIDParam(c, communicationCodeBase, service.ErrCommunicationNotFound)
	if !ok {
		return
	}

	msg, err := h.commSvc.MarkRead(c.Request.Context(), actor, id)
	if err != nil {
		writeServiceError(c, err, communicationCodeBase)
		return
	}

	response.OK(c, msg)
}

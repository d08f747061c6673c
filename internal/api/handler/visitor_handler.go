package handler

import (
	"github.com/gin-gonic/gin"

	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/service"
	"gatepass-nexus/backend/pkg/response"
)

const visitorCodeBase = 22000

// VisitorHandler 访客模块 HTTP 处理器
type VisitorHandler struct {
	visitorSvc service.VisitorService
}

// NewVisitorHandler 创建 VisitorHandler
func NewVisitorHandler(visitorSvc service.VisitorService) *VisitorHandler {
	return &VisitorHandler{visitorSvc: visitorSvc}
}

// RegisterVisitor 访客登记
// POST /api/v1/visitors
func (h *VisitorHandler) RegisterVisitor(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.RegisterVisitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	v, err := h.visitorSvc.Register(c.Request.Context(), actor, &req)
	if err != nil {
		writeServiceError(c, err, visitorCodeBase)
		return
	}

	response.Created(c, v)
}

// ListVisitors 访客列表
// GET /api/v1/visitors
func (h *VisitorHandler) ListVisitors(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.VisitorListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	req.Normalize()

	list, total, err := h.visitorSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		writeServiceError(c, err, visitorCodeBase)
		return
	}

	response.OKPage(c, list, total, req.Page, req.PageSize)
}

// GetVisitor 访客详情
// GET /api/v1/visitors/:id
func (h *VisitorHandler) GetVisitor(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := mustIDParam(c, visitorCodeBase, service.ErrVisitorNotFound)
	if !ok {
		return
	}

	v, err := h.visitorSvc.Get(c.Request.Context(), actor, id)
	if err != nil {
		writeServiceError(c, err, visitorCodeBase)
		return
	}

	response.OK(c, v)
}

// CheckIn 访客签到
// POST /api/v1/visitors/:id/check-in
func (h *VisitorHandler) CheckIn(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := mustIDParam(c, visitorCodeBase, service.ErrVisitorNotFound)
	if !ok {
		return
	}

	v, err := h.visitorSvc.CheckIn(c.Request.Context(), actor, id)
	if err != nil {
		writeServiceError(c, err, visitorCodeBase)
		return
	}

	response.OK(c, v)
}

// CheckOut 访客签退
// POST /api/v1/visitors/:id/check-out
func (h *VisitorHandler) CheckOut(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := mustIDParam(c, visitorCodeBase, service.ErrVisitorNotFound)
	if !ok {
		return
	}

	v, err := h.visitorSvc.CheckOut(c.Request.Context(), actor, id)
	if err != nil {
		writeServiceError(c, err, visitorCodeBase)
		return
	}

	response.OK(c, v)
}

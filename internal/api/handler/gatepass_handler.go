package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/service"
	"gatepass-nexus/backend/pkg/response"
)

const gatepassCodeBase = 21000

// GatepassHandler 出门条模块 HTTP 处理器
type GatepassHandler struct {
	gatepassSvc service.GatepassService
}

// NewGatepassHandler 创建 GatepassHandler
func NewGatepassHandler(gatepassSvc service.GatepassService) *GatepassHandler {
	return &GatepassHandler{gatepassSvc: gatepassSvc}
}

// CreateGatepass 申请出门条
// POST /api/v1/gatepasses
func (h *GatepassHandler) CreateGatepass(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateGatepassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	gp, err := h.gatepassSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		writeServiceError(c, err, gatepassCodeBase)
		return
	}

	response.Created(c, gp)
}

// ListGatepasses 出门条列表
// GET /api/v1/gatepasses
func (h *GatepassHandler) ListGatepasses(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.GatepassListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	req.Normalize()

	list, total, err := h.gatepassSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		writeServiceError(c, err, gatepassCodeBase)
		return
	}

	response.OKPage(c, list, total, req.Page, req.PageSize)
}

// GetGatepass 出门条详情
// GET /api/v1/gatepasses/:id
func (h *GatepassHandler) GetGatepass(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := mustIDParam(c, gatepassCodeBase, service.ErrGatepassNotFound)
	if !ok {
		return
	}

	gp, err := h.gatepassSvc.Get(c.Request.Context(), actor, id)
	if err != nil {
		writeServiceError(c, err, gatepassCodeBase)
		return
	}

	response.OK(c, gp)
}

// ApproveGatepass 批准出门条
// POST /api/v1/gatepasses/:id/approve
func (h *GatepassHandler) ApproveGatepass(c *gin.Context) {
	h.review(c, h.gatepassSvc.Approve)
}

// RejectGatepass 驳回出门条
// POST /api/v1/gatepasses/:id/reject
func (h *GatepassHandler) RejectGatepass(c *gin.Context) {
	h.review(c, h.gatepassSvc.Reject)
}

type gatepassAction func(ctx context.Context, actor dto.Actor, id string) (*dto.GatepassResponse, error)

func (h *GatepassHandler) review(c *gin.Context, action gatepassAction) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := mustIDParam(c, gatepassCodeBase, service.ErrGatepassNotFound)
	if !ok {
		return
	}

	gp, err := action(c.Request.Context(), actor, id)
	if err != nil {
		writeServiceError(c, err, gatepassCodeBase)
		return
	}

	response.OK(c, gp)
}

// ConfirmExit 门岗按编号确认出门
// POST /api/v1/gatepasses/exit
func (h *GatepassHandler) ConfirmExit(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.ConfirmExitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	gp, err := h.gatepassSvc.ConfirmExit(c.Request.Context(), actor, req.Code)
	if err != nil {
		writeServiceError(c, err, gatepassCodeBase)
		return
	}

	response.OK(c, gp)
}

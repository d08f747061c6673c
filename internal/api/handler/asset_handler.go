package handler

import (
	"github.com/gin-gonic/gin"

	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/service"
	"gatepass-nexus/backend/pkg/response"
)

const assetCodeBase = 23000

// AssetHandler 资产模块 HTTP 处理器
type AssetHandler struct {
	assetSvc service.AssetService
}

// NewAssetHandler 创建 AssetHandler
func NewAssetHandler(assetSvc service.AssetService) *AssetHandler {
	return &AssetHandler{assetSvc: assetSvc}
}

// AddAsset 新增资产
// POST /api/v1/assets
func (h *AssetHandler) AddAsset(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	a, err := h.assetSvc.Add(c.Request.Context(), actor, &req)
	if err != nil {
		writeServiceError(c, err, assetCodeBase)
		return
	}

	response.Created(c, a)
}

// ListAssets 资产列表
// GET /api/v1/assets
func (h *AssetHandler) ListAssets(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.AssetListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	req.Normalize()

	list, total, err := h.assetSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		writeServiceError(c, err, assetCodeBase)
		return
	}

	response.OKPage(c, list, total, req.Page, req.PageSize)
}

// ListAvailableAssets 可分配资产
// GET /api/v1/assets/available
func (h *AssetHandler) ListAvailableAssets(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.assetSvc.ListAvailable(c.Request.Context(), actor)
	if err != nil {
		writeServiceError(c, err, assetCodeBase)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetAsset 资产详情
// GET /api/v1/assets/:id
func (h *AssetHandler) GetAsset(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := mustIDParam(c, assetCodeBase, service.ErrAssetNotFound)
	if !ok {
		return
	}

	a, err := h.assetSvc.Get(c.Request.Context(), actor, id)
	if err != nil {
		writeServiceError(c, err, assetCodeBase)
		return
	}

	response.OK(c, a)
}

// AssignAsset 分配资产给员工
// POST /api/v1/assets/:id/assign
func (h *AssetHandler) AssignAsset(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := mustIDParam(c, assetCodeBase, service.ErrAssetNotFound)
	if !ok {
		return
	}

	var req dto.AssignAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	ea, err := h.assetSvc.Assign(c.Request.Context(), actor, id, &req)
	if err != nil {
		writeServiceError(c, err, assetCodeBase)
		return
	}

	response.Created(c, ea)
}

// SetAssetStatus 直接改写资产状态
// PUT /api/v1/assets/:id/status
func (h *AssetHandler) SetAssetStatus(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := mustIDParam(c, assetCodeBase, service.ErrAssetNotFound)
	if !ok {
		return
	}

	var req dto.SetAssetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	a, err := h.assetSvc.SetStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		writeServiceError(c, err, assetCodeBase)
		return
	}

	response.OK(c, a)
}

// ListAssignments 资产分配历史
// GET /api/v1/assets/:id/assignments
func (h *AssetHandler) ListAssignments(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := mustIDParam(c, assetCodeBase, service.ErrAssetNotFound)
	if !ok {
		return
	}

	list, err := h.assetSvc.ListAssignments(c.Request.Context(), actor, id)
	if err != nil {
		writeServiceError(c, err, assetCodeBase)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ReturnAsset 归还资产
// POST /api/v1/assignments/:id/return
func (h *AssetHandler) ReturnAsset(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := mustIDParam(c, assetCodeBase, service.ErrAssignmentNotFound)
	if !ok {
		return
	}

	ea, err := h.assetSvc.Return(c.Request.Context(), actor, id)
	if err != nil {
		writeServiceError(c, err, assetCodeBase)
		return
	}

	response.OK(c, ea)
}

package handler

import (
	"github.com/gin-gonic/gin"

	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/service"
	"gatepass-nexus/backend/pkg/response"
)

const employeeCodeBase = 24000

// EmployeeHandler 员工档案 HTTP 处理器
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

// NewEmployeeHandler 创建 EmployeeHandler
func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

// AddEmployee 新增员工
// POST /api/v1/employees
func (h *EmployeeHandler) AddEmployee(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	e, err := h.employeeSvc.Add(c.Request.Context(), actor, &req)
	if err != nil {
		writeServiceError(c, err, employeeCodeBase)
		return
	}

	response.Created(c, e)
}

// ListEmployees 员工列表
// GET /api/v1/employees
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.EmployeeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	req.Normalize()

	list, total, err := h.employeeSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		writeServiceError(c, err, employeeCodeBase)
		return
	}

	response.OKPage(c, list, total, req.Page, req.PageSize)
}

// GetEmployee 员工详情
// GET /api/v1/employees/:id
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := mustIDParam(c, employeeCodeBase, service.ErrEmployeeNotFound)
	if !ok {
		return
	}

	e, err := h.employeeSvc.Get(c.Request.Context(), actor, id)
	if err != nil {
		writeServiceError(c, err, employeeCodeBase)
		return
	}

	response.OK(c, e)
}

// ListEmployeeAssets 员工当前持有的资产
// GET /api/v1/employees/:id/assets
func (h *EmployeeHandler) ListEmployeeAssets(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := mustIDParam(c, employeeCodeBase, service.ErrEmployeeNotFound)
	if !ok {
		return
	}

	list, err := h.employeeSvc.ListActiveAssets(c.Request.Context(), actor, id)
	if err != nil {
		writeServiceError(c, err, employeeCodeBase)
		return
	}

	response.OK(c, gin.H{"list": list})
}

package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/service"
	"gatepass-nexus/backend/pkg/response"
)

const (
	reportCodeBase = 28000

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ReportHandler 报表导出 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// ExportGatepasses 导出出门条 Excel
// GET /api/v1/reports/gatepasses.xlsx
func (h *ReportHandler) ExportGatepasses(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.GatepassListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.reportSvc.ExportGatepasses(c.Request.Context(), actor, &req)
	if err != nil {
		writeServiceError(c, err, reportCodeBase)
		return
	}

	// 设置下载响应头
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExitCalendar 已批准出门计划 iCalendar
// GET /api/v1/reports/exits.ics
func (h *ReportHandler) ExitCalendar(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	cal, err := h.reportSvc.ExitCalendar(c.Request.Context(), actor)
	if err != nil {
		writeServiceError(c, err, reportCodeBase)
		return
	}

	c.Header("Content-Disposition", "inline; filename=exits.ics")
	c.Data(http.StatusOK, icsContentType, []byte(cal))
}

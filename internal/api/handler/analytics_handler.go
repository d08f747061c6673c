package handler

import (
	"github.com/gin-gonic/gin"

	"gatepass-nexus/backend/internal/service"
	"gatepass-nexus/backend/pkg/response"
)

const analyticsCodeBase = 27000

// AnalyticsHandler 仪表盘 HTTP 处理器
type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
}

// NewAnalyticsHandler 创建 AnalyticsHandler
func NewAnalyticsHandler(analyticsSvc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// Dashboard 仪表盘统计
// GET /api/v1/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	d, err := h.analyticsSvc.Dashboard(c.Request.Context(), actor)
	if err != nil {
		writeServiceError(c, err, analyticsCodeBase)
		return
	}

	response.OK(c, d)
}

package dto

import "gatepass-nexus/backend/internal/analytics"

// DashboardResponse 仪表盘数据
type DashboardResponse struct {
	Scope   string             `json:"scope"` // all | own
	Summary analytics.Summary  `json:"summary"`
	Recent  []GatepassResponse `json:"recent"`
}

package dto

// ── 出门条模块 DTO ──

// CreateGatepassRequest 申请出门条
type CreateGatepassRequest struct {
	Reason       string  `json:"reason"        binding:"required,max=1000"`
	ItemsCarried *string `json:"items_carried" binding:"omitempty,max=1000"`
	ExitTime     string  `json:"exit_time"     binding:"required"` // RFC3339
}

// ConfirmExitRequest 门岗确认出门
type ConfirmExitRequest struct {
	Code string `json:"code" binding:"required,max=32"`
}

// GatepassListRequest 出门条列表查询参数
type GatepassListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected issued exited"`
	Search string `form:"search" binding:"omitempty,max=100"`
	PageRequest
}

// GatepassResponse 出门条响应
type GatepassResponse struct {
	ID            string  `json:"id"`
	GatepassCode  string  `json:"gatepass_code"`
	RequesterID   string  `json:"requester_id"`
	RequesterName string  `json:"requester_name"`
	Department    string  `json:"department,omitempty"`
	Reason        string  `json:"reason"`
	ItemsCarried  *string `json:"items_carried,omitempty"`
	ExitTime      string  `json:"exit_time"`
	Status        string  `json:"status"`
	ApprovedBy    *string `json:"approved_by,omitempty"`
	ApprovedAt    *string `json:"approved_at,omitempty"`
	ExitedBy      *string `json:"exited_by,omitempty"`
	ExitedAt      *string `json:"exited_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

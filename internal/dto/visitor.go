package dto

// ── 访客模块 DTO ──

// RegisterVisitorRequest 访客登记
type RegisterVisitorRequest struct {
	FullName         string  `json:"full_name"         binding:"required,max=128"`
	PurposeOfVisit   string  `json:"purpose_of_visit"  binding:"required,max=1000"`
	Company          *string `json:"company"           binding:"omitempty,max=128"`
	Phone            *string `json:"phone"             binding:"omitempty,max=32"`
	Email            *string `json:"email"             binding:"omitempty,email"`
	HostEmployeeID   *string `json:"host_employee_id"  binding:"omitempty,uuid"`
	ExpectedCheckout *string `json:"expected_checkout"` // RFC3339
}

// VisitorListRequest 访客列表查询参数
type VisitorListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=pending checked_in checked_out expired"`
	Search string `form:"search" binding:"omitempty,max=100"`
	PageRequest
}

// VisitorResponse 访客响应
type VisitorResponse struct {
	ID               string  `json:"id"`
	VisitorCode      string  `json:"visitor_code"`
	FullName         string  `json:"full_name"`
	Company          *string `json:"company,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Email            *string `json:"email,omitempty"`
	PurposeOfVisit   string  `json:"purpose_of_visit"`
	HostEmployeeID   *string `json:"host_employee_id,omitempty"`
	HostEmployeeCode string  `json:"host_employee_code,omitempty"`
	Status           string  `json:"status"`
	CheckInTime      *string `json:"check_in_time,omitempty"`
	CheckOutTime     *string `json:"check_out_time,omitempty"`
	ExpectedCheckout *string `json:"expected_checkout,omitempty"`
	CheckedInBy      *string `json:"checked_in_by,omitempty"`
	CheckedOutBy     *string `json:"checked_out_by,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

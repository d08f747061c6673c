package dto

// ── 员工模块 DTO ──

// CreateEmployeeRequest 新增员工
type CreateEmployeeRequest struct {
	EmployeeCode string  `json:"employee_code" binding:"omitempty,max=32"` // 为空时自动生成
	Department   string  `json:"department"    binding:"required,max=128"`
	Position     string  `json:"position"      binding:"omitempty,max=128"`
	HireDate     *string `json:"hire_date"`    // 2006-01-02
	UserID       *string `json:"user_id"       binding:"omitempty,max=64"`
}

// EmployeeListRequest 员工列表查询参数
type EmployeeListRequest struct {
	Search     string `form:"search"      binding:"omitempty,max=100"`
	ActiveOnly bool   `form:"active_only"`
	PageRequest
}

// EmployeeResponse 员工响应
type EmployeeResponse struct {
	ID           string  `json:"id"`
	EmployeeCode string  `json:"employee_code"`
	UserID       *string `json:"user_id,omitempty"`
	Department   string  `json:"department"`
	Position     string  `json:"position,omitempty"`
	HireDate     *string `json:"hire_date,omitempty"`
	IsActive     bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at"`
}

package dto

// ── 资产模块 DTO ──

// CreateAssetRequest 新增资产
type CreateAssetRequest struct {
	AssetType       string  `json:"asset_type"       binding:"required"`
	SerialNumber    string  `json:"serial_number"    binding:"required,max=128"`
	Brand           *string `json:"brand"            binding:"omitempty,max=64"`
	Model           *string `json:"model"            binding:"omitempty,max=64"`
	CurrentLocation *string `json:"current_location" binding:"omitempty,max=128"`
	PurchaseDate    *string `json:"purchase_date"`   // 2006-01-02
	WarrantyExpiry  *string `json:"warranty_expiry"` // 2006-01-02
}

// AssignAssetRequest 分配资产
type AssignAssetRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	Notes      *string `json:"notes"       binding:"omitempty,max=1000"`
}

// SetAssetStatusRequest 直接改写资产状态
type SetAssetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AssetListRequest 资产列表查询参数
type AssetListRequest struct {
	Status    string `form:"status"     binding:"omitempty,oneof=available assigned maintenance retired"`
	AssetType string `form:"asset_type" binding:"omitempty,max=16"`
	Search    string `form:"search"     binding:"omitempty,max=100"`
	PageRequest
}

// AssetResponse 资产响应
type AssetResponse struct {
	ID              string  `json:"id"`
	AssetCode       string  `json:"asset_code"`
	AssetType       string  `json:"asset_type"`
	Brand           *string `json:"brand,omitempty"`
	Model           *string `json:"model,omitempty"`
	SerialNumber    string  `json:"serial_number"`
	Status          string  `json:"status"`
	CurrentLocation *string `json:"current_location,omitempty"`
	PurchaseDate    *string `json:"purchase_date,omitempty"`
	WarrantyExpiry  *string `json:"warranty_expiry,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// AssignmentResponse 分配记录响应
type AssignmentResponse struct {
	ID           string         `json:"id"`
	EmployeeID   string         `json:"employee_id"`
	EmployeeCode string         `json:"employee_code,omitempty"`
	AssetID      string         `json:"asset_id"`
	Asset        *AssetResponse `json:"asset,omitempty"`
	AssignedBy   string         `json:"assigned_by"`
	AssignedDate string         `json:"assigned_date"`
	ReturnedDate *string        `json:"returned_date,omitempty"`
	IsActive     bool           `json:"is_active"`
	Notes        *string        `json:"notes,omitempty"`
}

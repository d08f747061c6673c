package model

import "time"

// 资产状态
const (
	AssetAvailable   = "available"
	AssetAssigned    = "assigned"
	AssetMaintenance = "maintenance"
	AssetRetired     = "retired"
)

// AssetTypes 允许的硬件类别
var AssetTypes = []string{"laptop", "desktop", "tablet", "phone", "monitor", "keyboard", "mouse", "other"}

// Asset 资产（表 assets）
type Asset struct {
	ID              string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AssetCode       string     `gorm:"type:varchar(32);not null;uniqueIndex"          json:"asset_code"`
	AssetType       string     `gorm:"type:varchar(16);not null"                      json:"asset_type"`
	Brand           *string    `gorm:"type:varchar(64)"                               json:"brand,omitempty"`
	Model           *string    `gorm:"type:varchar(64)"                               json:"model,omitempty"`
	SerialNumber    string     `gorm:"type:varchar(128);not null;uniqueIndex"         json:"serial_number"`
	Status          string     `gorm:"type:varchar(16);not null;default:'available'"  json:"status"` // available | assigned | maintenance | retired
	CurrentLocation *string    `gorm:"type:varchar(128)"                              json:"current_location,omitempty"`
	PurchaseDate    *time.Time `gorm:"type:date"                                      json:"purchase_date,omitempty"`
	WarrantyExpiry  *time.Time `gorm:"type:date"                                      json:"warranty_expiry,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Asset) TableName() string { return "assets" }

// EmployeeAsset 资产分配记录（表 employee_assets）
// 同一资产最多一条 is_active=true 的记录（部分唯一索引保证）
type EmployeeAsset struct {
	ID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID   string     `gorm:"type:uuid;not null"                             json:"employee_id"`
	AssetID      string     `gorm:"type:uuid;not null"                             json:"asset_id"`
	AssignedBy   string     `gorm:"type:varchar(64);not null"                      json:"assigned_by"`
	AssignedDate time.Time  `gorm:"not null"                                       json:"assigned_date"`
	ReturnedDate *time.Time `json:"returned_date,omitempty"`
	IsActive     bool       `gorm:"not null;default:true"                          json:"is_active"`
	Notes        *string    `gorm:"type:text"                                      json:"notes,omitempty"`
	BaseModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:ID" json:"employee,omitempty"`
	Asset    *Asset    `gorm:"foreignKey:AssetID;references:ID"    json:"asset,omitempty"`
}

// TableName 指定表名
func (EmployeeAsset) TableName() string { return "employee_assets" }

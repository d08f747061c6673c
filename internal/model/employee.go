package model

import "time"

// Employee 员工档案（表 employees）
type Employee struct {
	ID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeCode string     `gorm:"type:varchar(32);not null;uniqueIndex"          json:"employee_code"`
	UserID       *string    `gorm:"type:varchar(64)"                               json:"user_id,omitempty"`
	Department   string     `gorm:"type:varchar(128);not null"                     json:"department"`
	Position     string     `gorm:"type:varchar(128)"                              json:"position,omitempty"`
	HireDate     *time.Time `gorm:"type:date"                                      json:"hire_date,omitempty"`
	IsActive     bool       `gorm:"not null;default:true"                          json:"is_active"`
	FaceEncoding *string    `gorm:"type:text"                                      json:"-"`
	BaseModel
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

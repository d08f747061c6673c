package model

import "time"

// 访客状态
const (
	VisitorPending    = "pending"
	VisitorCheckedIn  = "checked_in"
	VisitorCheckedOut = "checked_out"
	VisitorExpired    = "expired"
)

// Visitor 访客登记（表 visitors）
type Visitor struct {
	ID               string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	VisitorCode      string     `gorm:"type:varchar(32);not null;uniqueIndex"          json:"visitor_code"`
	FullName         string     `gorm:"type:varchar(128);not null"                     json:"full_name"`
	Company          *string    `gorm:"type:varchar(128)"                              json:"company,omitempty"`
	Phone            *string    `gorm:"type:varchar(32)"                               json:"phone,omitempty"`
	Email            *string    `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	PurposeOfVisit   string     `gorm:"type:text;not null"                             json:"purpose_of_visit"`
	HostEmployeeID   *string    `gorm:"type:uuid"                                      json:"host_employee_id,omitempty"`
	Status           string     `gorm:"type:varchar(16);not null;default:'pending'"    json:"status"` // pending | checked_in | checked_out | expired
	CheckInTime      *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime     *time.Time `json:"check_out_time,omitempty"`
	ExpectedCheckout *time.Time `json:"expected_checkout,omitempty"`
	CheckedInBy      *string    `gorm:"type:varchar(64)"                               json:"checked_in_by,omitempty"`
	CheckedOutBy     *string    `gorm:"type:varchar(64)"                               json:"checked_out_by,omitempty"`
	FaceEncoding     *string    `gorm:"type:text"                                      json:"-"`
	BaseModel

	// 关联
	HostEmployee *Employee `gorm:"foreignKey:HostEmployeeID;references:ID" json:"host_employee,omitempty"`
}

// TableName 指定表名
func (Visitor) TableName() string { return "visitors" }

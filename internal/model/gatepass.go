package model

import "time"

// 出门条状态
const (
	GatepassPending  = "pending"
	GatepassApproved = "approved"
	GatepassRejected = "rejected"
	GatepassIssued   = "issued"
	GatepassExited   = "exited"
)

// Gatepass 出门条（表 gatepasses）
type Gatepass struct {
	ID            string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	GatepassCode  string     `gorm:"type:varchar(32);not null;uniqueIndex"          json:"gatepass_code"`
	RequesterID   string     `gorm:"type:varchar(64);not null"                      json:"requester_id"`
	RequesterName string     `gorm:"type:varchar(128);not null"                     json:"requester_name"`
	Department    string     `gorm:"type:varchar(128)"                              json:"department,omitempty"`
	Reason        string     `gorm:"type:text;not null"                             json:"reason"`
	ItemsCarried  *string    `gorm:"type:text"                                      json:"items_carried,omitempty"`
	ExitTime      time.Time  `gorm:"not null"                                       json:"exit_time"`
	Status        string     `gorm:"type:varchar(16);not null;default:'pending'"    json:"status"` // pending | approved | rejected | issued | exited
	ApprovedBy    *string    `gorm:"type:varchar(64)"                               json:"approved_by,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	ExitedBy      *string    `gorm:"type:varchar(64)"                               json:"exited_by,omitempty"`
	ExitedAt      *time.Time `json:"exited_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Gatepass) TableName() string { return "gatepasses" }

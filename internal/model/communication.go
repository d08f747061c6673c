package model

import "time"

// 收件方式
const (
	RecipientIndividual  = "individual"
	RecipientDepartment  = "department"
	RecipientAllStaff    = "all_staff"
	RecipientAllVisitors = "all_visitors"
)

// 优先级与消息类型默认值
const (
	PriorityNormal           = "normal"
	CommunicationTypeMessage = "message"
)

// Priorities 允许的优先级
var Priorities = []string{"low", "normal", "high", "urgent"}

// CommunicationTypes 允许的消息类型
var CommunicationTypes = []string{"message", "announcement", "alert", "notification"}

// Communication 内部消息（表 communications）
// 广播消息只存一行，由读取时的过滤条件解析到具体收件人
type Communication struct {
	ID                  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SenderID            string     `gorm:"type:varchar(64);not null"                      json:"sender_id"`
	RecipientType       string     `gorm:"type:varchar(16);not null"                      json:"recipient_type"` // individual | department | all_staff | all_visitors
	RecipientID         *string    `gorm:"type:varchar(64)"                               json:"recipient_id,omitempty"`
	RecipientDepartment *string    `gorm:"type:varchar(128)"                              json:"recipient_department,omitempty"`
	Subject             string     `gorm:"type:varchar(255);not null"                     json:"subject"`
	Message             string     `gorm:"type:text;not null"                             json:"message"`
	Priority            string     `gorm:"type:varchar(16);not null;default:'normal'"     json:"priority"`
	CommunicationType   string     `gorm:"type:varchar(16);not null;default:'message'"    json:"communication_type"`
	IsRead              bool       `gorm:"not null;default:false"                         json:"is_read"`
	ReadAt              *time.Time `json:"read_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Communication) TableName() string { return "communications" }

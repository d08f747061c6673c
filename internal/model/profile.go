package model

// Profile 身份档案（表 profiles）
// 由外部身份服务维护，本服务只读
type Profile struct {
	ID         string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     string `gorm:"type:varchar(64);not null;uniqueIndex"          json:"user_id"`
	FullName   string `gorm:"type:varchar(128);not null"                     json:"full_name"`
	Email      string `gorm:"type:varchar(255);not null"                     json:"email"`
	Department string `gorm:"type:varchar(128)"                              json:"department,omitempty"`
	Role       string `gorm:"type:varchar(32);not null;default:'staff'"      json:"role"` // admin | security_officer | staff
	BaseModel
}

// TableName 指定表名
func (Profile) TableName() string { return "profiles" }

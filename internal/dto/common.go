package dto

// Actor 当前操作者身份，由 JWT 声明解析而来
type Actor struct {
	UserID     string
	Name       string
	Department string
	Role       string
}

// PageRequest 通用分页参数
type PageRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Normalize 填充分页默认值
func (p *PageRequest) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
}

// TimeLayout 响应中的时间格式
const TimeLayout = "2006-01-02T15:04:05Z"

// DateLayout 日期字段格式
const DateLayout = "2006-01-02"

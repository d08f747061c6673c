package dto

// ── 消息模块 DTO ──

// SendCommunicationRequest 发送消息
type SendCommunicationRequest struct {
	RecipientType       string `json:"recipient_type"       binding:"required"`
	RecipientID         string `json:"recipient_id"         binding:"omitempty,max=64"`
	RecipientDepartment string `json:"recipient_department" binding:"omitempty,max=128"`
	Subject             string `json:"subject"`
	Message             string `json:"message"`
	Priority            string `json:"priority"`
	CommunicationType   string `json:"communication_type"`
}

// CommunicationListRequest 消息列表查询参数
type CommunicationListRequest struct {
	Search string `form:"search" binding:"omitempty,max=100"`
	PageRequest
}

// CommunicationResponse 消息响应
type CommunicationResponse struct {
	ID                  string  `json:"id"`
	SenderID            string  `json:"sender_id"`
	RecipientType       string  `json:"recipient_type"`
	RecipientID         *string `json:"recipient_id,omitempty"`
	RecipientDepartment *string `json:"recipient_department,omitempty"`
	Subject             string  `json:"subject"`
	Message             string  `json:"message"`
	Priority            string  `json:"priority"`
	CommunicationType   string  `json:"communication_type"`
	IsRead              bool    `json:"is_read"`
	ReadAt              *string `json:"read_at,omitempty"`
	CreatedAt           string  `json:"created_at"`
}

// UnreadCountResponse 未读数
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

package dto

// ProfileResponse 身份档案响应
type ProfileResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role"`
}

// MeResponse 当前操作者
type MeResponse struct {
	UserID     string           `json:"user_id"`
	Name       string           `json:"name"`
	Department string           `json:"department,omitempty"`
	Role       string           `json:"role"`
	Profile    *ProfileResponse `json:"profile,omitempty"`
}

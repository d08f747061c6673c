package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/service"
	"gatepass-nexus/backend/pkg/response"
)

// MustGetActor 从 Gin 上下文中提取当前操作者。
// 如果 JWT 中间件未正确注入 user_id 或 role，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetActor(c *gin.Context) (dto.Actor, bool) {
	userID := c.GetString("user_id")
	role := c.GetString("role")
	if userID == "" || role == "" {
		response.Unauthorized(c, 10002, "未认证")
		return dto.Actor{}, false
	}
	return dto.Actor{
		UserID:     userID,
		Name:       c.GetString("name"),
		Department: c.GetString("department"),
		Role:       role,
	}, true
}

// mustIDParam 读取路径参数 :id
// 所有主键都是 UUID，格式不合法的 ID 不可能命中记录，直接按 notFound 写入 404
func mustIDParam(c *gin.Context, base int, notFound error) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeServiceError(c, notFound, base)
		return "", false
	}
	return id.String(), true
}

// writeServiceError 按错误分类映射 HTTP 状态，业务码为模块基数加分类偏移
//
//	+1 参数校验  +3 无权限  +4 不存在  +9 状态冲突
func writeServiceError(c *gin.Context, err error, base int) {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.BadRequest(c, base+1, err.Error())
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, base+3, err.Error())
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, base+4, err.Error())
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrConflict):
		response.Conflict(c, base+9, err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

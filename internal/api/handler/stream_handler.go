package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/realtime"
	"gatepass-nexus/backend/internal/service"
	"gatepass-nexus/backend/pkg/response"
)

const (
	streamCodeBase   = 29000
	streamBuffer     = 16
	snapshotPageSize = 100
)

type snapshotFetcher func(ctx context.Context, actor dto.Actor) (interface{}, error)

// StreamHandler 实时列表推送（Server-Sent Events）
// 每条变更通知触发一次整表重取，推送 snapshot 事件
type StreamHandler struct {
	hub      *realtime.Hub
	fetchers map[string]snapshotFetcher
	logger   *zap.Logger
}

// NewStreamHandler 创建 StreamHandler，hub 为 nil 时接口返回 503
func NewStreamHandler(svc *service.Service, hub *realtime.Hub, logger *zap.Logger) *StreamHandler {
	page := dto.PageRequest{Page: 1, PageSize: snapshotPageSize}
	return &StreamHandler{
		hub:    hub,
		logger: logger,
		fetchers: map[string]snapshotFetcher{
			realtime.TableGatepasses: func(ctx context.Context, actor dto.Actor) (interface{}, error) {
				list, _, err := svc.Gatepass.List(ctx, actor, &dto.GatepassListRequest{PageRequest: page})
				return list, err
			},
			realtime.TableVisitors: func(ctx context.Context, actor dto.Actor) (interface{}, error) {
				list, _, err := svc.Visitor.List(ctx, actor, &dto.VisitorListRequest{PageRequest: page})
				return list, err
			},
			realtime.TableAssets: func(ctx context.Context, actor dto.Actor) (interface{}, error) {
				list, _, err := svc.Asset.List(ctx, actor, &dto.AssetListRequest{PageRequest: page})
				return list, err
			},
			realtime.TableEmployees: func(ctx context.Context, actor dto.Actor) (interface{}, error) {
				list, _, err := svc.Employee.List(ctx, actor, &dto.EmployeeListRequest{PageRequest: page})
				return list, err
			},
			realtime.TableCommunications: func(ctx context.Context, actor dto.Actor) (interface{}, error) {
				list, _, err := svc.Communication.Inbox(ctx, actor, &dto.CommunicationListRequest{PageRequest: page})
				return list, err
			},
		},
	}
}

// Stream 订阅某张表的实时列表
// GET /api/v1/stream/:table
func (h *StreamHandler) Stream(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	table := c.Param("table")
	fetch, ok := h.fetchers[table]
	if !ok {
		response.NotFound(c, streamCodeBase+4, "不支持订阅该数据表")
		return
	}
	if h.hub == nil {
		response.Error(c, http.StatusServiceUnavailable, streamCodeBase+3, "实时推送未启用")
		return
	}

	ctx := c.Request.Context()
	// 先订阅再首次拉取，避免漏掉两者之间的变更
	sub := h.hub.Subscribe(table, streamBuffer)
	defer h.hub.Unsubscribe(sub)

	// 首次拉取失败（如无权限）按普通接口返回错误，不建立事件流
	initial, err := fetch(ctx, actor)
	if err != nil {
		writeServiceError(c, err, streamCodeBase)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	push := func(data interface{}) error {
		c.SSEvent("snapshot", data)
		c.Writer.Flush()
		return ctx.Err()
	}
	if err := push(initial); err != nil {
		return
	}

	refresher := realtime.NewRefresher(
		func(ctx context.Context) (interface{}, error) { return fetch(ctx, actor) },
		push,
		h.logger,
	)
	if err := refresher.Follow(ctx, sub.C); err != nil && ctx.Err() == nil {
		h.logger.Warn("实时推送中断", zap.String("table", table), zap.String("user_id", actor.UserID), zap.Error(err))
	}
}

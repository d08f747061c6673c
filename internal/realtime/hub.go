// Package realtime 实现表级变更通知：进程内 Hub 广播、Redis 跨实例扇出，
// 以及"收到通知即整表重取"的 Refresher。
package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 表名
const (
	TableGatepasses     = "gatepasses"
	TableVisitors       = "visitors"
	TableAssets         = "assets"
	TableEmployees      = "employees"
	TableCommunications = "communications"
)

// 变更类型
const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
)

// Change 一条表级变更通知，只携带定位信息，订阅方需要自行重取数据
type Change struct {
	Table string    `json:"table"`
	Op    string    `json:"op"`
	ID    string    `json:"id"`
	At    time.Time `json:"at"`
}

// Publisher 变更发布方，服务层写入成功后调用
type Publisher interface {
	Publish(ctx context.Context, c Change)
}

// Subscriber Hub 上的一个订阅
type Subscriber struct {
	ID    string
	Table string // 为空表示订阅全部表
	C     chan Change
}

// Hub 进程内变更广播
// 订阅方消费过慢时直接丢弃通知，通知是电平触发的，缓冲区中已有的待处理通知足以触发下一次重取
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]*Subscriber
	logger *zap.Logger
}

// NewHub 创建 Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{subs: make(map[string]*Subscriber), logger: logger}
}

// Subscribe 订阅指定表的变更，buffer 至少为 1
func (h *Hub) Subscribe(table string, buffer int) *Subscriber {
	if buffer < 1 {
		buffer = 1
	}
	s := &Subscriber{ID: uuid.NewString(), Table: table, C: make(chan Change, buffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[s.ID] = s
	return s
}

// Unsubscribe 取消订阅并关闭通道
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s.ID]; !ok {
		return
	}
	delete(h.subs, s.ID)
	close(s.C)
}

// Broadcast 向匹配的订阅方投递，不阻塞
func (h *Hub) Broadcast(c Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subs {
		if s.Table != "" && s.Table != c.Table {
			continue
		}
		select {
		case s.C <- c:
		default:
			h.logger.Debug("订阅方缓冲已满，丢弃变更通知",
				zap.String("subscriber", s.ID),
				zap.String("table", c.Table),
			)
		}
	}
}

// Publish 实现 Publisher，仅在本进程内广播
func (h *Hub) Publish(_ context.Context, c Change) {
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}
	h.Broadcast(c)
}

// Len 当前订阅数
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
)

const channelPrefix = "changes:"

// Broker 跨实例消息通道（由 pkg/redis.Client 实现）
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, pattern string, fn func(channel string, payload []byte)) error
}

// Bus 变更总线
// 配置了 Broker 时变更先发到 Redis 的 changes:<table> 频道，再由 Run 订阅回灌本地 Hub，
// 多实例部署下每个实例都能收到其他实例的写入；未配置时直接本地广播
type Bus struct {
	hub    *Hub
	broker Broker
	logger *zap.Logger
}

// NewBus 创建变更总线，broker 可为 nil
func NewBus(hub *Hub, broker Broker, logger *zap.Logger) *Bus {
	return &Bus{hub: hub, broker: broker, logger: logger}
}

// Hub 返回本地 Hub
func (b *Bus) Hub() *Hub { return b.hub }

// Publish 发布变更，Redis 发布失败时退化为本地广播
func (b *Bus) Publish(ctx context.Context, c Change) {
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}
	if b.broker == nil {
		b.hub.Broadcast(c)
		return
	}

	payload, err := json.Marshal(c)
	if err != nil {
		b.logger.Error("序列化变更通知失败", zap.Error(err))
		b.hub.Broadcast(c)
		return
	}
	if err := b.broker.Publish(ctx, channelPrefix+c.Table, payload); err != nil {
		b.logger.Warn("发布变更到 Redis 失败，改为本地广播", zap.String("table", c.Table), zap.Error(err))
		b.hub.Broadcast(c)
	}
}

// Run 订阅 Redis 变更频道并转发到本地 Hub，阻塞直到 ctx 取消
func (b *Bus) Run(ctx context.Context) error {
	if b.broker == nil {
		<-ctx.Done()
		return nil
	}

	b.logger.Info("变更总线已启动", zap.String("pattern", channelPrefix+"*"))
	return b.broker.Subscribe(ctx, channelPrefix+"*", func(channel string, payload []byte) {
		var c Change
		if err := json.Unmarshal(payload, &c); err != nil {
			b.logger.Warn("忽略无法解析的变更通知", zap.String("channel", channel), zap.Error(err))
			return
		}
		if c.Table == "" {
			c.Table = strings.TrimPrefix(channel, channelPrefix)
		}
		b.hub.Broadcast(c)
	})
}

package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gatepass-nexus/backend/config"
)

// Client Redis 客户端封装
// 用于写接口限流、业务编号日计数器、变更广播与通知收件箱
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 限流 ──

const rateLimitPrefix = "ratelimit:"

// CheckRateLimit 固定窗口计数限流
// 返回 true 表示允许本次请求
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}

	fullKey := rateLimitPrefix + key
	n, err := c.rdb.Incr(ctx, fullKey).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, fullKey, window).Err(); err != nil {
			return false, err
		}
	}

	return n <= int64(limit), nil
}

// ── 编号计数器 ──

const sequencePrefix = "seq:"

// NextSequence 按前缀与日期递增的序号，计数器 48 小时后过期
func (c *Client) NextSequence(ctx context.Context, prefix, day string) (int64, error) {
	key := sequencePrefix + prefix + ":" + day
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 48*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// ── 发布订阅 ──

// Publish 向频道发布消息
func (c *Client) Publish(ctx context.Context, channel string, payload []byte) error {
	return c.rdb.Publish(ctx, channel, payload).Err()
}

// Subscribe 按模式订阅频道，消息通过回调交付，直到 ctx 取消
func (c *Client) Subscribe(ctx context.Context, pattern string, fn func(channel string, payload []byte)) error {
	sub := c.rdb.PSubscribe(ctx, pattern)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("订阅 %s 失败: %w", pattern, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			fn(msg.Channel, []byte(msg.Payload))
		}
	}
}

// ── 通知收件箱 ──

const noticePrefix = "notices:"

// maxNotices 每个用户保留的最近通知条数
const maxNotices = 100

// PushNotice 追加一条用户通知，仅保留最近 maxNotices 条
func (c *Client) PushNotice(ctx context.Context, userID string, payload []byte) error {
	key := noticePrefix + userID
	pipe := c.rdb.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, maxNotices-1)
	_, err := pipe.Exec(ctx)
	return err
}

// ListNotices 读取用户最近的通知（新的在前）
func (c *Client) ListNotices(ctx context.Context, userID string, limit int64) ([]string, error) {
	if limit <= 0 || limit > maxNotices {
		limit = maxNotices
	}
	return c.rdb.LRange(ctx, noticePrefix+userID, 0, limit-1).Result()
}

// Ping 健康检查
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}

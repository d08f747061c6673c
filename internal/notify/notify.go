// Package notify 面向用户的通知出口：操作成功或失败后发出提示，调用方不关心结果。
package notify

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// 通知级别
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Notice 一条用户通知
type Notice struct {
	UserID      string    `json:"user_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	At          time.Time `json:"at"`
}

// Sink 通知出口，失败只记录日志，不向调用方返回
type Sink interface {
	Notify(ctx context.Context, n Notice)
}

// ── 日志出口 ──

type logSink struct {
	logger *zap.Logger
}

// NewLogSink 将通知写入结构化日志
func NewLogSink(logger *zap.Logger) Sink {
	return &logSink{logger: logger}
}

func (s *logSink) Notify(_ context.Context, n Notice) {
	fields := []zap.Field{
		zap.String("title", n.Title),
		zap.String("description", n.Description),
		zap.String("severity", n.Severity),
	}
	if n.UserID != "" {
		fields = append(fields, zap.String("user_id", n.UserID))
	}
	if n.Severity == SeverityError {
		s.logger.Warn("用户通知", fields...)
		return
	}
	s.logger.Info("用户通知", fields...)
}

// ── Redis 收件箱出口 ──

// Inbox 用户通知收件箱（由 pkg/redis.Client 实现）
type Inbox interface {
	PushNotice(ctx context.Context, userID string, payload []byte) error
}

type inboxSink struct {
	inbox  Inbox
	logger *zap.Logger
}

// NewInboxSink 将带 UserID 的通知写入该用户的 Redis 收件箱
func NewInboxSink(inbox Inbox, logger *zap.Logger) Sink {
	return &inboxSink{inbox: inbox, logger: logger}
}

func (s *inboxSink) Notify(ctx context.Context, n Notice) {
	if n.UserID == "" {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		s.logger.Error("序列化通知失败", zap.Error(err))
		return
	}
	if err := s.inbox.PushNotice(ctx, n.UserID, payload); err != nil {
		s.logger.Warn("写入通知收件箱失败", zap.String("user_id", n.UserID), zap.Error(err))
	}
}

// ── 组合 ──

type multiSink []Sink

// Multi 依次投递到多个出口
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) Notify(ctx context.Context, n Notice) {
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}
	if n.Severity == "" {
		n.Severity = SeverityInfo
	}
	for _, s := range m {
		s.Notify(ctx, n)
	}
}

// Nop 丢弃所有通知
func Nop() Sink { return multiSink(nil) }

package realtime

import (
	"context"

	"go.uber.org/zap"
)

// Refresher 电平触发的列表同步器
// 每次收到通知都整表重取，不做增量合并；重取期间到达的多条通知合并为一次后续重取，
// 重取串行执行，因此最后一次重取的结果总是对应最新的存储状态
type Refresher[T any] struct {
	fetch  func(ctx context.Context) (T, error)
	apply  func(T) error
	logger *zap.Logger
}

// NewRefresher 创建同步器
// apply 返回错误时 Run 结束（例如客户端连接已断开）
func NewRefresher[T any](fetch func(ctx context.Context) (T, error), apply func(T) error, logger *zap.Logger) *Refresher[T] {
	return &Refresher[T]{fetch: fetch, apply: apply, logger: logger}
}

// Run 先做一次初始重取，然后每批通知重取一次，直到 ctx 取消或通道关闭
func (r *Refresher[T]) Run(ctx context.Context, changes <-chan Change) error {
	if err := r.refresh(ctx); err != nil {
		return err
	}
	return r.Follow(ctx, changes)
}

// Follow 只跟随后续通知，不做初始重取
// 调用方已自行完成首次拉取时使用（例如需要先把首次拉取的错误返回给客户端）
func (r *Refresher[T]) Follow(ctx context.Context, changes <-chan Change) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			drain(changes)
			if err := r.refresh(ctx); err != nil {
				return err
			}
		}
	}
}

func (r *Refresher[T]) refresh(ctx context.Context) error {
	data, err := r.fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		// 重取失败不中断订阅，等待下一条通知
		r.logger.Warn("重取列表失败", zap.Error(err))
		return nil
	}
	return r.apply(data)
}

// drain 取走通道里已积压的通知
func drain(changes <-chan Change) {
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

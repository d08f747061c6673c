package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	pkgerrors "gatepass-nexus/backend/pkg/errors"
)

// 业务编号前缀
const (
	CodePrefixGatepass = "GP"
	CodePrefixVisitor  = "VIS"
	CodePrefixAsset    = "AST"
	CodePrefixEmployee = "EMP"
)

// Sequencer 按日递增的序号源（由 pkg/redis.Client 实现）
type Sequencer interface {
	NextSequence(ctx context.Context, prefix, day string) (int64, error)
}

// CodeGenerator 生成人类可读的业务编号
type CodeGenerator interface {
	Next(ctx context.Context, prefix string) string
}

type codeGenerator struct {
	seq    Sequencer
	logger *zap.Logger
}

// NewCodeGenerator 创建编号生成器，seq 为 nil 时始终使用毫秒时间戳编号
func NewCodeGenerator(seq Sequencer, logger *zap.Logger) CodeGenerator {
	return &codeGenerator{seq: seq, logger: logger}
}

// Next 生成 PREFIX-YYYYMMDD-NNNN 格式编号，序号源不可用时退化为 PREFIX+毫秒时间戳
func (g *codeGenerator) Next(ctx context.Context, prefix string) string {
	t := now()
	if g.seq != nil {
		day := t.Format("20060102")
		n, err := g.seq.NextSequence(ctx, prefix, day)
		if err == nil {
			return fmt.Sprintf("%s-%s-%04d", prefix, day, n)
		}
		g.logger.Warn("获取编号序列失败，使用时间戳编号", zap.String("prefix", prefix), zap.Error(err))
	}
	return prefix + strconv.FormatInt(t.UnixMilli(), 10)
}

// createWithCode 用生成的编号插入记录
// 编号列唯一约束冲突时换一个编号重试一次，仍冲突返回 ErrCodeCollision；其他错误原样返回
func createWithCode(ctx context.Context, codes CodeGenerator, prefix, column string, assign func(code string), insert func() error) error {
	for attempt := 0; ; attempt++ {
		assign(codes.Next(ctx, prefix))
		err := insert()
		if err == nil || !pkgerrors.IsUniqueViolationOn(err, column) {
			return err
		}
		if attempt > 0 {
			return ErrCodeCollision
		}
	}
}

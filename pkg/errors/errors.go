package errors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrStaleState 条件更新未命中任何行：记录不存在或状态已被其他操作修改
var ErrStaleState = errors.New("记录状态已变化，请刷新后重试")

const uniqueViolation = "23505"

// IsUniqueViolation 判断错误是否为 PostgreSQL 唯一约束冲突
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// IsUniqueViolationOn 判断错误是否为指定列上的唯一约束冲突
// 依赖 PostgreSQL 默认约束名 <table>_<column>_key
func IsUniqueViolationOn(err error, column string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return strings.HasSuffix(pgErr.ConstraintName, "_"+column+"_key")
}

package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	pkgerrors "gatepass-nexus/backend/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Gatepass      GatepassRepository
	Visitor       VisitorRepository
	Asset         AssetRepository
	Assignment    AssignmentRepository
	Employee      EmployeeRepository
	Communication CommunicationRepository
	Profile       ProfileRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		Gatepass:      NewGatepassRepo(db),
		Visitor:       NewVisitorRepo(db),
		Asset:         NewAssetRepo(db),
		Assignment:    NewAssignmentRepo(db),
		Employee:      NewEmployeeRepo(db),
		Communication: NewCommunicationRepo(db),
		Profile:       NewProfileRepo(db),
	}
}

// BeginTx 开启事务，调用方负责 Commit 或 Rollback
// 未绑定数据库（单元测试中由 mock 组装）时返回 nil 事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务的 Repository 聚合，tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Page 分页参数，PageSize <= 0 表示不分页
type Page struct {
	Page     int
	PageSize int
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.PageSize <= 0 {
		return q
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	return q.Offset((page - 1) * p.PageSize).Limit(p.PageSize)
}

// likePattern 生成 ILIKE 子串匹配模式，转义通配符
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// searchAny 在多个列上做不区分大小写的子串匹配（OR）
func searchAny(q *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return q
	}
	pattern := likePattern(term)
	conds := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, c := range columns {
		conds[i] = c + " ILIKE ?"
		args[i] = pattern
	}
	return q.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// transition 条件状态更新：仅当记录当前状态在 from 中时写入 patch
// 未命中任何行返回 ErrStaleState，由调用方区分记录不存在与状态不符
func transition(ctx context.Context, db *gorm.DB, m interface{}, id string, from []string, patch map[string]interface{}) error {
	result := db.WithContext(ctx).
		Model(m).
		Where("id = ? AND status IN ?", id, from).
		Updates(patch)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStaleState
	}
	return nil
}

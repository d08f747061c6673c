package service

import (
	"errors"
	"fmt"
)

// ── 通用错误分类 ──
// 具体业务错误通过 %w 归入以下分类，处理器可按分类兜底映射

var (
	ErrValidation        = errors.New("参数校验失败")
	ErrNotFound          = errors.New("记录不存在")
	ErrInvalidTransition = errors.New("当前状态不允许该操作")
	ErrConflict          = errors.New("资源冲突")
	ErrForbidden         = errors.New("无权执行该操作")
)

// ── 校验错误 ──

var (
	ErrReasonRequired           = fmt.Errorf("%w: 出门事由不能为空", ErrValidation)
	ErrExitTimeInvalid          = fmt.Errorf("%w: 出门时间缺失或格式错误", ErrValidation)
	ErrGatepassCodeRequired     = fmt.Errorf("%w: 出门条编号不能为空", ErrValidation)
	ErrVisitorNameRequired      = fmt.Errorf("%w: 访客姓名不能为空", ErrValidation)
	ErrPurposeRequired          = fmt.Errorf("%w: 来访事由不能为空", ErrValidation)
	ErrExpectedCheckoutInvalid  = fmt.Errorf("%w: 预计离开时间格式错误", ErrValidation)
	ErrSerialRequired           = fmt.Errorf("%w: 序列号不能为空", ErrValidation)
	ErrAssetTypeInvalid         = fmt.Errorf("%w: 资产类别无效", ErrValidation)
	ErrAssetStatusInvalid       = fmt.Errorf("%w: 资产状态无效", ErrValidation)
	ErrDateInvalid              = fmt.Errorf("%w: 日期格式应为 YYYY-MM-DD", ErrValidation)
	ErrDepartmentRequired       = fmt.Errorf("%w: 部门不能为空", ErrValidation)
	ErrSubjectRequired          = fmt.Errorf("%w: 消息主题不能为空", ErrValidation)
	ErrBodyRequired             = fmt.Errorf("%w: 消息内容不能为空", ErrValidation)
	ErrRecipientTypeInvalid     = fmt.Errorf("%w: 收件方式无效", ErrValidation)
	ErrIndividualMissing        = fmt.Errorf("%w: 个人消息必须指定收件人", ErrValidation)
	ErrDepartmentMissing        = fmt.Errorf("%w: 部门消息必须指定部门", ErrValidation)
	ErrPriorityInvalid          = fmt.Errorf("%w: 优先级无效", ErrValidation)
	ErrCommunicationTypeInvalid = fmt.Errorf("%w: 消息类型无效", ErrValidation)
)

// ── 不存在 ──

var (
	ErrGatepassNotFound      = fmt.Errorf("%w: 出门条不存在", ErrNotFound)
	ErrVisitorNotFound       = fmt.Errorf("%w: 访客不存在", ErrNotFound)
	ErrAssetNotFound         = fmt.Errorf("%w: 资产不存在", ErrNotFound)
	ErrAssignmentNotFound    = fmt.Errorf("%w: 分配记录不存在", ErrNotFound)
	ErrEmployeeNotFound      = fmt.Errorf("%w: 员工不存在", ErrNotFound)
	ErrCommunicationNotFound = fmt.Errorf("%w: 消息不存在", ErrNotFound)
)

// ── 冲突 ──

var (
	ErrAssetUnavailable   = fmt.Errorf("%w: 资产当前不可分配", ErrConflict)
	ErrSerialExists       = fmt.Errorf("%w: 序列号已存在", ErrConflict)
	ErrEmployeeCodeExists = fmt.Errorf("%w: 工号已存在", ErrConflict)
	ErrEmployeeInactive   = fmt.Errorf("%w: 员工已停用", ErrConflict)
	ErrCodeCollision      = fmt.Errorf("%w: 编号生成冲突，请重试", ErrConflict)
)

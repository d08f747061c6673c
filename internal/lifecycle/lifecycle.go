// Package lifecycle 定义出门条、访客与资产的状态流转表及各动作的角色要求。
// 仓储层据此生成条件更新，服务层据此校验操作者角色。
package lifecycle

import "gatepass-nexus/backend/internal/model"

// 动作名称
const (
	ActionApprove   = "approve"
	ActionReject    = "reject"
	ActionExit      = "exit"
	ActionCheckIn   = "check_in"
	ActionCheckOut  = "check_out"
	ActionAssign    = "assign"
	ActionReturn    = "return"
	ActionSetStatus = "set_status"
)

// Rule 单个动作的流转规则
type Rule struct {
	From  []string // 允许的起始状态
	To    string   // 目标状态，空表示由调用方指定
	Roles []string // 允许执行的角色
}

// Machine 一类实体的状态机
type Machine struct {
	Entity string
	rules  map[string]Rule
}

var officers = []string{model.RoleAdmin, model.RoleSecurityOfficer}

// Gatepass 出门条：pending → approved|rejected，approved → exited
var Gatepass = Machine{
	Entity: "gatepass",
	rules: map[string]Rule{
		ActionApprove: {From: []string{model.GatepassPending}, To: model.GatepassApproved, Roles: officers},
		ActionReject:  {From: []string{model.GatepassPending}, To: model.GatepassRejected, Roles: officers},
		ActionExit:    {From: []string{model.GatepassApproved}, To: model.GatepassExited, Roles: officers},
	},
}

// Visitor 访客：pending → checked_in → checked_out，expired 只能由外部置位
var Visitor = Machine{
	Entity: "visitor",
	rules: map[string]Rule{
		ActionCheckIn:  {From: []string{model.VisitorPending}, To: model.VisitorCheckedIn, Roles: officers},
		ActionCheckOut: {From: []string{model.VisitorCheckedIn}, To: model.VisitorCheckedOut, Roles: officers},
	},
}

// Asset 资产：分配与归还成对出现，管理员可直接改写状态
var Asset = Machine{
	Entity: "asset",
	rules: map[string]Rule{
		ActionAssign: {From: []string{model.AssetAvailable}, To: model.AssetAssigned, Roles: []string{model.RoleAdmin}},
		ActionReturn: {From: []string{model.AssetAssigned}, To: model.AssetAvailable, Roles: []string{model.RoleAdmin}},
		ActionSetStatus: {
			From:  []string{model.AssetAvailable, model.AssetAssigned, model.AssetMaintenance, model.AssetRetired},
			Roles: []string{model.RoleAdmin},
		},
	},
}

// Rule 返回动作对应的规则
func (m Machine) Rule(action string) (Rule, bool) {
	r, ok := m.rules[action]
	return r, ok
}

// ValidTransition 判断动作能否从指定状态发起
func (m Machine) ValidTransition(action, fromStatus string) bool {
	r, ok := m.rules[action]
	if !ok {
		return false
	}
	return contains(r.From, fromStatus)
}

// Permits 判断角色能否执行动作
func (m Machine) Permits(action, role string) bool {
	r, ok := m.rules[action]
	if !ok {
		return false
	}
	return contains(r.Roles, role)
}

// IsAssetStatus 判断是否为合法的资产状态
func IsAssetStatus(status string) bool {
	r := Asset.rules[ActionSetStatus]
	return contains(r.From, status)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

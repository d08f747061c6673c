// Package analytics 提供仪表盘使用的出门条统计函数，全部为纯函数。
package analytics

import (
	"math"
	"sort"

	"gatepass-nexus/backend/internal/model"
)

// DepartmentCount 部门出门条数量
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

// Summary 仪表盘汇总
type Summary struct {
	Total          int               `json:"total"`
	Pending        int               `json:"pending"`
	Approved       int               `json:"approved"` // approved 与 issued 合计
	Rejected       int               `json:"rejected"`
	Exited         int               `json:"exited"`
	TotalUsers     int64             `json:"total_users"`
	CompletionRate int               `json:"completion_rate"`
	ByStatus       map[string]int    `json:"by_status"`
	ByDepartment   []DepartmentCount `json:"by_department"`
}

// StatusCounts 按状态计数
func StatusCounts(list []model.Gatepass) map[string]int {
	counts := make(map[string]int)
	for _, gp := range list {
		counts[gp.Status]++
	}
	return counts
}

// DepartmentCounts 按部门计数，数量降序，数量相同时保持首次出现的顺序
func DepartmentCounts(list []model.Gatepass) []DepartmentCount {
	index := make(map[string]int)
	result := make([]DepartmentCount, 0)
	for _, gp := range list {
		i, ok := index[gp.Department]
		if !ok {
			i = len(result)
			index[gp.Department] = i
			result = append(result, DepartmentCount{Department: gp.Department})
		}
		result[i].Count++
	}

	sort.SliceStable(result, func(a, b int) bool {
		return result[a].Count > result[b].Count
	})
	return result
}

// CompletionRate 已出门占比（百分比，四舍五入），空列表为 0
func CompletionRate(list []model.Gatepass) int {
	if len(list) == 0 {
		return 0
	}
	exited := 0
	for _, gp := range list {
		if gp.Status == model.GatepassExited {
			exited++
		}
	}
	return int(math.Round(float64(exited) * 100 / float64(len(list))))
}

// Summarize 生成仪表盘汇总
func Summarize(list []model.Gatepass, totalUsers int64) Summary {
	byStatus := StatusCounts(list)
	return Summary{
		Total:          len(list),
		Pending:        byStatus[model.GatepassPending],
		Approved:       byStatus[model.GatepassApproved] + byStatus[model.GatepassIssued],
		Rejected:       byStatus[model.GatepassRejected],
		Exited:         byStatus[model.GatepassExited],
		TotalUsers:     totalUsers,
		CompletionRate: CompletionRate(list),
		ByStatus:       byStatus,
		ByDepartment:   DepartmentCounts(list),
	}
}

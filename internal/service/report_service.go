package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gatepass-nexus/backend/internal/analytics"
	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/model"
	"gatepass-nexus/backend/internal/repository"
)

// ErrReportGenerateFail 报表文件生成失败
var ErrReportGenerateFail = errors.New("生成报表文件失败")

const (
	gatepassSheet = "Gatepasses"
	summarySheet  = "Summary"

	calendarProductID = "-//gatepass-nexus//exit-calendar//ZH"
	calendarName      = "已批准出门计划"
	exitSlot          = 30 * time.Minute
)

// ReportService 报表导出接口
//
// 导出内容以内存缓冲返回，由 Handler 层设置下载响应头
type ReportService interface {
	// ExportGatepasses 按筛选条件导出出门条 Excel，附带汇总页
	ExportGatepasses(ctx context.Context, actor dto.Actor, req *dto.GatepassListRequest) (*bytes.Buffer, string, error)
	// ExitCalendar 将已批准待出门的出门条导出为 iCalendar 订阅
	ExitCalendar(ctx context.Context, actor dto.Actor) (string, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

// ────────────────────── Excel ──────────────────────

func (s *reportService) ExportGatepasses(ctx context.Context, actor dto.Actor, req *dto.GatepassListRequest) (*bytes.Buffer, string, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, "", err
	}

	list, _, err := s.repo.Gatepass.List(ctx, repository.GatepassFilter{Status: req.Status, Search: req.Search})
	if err != nil {
		s.logger.Error("查询导出数据失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gatepassSheet); err != nil {
		return nil, "", s.generateFail(err)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	header := []interface{}{"编号", "申请人", "部门", "事由", "携带物品", "计划出门时间", "状态", "审批人", "实际出门时间", "创建时间"}
	if err := f.SetSheetRow(gatepassSheet, "A1", &header); err != nil {
		return nil, "", s.generateFail(err)
	}
	f.SetCellStyle(gatepassSheet, "A1", cell(colName(len(header)-1), 1), headerStyle)
	f.SetColWidth(gatepassSheet, "A", "A", 22)
	f.SetColWidth(gatepassSheet, "B", "C", 16)
	f.SetColWidth(gatepassSheet, "D", "E", 30)
	f.SetColWidth(gatepassSheet, "F", "J", 22)

	for i := range list {
		gp := toGatepassResponse(&list[i])
		row := []interface{}{
			gp.GatepassCode, gp.RequesterName, gp.Department, gp.Reason,
			deref(gp.ItemsCarried), gp.ExitTime, gp.Status,
			deref(gp.ApprovedBy), deref(gp.ExitedAt), gp.CreatedAt,
		}
		if err := f.SetSheetRow(gatepassSheet, cell("A", i+2), &row); err != nil {
			return nil, "", s.generateFail(err)
		}
	}

	if err := s.writeSummary(f, analytics.Summarize(list, 0)); err != nil {
		return nil, "", s.generateFail(err)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", s.generateFail(err)
	}
	filename := fmt.Sprintf("gatepasses_%s.xlsx", now().Format("20060102"))
	return buf, filename, nil
}

func (s *reportService) writeSummary(f *excelize.File, sum analytics.Summary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"指标", "数值"},
		{"总数", sum.Total},
		{"待审批", sum.Pending},
		{"已批准", sum.Approved},
		{"已驳回", sum.Rejected},
		{"已出门", sum.Exited},
		{"完成率(%)", sum.CompletionRate},
		{},
		{"部门", "数量"},
	}
	for _, d := range sum.ByDepartment {
		rows = append(rows, []interface{}{d.Department, d.Count})
	}
	for i := range rows {
		if err := f.SetSheetRow(summarySheet, cell("A", i+1), &rows[i]); err != nil {
			return err
		}
	}
	f.SetColWidth(summarySheet, "A", "A", 20)
	return nil
}

func (s *reportService) generateFail(err error) error {
	s.logger.Error("写入 Excel 失败", zap.Error(err))
	return ErrReportGenerateFail
}

// ────────────────────── iCalendar ──────────────────────

func (s *reportService) ExitCalendar(ctx context.Context, actor dto.Actor) (string, error) {
	if !isOfficer(actor) {
		return "", ErrForbidden
	}

	list, _, err := s.repo.Gatepass.List(ctx, repository.GatepassFilter{Status: model.GatepassApproved})
	if err != nil {
		s.logger.Error("查询已批准出门条失败", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(calendarName)

	stamp := now()
	for _, gp := range list {
		event := cal.AddEvent(gp.ID)
		event.SetDtStampTime(stamp)
		event.SetStartAt(gp.ExitTime.UTC())
		event.SetEndAt(gp.ExitTime.UTC().Add(exitSlot))
		event.SetSummary(fmt.Sprintf("%s %s", gp.GatepassCode, gp.RequesterName))
		desc := gp.Reason
		if gp.ItemsCarried != nil {
			desc += "\n携带物品: " + *gp.ItemsCarried
		}
		event.SetDescription(desc)
	}
	return cal.Serialize(), nil
}

// ── 辅助函数 ──

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

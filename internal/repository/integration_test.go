//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pkgerrors "gatepass-nexus/backend/pkg/errors"

	"gatepass-nexus/backend/internal/model"
	"gatepass-nexus/backend/internal/repository"
	"gatepass-nexus/backend/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=gatepass password=gatepass_password dbname=gatepass_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 使用正式迁移建表，保证 CHECK 约束与部分唯一索引生效
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "执行迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

func uniq(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func createEmployee(t *testing.T) *model.Employee {
	t.Helper()
	e := &model.Employee{EmployeeCode: uniq("EMP"), Department: "IT", Position: "Engineer", IsActive: true}
	if err := testDB.Create(e).Error; err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}
	t.Cleanup(func() { testDB.Where("id = ?", e.ID).Delete(&model.Employee{}) })
	return e
}

func createAsset(t *testing.T) *model.Asset {
	t.Helper()
	a := &model.Asset{AssetCode: uniq("AST"), AssetType: "laptop", SerialNumber: uniq("SN"), Status: model.AssetAvailable}
	if err := testDB.Create(a).Error; err != nil {
		t.Fatalf("创建资产失败: %v", err)
	}
	t.Cleanup(func() {
		testDB.Where("asset_id = ?", a.ID).Delete(&model.EmployeeAsset{})
		testDB.Where("id = ?", a.ID).Delete(&model.Asset{})
	})
	return a
}

// ═══════════════════════════════════════════════════════════
// Test: Conditional Transition
// ═══════════════════════════════════════════════════════════

func TestGatepassTransition_OnlyFromPending(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	gp := &model.Gatepass{
		GatepassCode:  uniq("GP"),
		RequesterID:   "user-1",
		RequesterName: "Alice",
		Department:    "IT",
		Reason:        "Client visit",
		ExitTime:      time.Now().Add(time.Hour),
		Status:        model.GatepassPending,
	}
	if err := repo.Gatepass.Create(ctx, gp); err != nil {
		t.Fatalf("创建出门条失败: %v", err)
	}
	defer testDB.Where("id = ?", gp.ID).Delete(&model.Gatepass{})

	approve := map[string]interface{}{"status": model.GatepassApproved, "approved_by": "officer-1", "approved_at": time.Now()}
	if err := repo.Gatepass.Transition(ctx, gp.ID, []string{model.GatepassPending}, approve); err != nil {
		t.Fatalf("首次审批应成功: %v", err)
	}

	// 第二次审批：状态已不是 pending
	err := repo.Gatepass.Transition(ctx, gp.ID, []string{model.GatepassPending}, approve)
	if !errors.Is(err, pkgerrors.ErrStaleState) {
		t.Errorf("期望 ErrStaleState，得到: %v", err)
	}

	found, err := repo.Gatepass.GetByCodeAndStatus(ctx, gp.GatepassCode, model.GatepassApproved)
	if err != nil {
		t.Fatalf("按编号查询失败: %v", err)
	}
	if found.ApprovedBy == nil || *found.ApprovedBy != "officer-1" {
		t.Errorf("期望 approved_by=officer-1，实际: %v", found.ApprovedBy)
	}
}

func TestGatepassList_SearchIsCaseInsensitive(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	dept := uniq("Facilities")
	gp := &model.Gatepass{
		GatepassCode:  uniq("GP"),
		RequesterID:   "user-2",
		RequesterName: "Bob",
		Department:    dept,
		Reason:        "Repair",
		ExitTime:      time.Now(),
		Status:        model.GatepassPending,
	}
	if err := repo.Gatepass.Create(ctx, gp); err != nil {
		t.Fatalf("创建出门条失败: %v", err)
	}
	defer testDB.Where("id = ?", gp.ID).Delete(&model.Gatepass{})

	list, total, err := repo.Gatepass.List(ctx, repository.GatepassFilter{Search: "FACILITIES-"})
	if err != nil {
		t.Fatalf("列表查询失败: %v", err)
	}
	if total < 1 || len(list) < 1 {
		t.Errorf("期望按部门不区分大小写匹配到记录，实际 total=%d", total)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction + Partial Unique Index
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	emp := createEmployee(t)
	asset := createAsset(t)

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx 失败: %v", err)
	}
	txRepo := repo.WithTx(tx)

	if err := txRepo.Asset.Transition(ctx, asset.ID, []string{model.AssetAvailable}, map[string]interface{}{"status": model.AssetAssigned}); err != nil {
		tx.Rollback()
		t.Fatalf("事务内更新资产失败: %v", err)
	}
	if err := txRepo.Assignment.Create(ctx, &model.EmployeeAsset{
		EmployeeID: emp.ID, AssetID: asset.ID, AssignedBy: "admin-1", AssignedDate: time.Now(), IsActive: true,
	}); err != nil {
		tx.Rollback()
		t.Fatalf("事务内创建分配记录失败: %v", err)
	}

	tx.Rollback()

	found, err := repo.Asset.GetByID(ctx, asset.ID)
	if err != nil {
		t.Fatalf("查询资产失败: %v", err)
	}
	if found.Status != model.AssetAvailable {
		t.Errorf("回滚后资产应仍为 available，实际: %s", found.Status)
	}
	if _, err := repo.Assignment.GetActiveByAsset(ctx, asset.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("回滚后不应存在激活的分配记录，得到: %v", err)
	}
}

func TestAssignment_OneActivePerAsset(t *testing.T) {
	emp := createEmployee(t)
	asset := createAsset(t)

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	first := &model.EmployeeAsset{EmployeeID: emp.ID, AssetID: asset.ID, AssignedBy: "admin-1", AssignedDate: time.Now(), IsActive: true}
	if err := repo.Assignment.Create(ctx, first); err != nil {
		t.Fatalf("创建第一条分配记录失败: %v", err)
	}

	second := &model.EmployeeAsset{EmployeeID: emp.ID, AssetID: asset.ID, AssignedBy: "admin-1", AssignedDate: time.Now(), IsActive: true}
	err := repo.Assignment.Create(ctx, second)
	if !pkgerrors.IsUniqueViolation(err) {
		t.Fatalf("期望唯一约束冲突，得到: %v", err)
	}

	// 归还后可以再次分配
	if err := repo.Assignment.Close(ctx, first.ID, time.Now()); err != nil {
		t.Fatalf("关闭分配记录失败: %v", err)
	}
	if err := repo.Assignment.Close(ctx, first.ID, time.Now()); !errors.Is(err, pkgerrors.ErrStaleState) {
		t.Errorf("重复关闭期望 ErrStaleState，得到: %v", err)
	}
	third := &model.EmployeeAsset{EmployeeID: emp.ID, AssetID: asset.ID, AssignedBy: "admin-1", AssignedDate: time.Now(), IsActive: true}
	if err := repo.Assignment.Create(ctx, third); err != nil {
		t.Errorf("归还后再次分配应成功: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Communication inbox resolution
// ═══════════════════════════════════════════════════════════

func TestCommunication_InboxAndMarkRead(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	dept := uniq("Dept")
	me := repository.Addressee{UserID: uniq("user"), Department: dept}
	other := uniq("user")

	msgs := []*model.Communication{
		{SenderID: other, RecipientType: model.RecipientIndividual, RecipientID: &me.UserID, Subject: "direct", Message: "hi", Priority: "normal", CommunicationType: "message"},
		{SenderID: other, RecipientType: model.RecipientDepartment, RecipientDepartment: &dept, Subject: "dept", Message: "hi", Priority: "normal", CommunicationType: "announcement"},
		{SenderID: other, RecipientType: model.RecipientIndividual, RecipientID: &other, Subject: "not mine", Message: "hi", Priority: "normal", CommunicationType: "message"},
	}
	for _, m := range msgs {
		if err := repo.Communication.Create(ctx, m); err != nil {
			t.Fatalf("创建消息失败: %v", err)
		}
		defer testDB.Where("id = ?", m.ID).Delete(&model.Communication{})
	}

	list, _, err := repo.Communication.ListInbox(ctx, me, "", repository.Page{})
	if err != nil {
		t.Fatalf("查询收件箱失败: %v", err)
	}
	for _, m := range list {
		if m.Subject == "not mine" {
			t.Error("收件箱不应包含发给他人的个人消息")
		}
	}

	before, _ := repo.Communication.CountUnread(ctx, me)
	if err := repo.Communication.MarkRead(ctx, msgs[0].ID, time.Now()); err != nil {
		t.Fatalf("标记已读失败: %v", err)
	}
	if err := repo.Communication.MarkRead(ctx, msgs[0].ID, time.Now()); !errors.Is(err, pkgerrors.ErrStaleState) {
		t.Errorf("重复标记期望 ErrStaleState，得到: %v", err)
	}
	after, _ := repo.Communication.CountUnread(ctx, me)
	if after != before-1 {
		t.Errorf("未读数应减一，before=%d after=%d", before, after)
	}
}

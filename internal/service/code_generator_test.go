package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap"

	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/model"
)

type fakeSequencer struct {
	n   int64
	err error
}

func (f *fakeSequencer) NextSequence(_ context.Context, _, _ string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.n++
	return f.n, nil
}

func TestCodeGenerator_Sequence(t *testing.T) {
	gen := NewCodeGenerator(&fakeSequencer{}, zap.NewNop())
	pattern := regexp.MustCompile(`^GP-\d{8}-\d{4}$`)

	first := gen.Next(context.Background(), CodePrefixGatepass)
	second := gen.Next(context.Background(), CodePrefixGatepass)
	if !pattern.MatchString(first) {
		t.Errorf("编号格式不符，实际=%s", first)
	}
	if !strings.HasSuffix(first, "-0001") || !strings.HasSuffix(second, "-0002") {
		t.Errorf("期望序号递增，实际=%s, %s", first, second)
	}
}

func TestCodeGenerator_Fallback(t *testing.T) {
	pattern := regexp.MustCompile(`^VIS\d{13}$`)

	for name, seq := range map[string]Sequencer{
		"无序号源":  nil,
		"序号源失败": &fakeSequencer{err: errors.New("redis down")},
	} {
		t.Run(name, func(t *testing.T) {
			code := NewCodeGenerator(seq, zap.NewNop()).Next(context.Background(), CodePrefixVisitor)
			if !pattern.MatchString(code) {
				t.Errorf("期望退化为前缀+毫秒时间戳，实际=%s", code)
			}
		})
	}
}

// ── 编号冲突重试 ──

func TestCreateWithCode_RetriesOnceOnCollision(t *testing.T) {
	svc, env, _ := setupTestGatepassService()
	env.gatepasses.items["gp-seed"] = &model.Gatepass{ID: "gp-seed", GatepassCode: "GP-20250106-0001", Status: model.GatepassPending}

	gp, err := svc.Create(context.Background(), testStaff, &dto.CreateGatepassRequest{
		Reason:   "Client visit",
		ExitTime: "2025-01-06T15:00:00Z",
	})
	if err != nil {
		t.Fatalf("编号冲突后应换号重试成功: %v", err)
	}
	if gp.GatepassCode != "GP-20250106-0002" {
		t.Errorf("期望重试后编号 GP-20250106-0002，实际=%s", gp.GatepassCode)
	}
}

func TestCreateWithCode_RepeatedCollisionIsConflict(t *testing.T) {
	env := newTestEnv()
	env.codes.fixed = "VIS-20250106-0001"
	env.visitors.items["vis-seed"] = &model.Visitor{ID: "vis-seed", VisitorCode: "VIS-20250106-0001", Status: model.VisitorPending}
	svc := NewVisitorService(env.repo, env.codes, env.events, env.logger)

	_, err := svc.Register(context.Background(), testOfficer, &dto.RegisterVisitorRequest{FullName: "Jane Doe", PurposeOfVisit: "Interview"})
	if !errors.Is(err, ErrCodeCollision) || !errors.Is(err, ErrConflict) {
		t.Errorf("连续冲突期望 ErrCodeCollision（归类为冲突），实际: %v", err)
	}
	if len(env.events.tables()) != 0 {
		t.Error("插入失败不应发布变更")
	}
}

func TestCreateWithCode_OtherUniqueViolationNotRetried(t *testing.T) {
	env := newTestEnv()
	svc := NewAssetService(env.repo, env.codes, env.events, nil, env.logger)
	ctx := context.Background()

	req := &dto.CreateAssetRequest{AssetType: "laptop", SerialNumber: "SN-42"}
	if _, err := svc.Add(ctx, testAdmin, req); err != nil {
		t.Fatalf("Add 应成功: %v", err)
	}
	before := env.codes.n
	if _, err := svc.Add(ctx, testAdmin, req); !errors.Is(err, ErrSerialExists) {
		t.Errorf("序列号重复期望 ErrSerialExists，实际: %v", err)
	}
	if env.codes.n-before != 1 {
		t.Errorf("序列号冲突不应换号重试，实际生成 %d 次", env.codes.n-before)
	}
}

func TestEmployeeService_Add_GeneratedCodeCollision(t *testing.T) {
	svc, env := setupTestEmployeeService()
	env.codes.fixed = "EMP-0001"

	if _, err := svc.Add(context.Background(), testAdmin, &dto.CreateEmployeeRequest{Department: "Ops"}); !errors.Is(err, ErrCodeCollision) {
		t.Errorf("自动生成的工号连续冲突期望 ErrCodeCollision，实际: %v", err)
	}
}

package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gatepass-nexus/backend/internal/model"
	"gatepass-nexus/backend/internal/realtime"
	"gatepass-nexus/backend/internal/repository"
	pkgerrors "gatepass-nexus/backend/pkg/errors"
)

var mockEpoch = time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func containsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(term)))
}

func strVal(v interface{}) *string {
	s := v.(string)
	return &s
}

func timeVal(v interface{}) *time.Time {
	t := v.(time.Time)
	return &t
}

// ── Mock GatepassRepository ──

type mockGatepassRepo struct {
	items map[string]*model.Gatepass
	seq   int
}

func newMockGatepassRepo() *mockGatepassRepo {
	return &mockGatepassRepo{items: make(map[string]*model.Gatepass)}
}

func (m *mockGatepassRepo) Create(_ context.Context, gp *model.Gatepass) error {
	for _, existing := range m.items {
		if existing.GatepassCode == gp.GatepassCode {
			return uniqueViolation("gatepasses_gatepass_code_key")
		}
	}
	m.seq++
	if gp.ID == "" {
		gp.ID = fmt.Sprintf("gp-%03d", m.seq)
	}
	if gp.CreatedAt.IsZero() {
		gp.CreatedAt = mockEpoch.Add(time.Duration(m.seq) * time.Minute)
	}
	cp := *gp
	m.items[gp.ID] = &cp
	return nil
}

func (m *mockGatepassRepo) GetByID(_ context.Context, id string) (*model.Gatepass, error) {
	if gp, ok := m.items[id]; ok {
		cp := *gp
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGatepassRepo) GetByCodeAndStatus(_ context.Context, code, status string) (*model.Gatepass, error) {
	for _, gp := range m.items {
		if gp.GatepassCode == code && gp.Status == status {
			cp := *gp
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGatepassRepo) List(_ context.Context, f repository.GatepassFilter) ([]model.Gatepass, int64, error) {
	var result []model.Gatepass
	for _, gp := range m.items {
		if f.Status != "" && gp.Status != f.Status {
			continue
		}
		if f.RequesterID != "" && gp.RequesterID != f.RequesterID {
			continue
		}
		if f.Search != "" && !containsFold(gp.GatepassCode, f.Search) &&
			!containsFold(gp.RequesterName, f.Search) && !containsFold(gp.Department, f.Search) {
			continue
		}
		result = append(result, *gp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, int64(len(result)), nil
}

func (m *mockGatepassRepo) Transition(_ context.Context, id string, from []string, patch map[string]interface{}) error {
	gp, ok := m.items[id]
	if !ok || !oneOf(gp.Status, from) {
		return pkgerrors.ErrStaleState
	}
	for k, v := range patch {
		switch k {
		case "status":
			gp.Status = v.(string)
		case "approved_by":
			gp.ApprovedBy = strVal(v)
		case "approved_at":
			gp.ApprovedAt = timeVal(v)
		case "exited_by":
			gp.ExitedBy = strVal(v)
		case "exited_at":
			gp.ExitedAt = timeVal(v)
		}
	}
	return nil
}

// ── Mock VisitorRepository ──

type mockVisitorRepo struct {
	items map[string]*model.Visitor
	seq   int
}

func newMockVisitorRepo() *mockVisitorRepo {
	return &mockVisitorRepo{items: make(map[string]*model.Visitor)}
}

func (m *mockVisitorRepo) Create(_ context.Context, v *model.Visitor) error {
	for _, existing := range m.items {
		if existing.VisitorCode == v.VisitorCode {
			return uniqueViolation("visitors_visitor_code_key")
		}
	}
	m.seq++
	if v.ID == "" {
		v.ID = fmt.Sprintf("vis-%03d", m.seq)
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = mockEpoch.Add(time.Duration(m.seq) * time.Minute)
	}
	cp := *v
	m.items[v.ID] = &cp
	return nil
}

func (m *mockVisitorRepo) GetByID(_ context.Context, id string) (*model.Visitor, error) {
	if v, ok := m.items[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVisitorRepo) List(_ context.Context, f repository.VisitorFilter) ([]model.Visitor, int64, error) {
	var result []model.Visitor
	for _, v := range m.items {
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.Search != "" && !containsFold(v.FullName, f.Search) && !containsFold(v.VisitorCode, f.Search) {
			continue
		}
		result = append(result, *v)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, int64(len(result)), nil
}

func (m *mockVisitorRepo) Transition(_ context.Context, id string, from []string, patch map[string]interface{}) error {
	v, ok := m.items[id]
	if !ok || !oneOf(v.Status, from) {
		return pkgerrors.ErrStaleState
	}
	for k, val := range patch {
		switch k {
		case "status":
			v.Status = val.(string)
		case "check_in_time":
			v.CheckInTime = timeVal(val)
		case "check_out_time":
			v.CheckOutTime = timeVal(val)
		case "checked_in_by":
			v.CheckedInBy = strVal(val)
		case "checked_out_by":
			v.CheckedOutBy = strVal(val)
		}
	}
	return nil
}

// ── Mock AssetRepository ──

type mockAssetRepo struct {
	items map[string]*model.Asset
	seq   int
}

func newMockAssetRepo() *mockAssetRepo {
	return &mockAssetRepo{items: make(map[string]*model.Asset)}
}

func (m *mockAssetRepo) Create(_ context.Context, a *model.Asset) error {
	for _, existing := range m.items {
		if existing.SerialNumber == a.SerialNumber {
			return uniqueViolation("assets_serial_number_key")
		}
		if existing.AssetCode == a.AssetCode {
			return uniqueViolation("assets_asset_code_key")
		}
	}
	m.seq++
	if a.ID == "" {
		a.ID = fmt.Sprintf("ast-%03d", m.seq)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = mockEpoch.Add(time.Duration(m.seq) * time.Minute)
	}
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *mockAssetRepo) GetByID(_ context.Context, id string) (*model.Asset, error) {
	if a, ok := m.items[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssetRepo) List(_ context.Context, f repository.AssetFilter) ([]model.Asset, int64, error) {
	var result []model.Asset
	for _, a := range m.items {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.AssetType != "" && a.AssetType != f.AssetType {
			continue
		}
		if f.Search != "" && !containsFold(a.AssetCode, f.Search) && !containsFold(a.SerialNumber, f.Search) {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, int64(len(result)), nil
}

func (m *mockAssetRepo) Transition(_ context.Context, id string, from []string, patch map[string]interface{}) error {
	a, ok := m.items[id]
	if !ok || !oneOf(a.Status, from) {
		return pkgerrors.ErrStaleState
	}
	if v, ok := patch["status"]; ok {
		a.Status = v.(string)
	}
	return nil
}

func (m *mockAssetRepo) SetStatus(_ context.Context, id, status string) error {
	a, ok := m.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Status = status
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	items map[string]*model.EmployeeAsset
	seq   int
	// 用于 Preload 模拟
	employees *mockEmployeeRepo
	assets    *mockAssetRepo
	// 非空时 Create 返回该错误
	createErr error
}

func newMockAssignmentRepo(employees *mockEmployeeRepo, assets *mockAssetRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{items: make(map[string]*model.EmployeeAsset), employees: employees, assets: assets}
}

// Create 模拟 uq_employee_assets_active 部分唯一索引
func (m *mockAssignmentRepo) Create(_ context.Context, ea *model.EmployeeAsset) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.items {
		if existing.IsActive && existing.AssetID == ea.AssetID {
			return uniqueViolation("uq_employee_assets_active")
		}
	}
	m.seq++
	if ea.ID == "" {
		ea.ID = fmt.Sprintf("ea-%03d", m.seq)
	}
	if ea.CreatedAt.IsZero() {
		ea.CreatedAt = mockEpoch.Add(time.Duration(m.seq) * time.Minute)
	}
	cp := *ea
	m.items[ea.ID] = &cp
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.EmployeeAsset, error) {
	if ea, ok := m.items[id]; ok {
		cp := *ea
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) GetActiveByAsset(_ context.Context, assetID string) (*model.EmployeeAsset, error) {
	for _, ea := range m.items {
		if ea.IsActive && ea.AssetID == assetID {
			cp := *ea
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListByAsset(_ context.Context, assetID string) ([]model.EmployeeAsset, error) {
	var result []model.EmployeeAsset
	for _, ea := range m.items {
		if ea.AssetID != assetID {
			continue
		}
		cp := *ea
		if e, ok := m.employees.items[ea.EmployeeID]; ok {
			cp.Employee = e
		}
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockAssignmentRepo) ListActiveByEmployee(_ context.Context, employeeID string) ([]model.EmployeeAsset, error) {
	var result []model.EmployeeAsset
	for _, ea := range m.items {
		if !ea.IsActive || ea.EmployeeID != employeeID {
			continue
		}
		cp := *ea
		if a, ok := m.assets.items[ea.AssetID]; ok {
			cp.Asset = a
		}
		result = append(result, cp)
	}
	return result, nil
}

func (m *mockAssignmentRepo) Close(_ context.Context, id string, returnedAt time.Time) error {
	ea, ok := m.items[id]
	if !ok || !ea.IsActive {
		return pkgerrors.ErrStaleState
	}
	ea.IsActive = false
	ea.ReturnedDate = &returnedAt
	return nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	items map[string]*model.Employee
	seq   int
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	m := &mockEmployeeRepo{items: make(map[string]*model.Employee)}
	m.items["emp-active"] = &model.Employee{
		ID: "emp-active", EmployeeCode: "EMP-0001", UserID: strPtr("staff-1"),
		Department: "Engineering", Position: "Developer", IsActive: true,
	}
	m.items["emp-inactive"] = &model.Employee{
		ID: "emp-inactive", EmployeeCode: "EMP-0002", Department: "Finance", IsActive: false,
	}
	return m
}

func (m *mockEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	for _, existing := range m.items {
		if existing.EmployeeCode == e.EmployeeCode {
			return uniqueViolation("employees_employee_code_key")
		}
	}
	m.seq++
	if e.ID == "" {
		e.ID = fmt.Sprintf("emp-%03d", m.seq)
	}
	cp := *e
	m.items[e.ID] = &cp
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.items[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) List(_ context.Context, f repository.EmployeeFilter) ([]model.Employee, int64, error) {
	var result []model.Employee
	for _, e := range m.items {
		if f.ActiveOnly && !e.IsActive {
			continue
		}
		if f.Search != "" && !containsFold(e.EmployeeCode, f.Search) &&
			!containsFold(e.Department, f.Search) && !containsFold(e.Position, f.Search) {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeCode < result[j].EmployeeCode })
	return result, int64(len(result)), nil
}

// ── Mock CommunicationRepository ──

type mockCommunicationRepo struct {
	items map[string]*model.Communication
	seq   int
}

func newMockCommunicationRepo() *mockCommunicationRepo {
	return &mockCommunicationRepo{items: make(map[string]*model.Communication)}
}

func (m *mockCommunicationRepo) Create(_ context.Context, c *model.Communication) error {
	m.seq++
	if c.ID == "" {
		c.ID = fmt.Sprintf("msg-%03d", m.seq)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = mockEpoch.Add(time.Duration(m.seq) * time.Minute)
	}
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func (m *mockCommunicationRepo) GetByID(_ context.Context, id string) (*model.Communication, error) {
	if c, ok := m.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCommunicationRepo) matches(c *model.Communication, to repository.Addressee) bool {
	switch {
	case c.RecipientID != nil && *c.RecipientID == to.UserID:
		return true
	case c.RecipientType == model.RecipientAllStaff:
		return true
	case c.RecipientType == model.RecipientDepartment && c.RecipientDepartment != nil:
		return *c.RecipientDepartment == to.Department
	}
	return false
}

func (m *mockCommunicationRepo) sorted(keep func(*model.Communication) bool) []model.Communication {
	var result []model.Communication
	for _, c := range m.items {
		if keep(c) {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

func (m *mockCommunicationRepo) ListInbox(_ context.Context, to repository.Addressee, search string, _ repository.Page) ([]model.Communication, int64, error) {
	result := m.sorted(func(c *model.Communication) bool {
		if !m.matches(c, to) {
			return false
		}
		return search == "" || containsFold(c.Subject, search) || containsFold(c.Message, search)
	})
	return result, int64(len(result)), nil
}

func (m *mockCommunicationRepo) ListSent(_ context.Context, senderID string, _ repository.Page) ([]model.Communication, int64, error) {
	result := m.sorted(func(c *model.Communication) bool { return c.SenderID == senderID })
	return result, int64(len(result)), nil
}

func (m *mockCommunicationRepo) CountUnread(_ context.Context, to repository.Addressee) (int64, error) {
	var n int64
	for _, c := range m.items {
		if !c.IsRead && m.matches(c, to) {
			n++
		}
	}
	return n, nil
}

func (m *mockCommunicationRepo) MarkRead(_ context.Context, id string, at time.Time) error {
	c, ok := m.items[id]
	if !ok || c.IsRead {
		return pkgerrors.ErrStaleState
	}
	c.IsRead = true
	c.ReadAt = &at
	return nil
}

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	items []model.Profile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{items: []model.Profile{
		{ID: "p-1", UserID: "admin-1", FullName: "Alice Admin", Email: "alice@example.com", Department: "Operations", Role: model.RoleAdmin},
		{ID: "p-2", UserID: "officer-1", FullName: "Oscar Officer", Email: "oscar@example.com", Department: "Security", Role: model.RoleSecurityOfficer},
		{ID: "p-3", UserID: "staff-1", FullName: "Sam Staff", Email: "sam@example.com", Department: "Engineering", Role: model.RoleStaff},
	}}
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID string) (*model.Profile, error) {
	for i := range m.items {
		if m.items[i].UserID == userID {
			p := m.items[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) List(_ context.Context) ([]model.Profile, error) {
	return append([]model.Profile(nil), m.items...), nil
}

func (m *mockProfileRepo) ListDepartments(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var depts []string
	for _, p := range m.items {
		if p.Department != "" && !seen[p.Department] {
			seen[p.Department] = true
			depts = append(depts, p.Department)
		}
	}
	sort.Strings(depts)
	return depts, nil
}

func (m *mockProfileRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

// ── 副作用记录 ──

type recordingPublisher struct {
	mu      sync.Mutex
	changes []realtime.Change
}

func (p *recordingPublisher) Publish(_ context.Context, c realtime.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, c)
}

func (p *recordingPublisher) tables() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, c := range p.changes {
		out = append(out, c.Table)
	}
	return out
}

type stubCodes struct {
	n     int
	fixed string // 非空时每次都返回该编号
}

func (c *stubCodes) Next(_ context.Context, prefix string) string {
	if c.fixed != "" {
		return c.fixed
	}
	c.n++
	return fmt.Sprintf("%s-20250106-%04d", prefix, c.n)
}

// ── 测试装配 ──

type testEnv struct {
	repo          *repository.Repository
	gatepasses    *mockGatepassRepo
	visitors      *mockVisitorRepo
	assets        *mockAssetRepo
	assignments   *mockAssignmentRepo
	employees     *mockEmployeeRepo
	communication *mockCommunicationRepo
	profiles      *mockProfileRepo
	events        *recordingPublisher
	codes         *stubCodes
	logger        *zap.Logger
}

func newTestEnv() *testEnv {
	employees := newMockEmployeeRepo()
	assets := newMockAssetRepo()
	env := &testEnv{
		gatepasses:    newMockGatepassRepo(),
		visitors:      newMockVisitorRepo(),
		assets:        assets,
		assignments:   newMockAssignmentRepo(employees, assets),
		employees:     employees,
		communication: newMockCommunicationRepo(),
		profiles:      newMockProfileRepo(),
		events:        &recordingPublisher{},
		codes:         &stubCodes{},
		logger:        zap.NewNop(),
	}
	env.repo = &repository.Repository{
		Gatepass:      env.gatepasses,
		Visitor:       env.visitors,
		Asset:         env.assets,
		Assignment:    env.assignments,
		Employee:      env.employees,
		Communication: env.communication,
		Profile:       env.profiles,
	}
	return env
}
